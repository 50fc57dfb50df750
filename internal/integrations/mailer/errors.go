package mailer

import "errors"

var (
	// ErrInvalidMessage возвращается, когда у письма нет получателя или темы
	ErrInvalidMessage = errors.New("mailer client: invalid message")

	// ErrSend возвращается при ошибке SMTP сессии
	ErrSend = errors.New("mailer client: send failed")
)
