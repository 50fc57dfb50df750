package auth

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("auth: invalid input data")

	// ErrEmailTaken возвращается, когда email уже зарегистрирован
	ErrEmailTaken = errors.New("auth: email already registered")

	// ErrInvalidCredentials возвращается при неверном email или пароле
	ErrInvalidCredentials = errors.New("auth: invalid email or password")

	// ErrInvalidToken возвращается при отсутствующем, поддельном или просроченном токене
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrUserNotFound возвращается, когда пользователь из токена не существует
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("auth: internal error")
)
