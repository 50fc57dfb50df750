package mailer

// Message письмо клиенту
// Text обязателен, HTML добавляется альтернативной частью
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}
