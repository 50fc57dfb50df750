package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Config параметры SMTP сервера
type Config struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Client SMTP клиент для отправки писем клиентам
// При Enabled = false письма только логируются
type Client struct {
	cfg     Config
	timeout time.Duration
	log     Logger
}

// NewClient создает новый экземпляр SMTP клиента
func NewClient(cfg Config, timeout time.Duration, log Logger) *Client {
	if cfg.From == "" {
		cfg.From = "no-reply@racing-clean.local"
	}
	return &Client{
		cfg:     cfg,
		timeout: timeout,
		log:     log,
	}
}

// Send отправляет письмо
func (c *Client) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" || strings.TrimSpace(msg.Subject) == "" {
		return fmt.Errorf("%w: recipient and subject are required", ErrInvalidMessage)
	}

	if !c.cfg.Enabled {
		c.log.Info("Mailer: disabled, skipping mail to=%s subject=%q", msg.To, msg.Subject)
		return nil
	}

	addr := net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))

	dialer := &net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrSend, addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, c.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("%w: handshake: %v", ErrSend, err)
	}
	defer client.Close()

	// STARTTLS, если сервер поддерживает
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(nil); err != nil {
			return fmt.Errorf("%w: starttls: %v", ErrSend, err)
		}
	}

	if c.cfg.Username != "" {
		auth := smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("%w: auth: %v", ErrSend, err)
		}
	}

	if err := client.Mail(c.cfg.From); err != nil {
		return fmt.Errorf("%w: MAIL FROM: %v", ErrSend, err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("%w: RCPT TO: %v", ErrSend, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%w: DATA: %v", ErrSend, err)
	}
	if _, err := w.Write([]byte(buildMessage(c.cfg.From, msg))); err != nil {
		return fmt.Errorf("%w: write body: %v", ErrSend, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: close body: %v", ErrSend, err)
	}

	c.log.Info("Mailer: sent mail to=%s subject=%q", msg.To, msg.Subject)
	return client.Quit()
}

const boundary = "rc-booking-alt"

// buildMessage собирает RFC 5322 письмо; при наличии HTML - multipart/alternative
func buildMessage(from string, msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\n", from, msg.To, msg.Subject)

	if msg.HTML == "" {
		fmt.Fprintf(&b, "Content-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", msg.Text)
		return b.String()
	}

	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.Text)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", boundary, msg.HTML)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}
