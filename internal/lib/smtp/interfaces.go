// Package smtp отправка писем через SMTP-сервер с STARTTLS.
package smtp

import "io"

// Client минимальный набор команд SMTP-сессии, нужный для отправки письма.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает аутентифицированную SMTP-сессию.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
