// Package smtp содержит почтовый транспорт для рассылки уведомлений
// подписчикам курсов.
package smtp

import "io"

// Client — минимальный срез SMTP-сессии, нужный для отправки одного письма.
// Сужен до интерфейса, чтобы подменять сессию в тестах рассылки.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

// TransportInterface открывает SMTP-сессии и знает адрес отправителя.
type TransportInterface interface {
	Connect() (Client, error)
	GetSMTPUser() string
}
