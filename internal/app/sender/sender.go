// Package sender собирает приложение рассылки писем об обновлении курсов.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/mypedia/internal/cache"
	"github.com/magabrotheeeer/mypedia/internal/config"
	"github.com/magabrotheeeer/mypedia/internal/lib/smtp"
	"github.com/magabrotheeeer/mypedia/internal/rabbitmq"
	senderservice "github.com/magabrotheeeer/mypedia/internal/services/sender"
	"github.com/magabrotheeeer/mypedia/internal/storage/repository"
)

// App представляет приложение отправки уведомлений.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New создает приложение: хранилище для списков подписчиков, Redis для
// дедупликации рассылок и канал RabbitMQ для чтения событий.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(db, cacheRedis, newTransport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди обновлений курсов и блокируется
// до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeQueue(ctx, a.ch, rabbitmq.CourseUpdatedQueue, a.senderService.HandleCourseUpdated, a.logger)
	if err != nil {
		a.logger.Error("failed to start course updates consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
