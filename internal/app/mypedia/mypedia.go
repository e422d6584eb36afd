// Package mypedia собирает основное HTTP-приложение: хранилище, кэш,
// брокер сообщений, сервисы и маршруты.
package mypedia

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/mypedia/internal/cache"
	"github.com/magabrotheeeer/mypedia/internal/config"
	"github.com/magabrotheeeer/mypedia/internal/lib/jwt"
	"github.com/magabrotheeeer/mypedia/internal/migrations"
	"github.com/magabrotheeeer/mypedia/internal/paymentprovider"
	"github.com/magabrotheeeer/mypedia/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/mypedia/internal/services/auth"
	courseservice "github.com/magabrotheeeer/mypedia/internal/services/course"
	lessonservice "github.com/magabrotheeeer/mypedia/internal/services/lesson"
	paymentservice "github.com/magabrotheeeer/mypedia/internal/services/payment"
	subscriptionservice "github.com/magabrotheeeer/mypedia/internal/services/subscription"
	userservice "github.com/magabrotheeeer/mypedia/internal/services/user"
	"github.com/magabrotheeeer/mypedia/internal/storage/repository"
)

// App представляет основное HTTP-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает зависимости, применяет миграции
// и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
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

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL, cfg.RefreshTTL)
	providerClient := paymentprovider.NewClient(cfg.CheckoutAPIURL, cfg.CheckoutAPIKey, cfg.Currency, cfg.SuccessURL)
	notifier := rabbitmq.NewCourseNotifier(ch)

	authService := authservice.NewAuthService(db, jwtMaker, logger)
	courseService := courseservice.NewCourseService(db, cacheRedis, notifier, logger)
	lessonService := lessonservice.NewLessonService(db, courseService, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, logger)
	paymentService := paymentservice.NewPaymentService(db, providerClient, logger)
	userService := userservice.NewUserService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, jwtMaker, &Services{
		Auth:          authService,
		Courses:       courseService,
		Lessons:       lessonService,
		Subscriptions: subscriptionService,
		Payments:      paymentService,
		Users:         userService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
