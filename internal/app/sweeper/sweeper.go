// Package sweeper собирает приложение деактивации неактивных пользователей.
package sweeper

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/mypedia/internal/config"
	sweeperservice "github.com/magabrotheeeer/mypedia/internal/services/sweeper"
	"github.com/magabrotheeeer/mypedia/internal/storage/repository"
)

// Расписание запуска: каждый день в 03:00.
const sweepSchedule = "0 3 * * *"

// App представляет приложение периодической очистки.
type App struct {
	sweeperService *sweeperservice.SweeperService
	db             *repository.Storage
	cron           *cron.Cron
	logger         *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает приложение: подключает хранилище и настраивает расписание.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}
	if err := waitForDB(db); err != nil {
		return nil, err
	}

	sweeperService := sweeperservice.NewSweeperService(db, logger)

	return &App{
		sweeperService: sweeperService,
		db:             db,
		cron:           cron.New(),
		logger:         logger,
	}, nil
}

// Run запускает планировщик и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	_, err := a.cron.AddFunc(sweepSchedule, func() {
		if err := a.sweeperService.DeactivateStale(ctx); err != nil {
			a.logger.Error("failed to deactivate stale users", slog.Any("err", err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	a.cron.Start()
	a.logger.Info("inactivity sweeper started", slog.String("schedule", sweepSchedule))

	<-ctx.Done()
	a.logger.Info("shutting down inactivity sweeper")

	stopCtx := a.cron.Stop()
	<-stopCtx.Done()
	a.db.DB.Close()
	return nil
}
