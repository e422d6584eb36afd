// Package services содержит воркер блокировки неактивных пользователей.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
)

// InactivityThreshold — срок без входа, после которого учетная запись
// блокируется.
const InactivityThreshold = 30 * 24 * time.Hour

// UserRepository определяет метод блокировки неактивных пользователей.
type UserRepository interface {
	// DeactivateInactiveUsers блокирует активных пользователей, не заходивших
	// с указанного момента, и возвращает их email.
	DeactivateInactiveUsers(ctx context.Context, lastSeenBefore time.Time) ([]string, error)
}

// SweeperService блокирует пользователей, не заходивших больше месяца.
type SweeperService struct {
	repo UserRepository
	log  *slog.Logger
	now  func() time.Time
}

// NewSweeperService создает новый экземпляр SweeperService.
func NewSweeperService(repo UserRepository, log *slog.Logger) *SweeperService {
	return &SweeperService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// DeactivateStale блокирует учетные записи без входа за последний месяц.
func (s *SweeperService) DeactivateStale(ctx context.Context) error {
	s.log.Info("starting inactive users sweep")

	cutoff := s.now().Add(-InactivityThreshold)
	emails, err := s.repo.DeactivateInactiveUsers(ctx, cutoff)
	if err != nil {
		s.log.Error("failed to deactivate inactive users", sl.Err(err))
		return err
	}
	if len(emails) == 0 {
		s.log.Info("no inactive users found")
		return nil
	}

	s.log.Info("deactivated inactive users", slog.Int("count", len(emails)))
	for _, email := range emails {
		s.log.Info("deactivated user", slog.String("email", email))
	}
	return nil
}
