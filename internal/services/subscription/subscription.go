// Package services содержит бизнес-логику для управления подписками на курсы.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/models"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// GetSubscription возвращает подписку по ID.
	GetSubscription(ctx context.Context, id int) (*models.Subscription, error)
	// UpdateSubscription обновляет флаг активности подписки.
	UpdateSubscription(ctx context.Context, id int, isActive bool) (int, error)
	// RemoveSubscription удаляет подписку по ID.
	RemoveSubscription(ctx context.Context, id int) (int, error)
	// ListSubscriptions возвращает все подписки с пагинацией.
	ListSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
	// ListSubscriptionsForOwner возвращает подписки пользователя с пагинацией.
	ListSubscriptionsForOwner(ctx context.Context, ownerID, limit, offset int) ([]*models.Subscription, error)
}

// SubscriptionService реализует бизнес-логику работы с подписками.
// Оформляет и снимает подписки персонал; пользователь видит только свои.
type SubscriptionService struct {
	repo SubscriptionRepository
	log  *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo: repo,
		log:  log,
	}
}

// Create оформляет подписку пользователя на курс. Владелец подписки берётся
// из тела запроса: подписку оформляет модератор или админ.
func (s *SubscriptionService) Create(ctx context.Context, principal models.Principal, req models.DummySubscription) (int, error) {
	if !principal.Role.CanManageSubscriptions() {
		return 0, access.ErrForbidden
	}

	sub := models.Subscription{
		CourseID: req.CourseID,
		OwnerID:  req.OwnerID,
		IsActive: true,
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new subscription", slog.Int("id", id))
	return id, nil
}

// Read возвращает подписку. Чужая подписка видна только персоналу.
func (s *SubscriptionService) Read(ctx context.Context, principal models.Principal, id int) (*models.Subscription, error) {
	sub, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.OwnerID != principal.UserID && !principal.Role.Staff() {
		return nil, access.ErrForbidden
	}
	return sub, nil
}

// Update переключает активность подписки. Доступно только персоналу.
func (s *SubscriptionService) Update(ctx context.Context, principal models.Principal, id int, isActive bool) (int, error) {
	if !principal.Role.CanManageSubscriptions() {
		return 0, access.ErrForbidden
	}
	if _, err := s.repo.GetSubscription(ctx, id); err != nil {
		return 0, err
	}
	return s.repo.UpdateSubscription(ctx, id, isActive)
}

// Remove снимает подписку. Доступно только персоналу.
func (s *SubscriptionService) Remove(ctx context.Context, principal models.Principal, id int) (int, error) {
	if !principal.Role.CanManageSubscriptions() {
		return 0, access.ErrForbidden
	}
	return s.repo.RemoveSubscription(ctx, id)
}

// List возвращает страницу подписок: обычному пользователю — только его
// собственные, персоналу — все.
func (s *SubscriptionService) List(ctx context.Context, principal models.Principal, limit, offset int) ([]*models.Subscription, error) {
	if principal.Role.Staff() {
		return s.repo.ListSubscriptions(ctx, limit, offset)
	}
	return s.repo.ListSubscriptionsForOwner(ctx, principal.UserID, limit, offset)
}
