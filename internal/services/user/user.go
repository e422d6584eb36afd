// Package services содержит бизнес-логику профилей пользователей.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/lib/password"
	"github.com/magabrotheeeer/mypedia/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int) (*models.User, error)
	// ListUsers возвращает список пользователей с пагинацией.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	// UpdateUser обновляет редактируемые поля профиля.
	UpdateUser(ctx context.Context, user *models.User) (int, error)
	// RemoveUser удаляет пользователя по ID.
	RemoveUser(ctx context.Context, id int) (int, error)
	// ListPaymentsForOwner возвращает историю платежей пользователя.
	ListPaymentsForOwner(ctx context.Context, ownerID int) ([]*models.Payment, error)
}

// UserService реализует бизнес-логику профилей: наборы видимых полей
// по роли запрашивающего и частичное обновление.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// Read возвращает профиль пользователя. Полный набор полей с историей
// платежей видят сам пользователь и админ, остальным — сокращенный.
func (s *UserService) Read(ctx context.Context, principal models.Principal, id int) (any, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	isSelf := principal.UserID == id
	if access.UserProfileView(principal.Role, isSelf) == access.PublicProfile {
		return user.Public(), nil
	}

	payments, err := s.repo.ListPaymentsForOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{
		ID:              user.ID,
		Email:           user.Email,
		Username:        user.Username,
		FirstName:       user.FirstName,
		LastName:        user.LastName,
		PhoneNumber:     user.PhoneNumber,
		Country:         user.Country,
		Avatar:          user.Avatar,
		IsActive:        user.IsActive,
		LastLogin:       user.LastLogin,
		PaymentsHistory: payments,
	}, nil
}

// Update частично обновляет профиль. Редактировать могут сам пользователь,
// модератор и админ; модератору конфиденциальные поля не принимаются —
// они молча отбрасываются, а не вызывают ошибку.
func (s *UserService) Update(ctx context.Context, principal models.Principal, req models.DummyUserUpdate, id int) (int, error) {
	isSelf := principal.UserID == id
	if !principal.Role.CanUpdateUser(isSelf) {
		return 0, access.ErrForbidden
	}

	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return 0, err
	}

	restricted := !isSelf && principal.Role != access.RoleAdmin
	if restricted {
		req.LastName = nil
		req.PhoneNumber = nil
		req.Password = nil
	}

	if req.Username != nil {
		user.Username = req.Username
	}
	if req.FirstName != nil {
		user.FirstName = req.FirstName
	}
	if req.LastName != nil {
		user.LastName = req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.Country != nil {
		user.Country = req.Country
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}
	if req.Password != nil {
		hashed, err := password.GetHash(*req.Password)
		if err != nil {
			return 0, err
		}
		user.PasswordHash = hashed
	}

	count, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated user profile", slog.Int("id", id))
	return count, nil
}

// Remove удаляет учетную запись. Доступно самому пользователю и админу.
func (s *UserService) Remove(ctx context.Context, principal models.Principal, id int) (int, error) {
	if !principal.Role.CanDeleteUser(principal.UserID == id) {
		return 0, access.ErrForbidden
	}
	return s.repo.RemoveUser(ctx, id)
}

// List возвращает страницу пользователей в сокращенном представлении.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.PublicUser, error) {
	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	result := make([]*models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}
