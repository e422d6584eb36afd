// Package services содержит логику бизнес-уровня для работы с аутентификацией.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/lib/jwt"
	"github.com/magabrotheeeer/mypedia/internal/lib/password"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль
// и при попытке входа в заблокированную учетную запись.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id int) (*models.User, error)

	// TouchLastLogin фиксирует время последнего входа.
	TouchLastLogin(ctx context.Context, id int) error
}

// TokenPair — пара access/refresh токенов, выдаваемая при входе.
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// AuthService отвечает за регистрацию, авторизацию и обновление JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью "user". Учетная запись активна сразу, подтверждение почты не требуется.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (int, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return 0, err
	}
	user := models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         string(access.RoleUser),
	}
	if req.Username != "" {
		user.Username = &req.Username
	}
	return s.users.CreateUser(ctx, user)
}

// Login проверяет пароль пользователя, фиксирует вход и выдает пару токенов.
// Заблокированная учетная запись неотличима от неверного пароля.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*TokenPair, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.log.Warn("failed to touch last login", sl.Err(err))
	}

	return s.issuePair(user)
}

// Refresh проверяет refresh-токен и выдает новую пару токенов.
// Access-токен в качестве refresh не принимается.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtMaker.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwt.TypeRefresh {
		return nil, errors.New("not a refresh token")
	}

	user, err := s.users.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(user)
}

func (s *AuthService) issuePair(user *models.User) (*TokenPair, error) {
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtMaker.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: token, RefreshToken: refresh}, nil
}
