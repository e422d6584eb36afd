// Package models содержит доменные структуры сервиса: пользователей, курсы,
// уроки, подписки и платежи, а также вспомогательные типы для приёма данных
// из JSON-запросов до их валидации.
package models

import (
	"time"

	"github.com/magabrotheeeer/mypedia/internal/access"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int        `json:"id"`
	UID          string     `json:"uid"`
	Email        string     `json:"email"`
	Username     *string    `json:"username"`
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	PhoneNumber  *string    `json:"phone_number"`
	Country      *string    `json:"country"`
	Avatar       *string    `json:"avatar"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// PublicUser — сокращенный набор полей профиля, видимый всем авторизованным.
type PublicUser struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	Country   *string `json:"country"`
	Avatar    *string `json:"avatar"`
}

// UserProfile — полный профиль с историей платежей, доступен владельцу и админу.
type UserProfile struct {
	ID              int        `json:"id"`
	Email           string     `json:"email"`
	Username        *string    `json:"username"`
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	PhoneNumber     *string    `json:"phone_number"`
	Country         *string    `json:"country"`
	Avatar          *string    `json:"avatar"`
	IsActive        bool       `json:"is_active"`
	LastLogin       *time.Time `json:"last_login"`
	PaymentsHistory []*Payment `json:"payments_history"`
}

// Public возвращает сокращенное представление пользователя.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		Country:   u.Country,
		Avatar:    u.Avatar,
	}
}

// Principal — аутентифицированный субъект запроса. Роль разбирается из JWT
// один раз в middleware и далее не пересчитывается.
type Principal struct {
	UserID int
	Email  string
	Role   access.Role
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Username string `json:"username,omitempty" validate:"omitempty,alphanum"`
}

// DummyLogin используется для приёма данных авторизации.
type DummyLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DummyRefresh используется для приёма refresh-токена.
type DummyRefresh struct {
	RefreshToken string `json:"refresh" validate:"required"`
}

// DummyUserUpdate используется для частичного обновления профиля.
// Поля-указатели позволяют отличить отсутствующее значение от пустого.
type DummyUserUpdate struct {
	Username    *string `json:"username,omitempty"`
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Country     *string `json:"country,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	Password    *string `json:"password,omitempty"`
}
