package models

import "time"

// Subscription связывает пользователя с курсом, который он отслеживает.
// Активная подписка означает, что владелец получает уведомления об
// обновлении курса.
type Subscription struct {
	ID        int       `json:"id"`
	CourseID  int       `json:"course"`
	OwnerID   int       `json:"owner"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// DummySubscription используется для приёма данных подписки из JSON-запроса.
// Владелец берётся из тела запроса: подписку оформляет модератор для пользователя.
type DummySubscription struct {
	CourseID int   `json:"course" validate:"required"`
	OwnerID  int   `json:"owner" validate:"required"`
	IsActive *bool `json:"is_active,omitempty"`
}
