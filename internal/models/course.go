package models

import "time"

// Course представляет курс уроков.
type Course struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Preview     *string   `json:"preview"`
	Description *string   `json:"description"`
	OwnerID     *int      `json:"owner"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CourseDetail — представление курса для ответов API: базовые поля плюс
// количество уроков, вложенные уроки и признак подписки запрашивающего.
type CourseDetail struct {
	Course
	LessonsCount int       `json:"lessons_count"`
	Lessons      []*Lesson `json:"course_lessons"`
	IsSubscribed string    `json:"is_subscribed"`
}

// Тексты признака подписки в ответах API.
const (
	SubscribedLabel    = "Вы подписаны"
	NotSubscribedLabel = "Вы еще не подписаны"
)

// DummyCourse используется для приёма данных курса из JSON-запроса.
type DummyCourse struct {
	Name        string `json:"name" validate:"required,max=150"`
	Preview     string `json:"preview,omitempty"`
	Description string `json:"description,omitempty"`
}

// CourseUpdatedEvent — событие обновления курса, публикуемое в очередь
// уведомлений при изменении курса или его уроков.
type CourseUpdatedEvent struct {
	CourseID int       `json:"course_id"`
	Name     string    `json:"name"`
	Occurred time.Time `json:"occurred"`
}
