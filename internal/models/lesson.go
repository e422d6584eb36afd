package models

import "time"

// Lesson представляет урок курса.
type Lesson struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Preview     *string   `json:"preview"`
	Description *string   `json:"description"`
	VideoLink   *string   `json:"video_link"`
	CourseID    *int      `json:"course"`
	OwnerID     *int      `json:"owner"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DummyLesson используется для приёма данных урока из JSON-запроса.
type DummyLesson struct {
	Name        string `json:"name" validate:"required,max=150"`
	Preview     string `json:"preview,omitempty"`
	Description string `json:"description,omitempty"`
	VideoLink   string `json:"video_link,omitempty"`
	CourseID    *int   `json:"course,omitempty"`
}
