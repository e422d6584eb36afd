package models

import "time"

// Способы оплаты.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer_to_account"
)

// Статусы платежа. Платеж создается неоплаченным и переводится в статус,
// который сообщает платёжный провайдер после сверки сессии.
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Payment представляет платеж за курс или урок.
type Payment struct {
	ID            int       `json:"id"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	PaymentDate   time.Time `json:"payment_date"`
	OwnerID       *int      `json:"owner"`
	CourseID      *int      `json:"course"`
	LessonID      *int      `json:"lesson"`
	SessionID     *string   `json:"session_id"`
	Link          *string   `json:"link"`
	Status        string    `json:"status"`
}

// DummyPayment используется для приёма данных платежа из JSON-запроса.
// Владелец всегда выставляется сервером из контекста запроса.
type DummyPayment struct {
	Amount        float64 `json:"amount" validate:"gte=0"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=cash transfer_to_account"`
	CourseID      *int    `json:"course,omitempty"`
	LessonID      *int    `json:"lesson,omitempty"`
}

// DummyPaymentUpdate используется для изменения платежа модератором.
type DummyPaymentUpdate struct {
	Amount        *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
	PaymentMethod *string  `json:"payment_method,omitempty" validate:"omitempty,oneof=cash transfer_to_account"`
}

// PaymentFilter — параметры фильтрации списка платежей.
type PaymentFilter struct {
	OwnerID       *int // nil — без сужения по владельцу (модератор, админ)
	CourseID      *int
	LessonID      *int
	PaymentMethod *string
	OrderDesc     bool // сортировка по дате платежа
}
