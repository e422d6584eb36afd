package paymentprovider

// Product — сущность «товар» на стороне платёжного провайдера.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Price — цена товара в минимальных единицах валюты.
type Price struct {
	ID         string `json:"id"`
	ProductID  string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
}

// Session — платёжная сессия hosted checkout.
type Session struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	PaymentStatus string `json:"payment_status"`
}

// Статусы оплаты сессии, которые возвращает провайдер.
const (
	SessionStatusPaid   = "paid"
	SessionStatusUnpaid = "unpaid"
)
