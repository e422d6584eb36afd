// Package services содержит бизнес-логику платежей и сверку статусов
// с платёжным провайдером.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/lib/sl"
	"github.com/magabrotheeeer/mypedia/internal/models"
	"github.com/magabrotheeeer/mypedia/internal/paymentprovider"
)

// ErrNoTarget возвращается, когда платеж не привязан ни к курсу, ни к уроку.
// Обработчики транслируют её в HTTP 400.
var ErrNoTarget = errors.New("payment must reference a course or a lesson")

// PaymentRepository определяет методы для работы с платежами в хранилище.
type PaymentRepository interface {
	// CreatePayment вставляет платеж с реквизитами сессии и возвращает его ID.
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	// GetPayment возвращает платеж по ID.
	GetPayment(ctx context.Context, id int) (*models.Payment, error)
	// UpdatePayment обновляет сумму и способ оплаты.
	UpdatePayment(ctx context.Context, payment *models.Payment) (int, error)
	// UpdatePaymentStatus фиксирует статус, полученный от провайдера.
	UpdatePaymentStatus(ctx context.Context, id int, status string) error
	// RemovePayment удаляет платеж по ID.
	RemovePayment(ctx context.Context, id int) (int, error)
	// ListPayments возвращает платежи по фильтру с пагинацией.
	ListPayments(ctx context.Context, filter models.PaymentFilter, limit, offset int) ([]*models.Payment, error)
	// GetCourse возвращает курс по ID, нужен для названия товара.
	GetCourse(ctx context.Context, id int) (*models.Course, error)
	// GetLesson возвращает урок по ID, нужен для названия товара.
	GetLesson(ctx context.Context, id int) (*models.Lesson, error)
}

// CheckoutProvider — платёжный провайдер с hosted checkout.
type CheckoutProvider interface {
	CreateProduct(ctx context.Context, name string) (*paymentprovider.Product, error)
	CreatePrice(ctx context.Context, productID string, amount float64) (*paymentprovider.Price, error)
	CreateSession(ctx context.Context, priceID string) (*paymentprovider.Session, error)
	GetSessionStatus(ctx context.Context, sessionID string) (string, error)
}

// PaymentService реализует бизнес-логику платежей: создание платёжной сессии,
// сверку статуса при чтении и фильтрацию списка.
type PaymentService struct {
	repo     PaymentRepository
	provider CheckoutProvider
	log      *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo PaymentRepository, provider CheckoutProvider, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:     repo,
		provider: provider,
		log:      log,
	}
}

// Create создает платеж от имени пользователя. Сначала открывается платёжная
// сессия у провайдера, затем платеж сохраняется одной вставкой вместе со
// ссылкой на оплату: записей без сессии не бывает.
func (s *PaymentService) Create(ctx context.Context, principal models.Principal, req models.DummyPayment) (int, string, error) {
	productName, err := s.resolveProductName(ctx, req)
	if err != nil {
		return 0, "", err
	}

	product, err := s.provider.CreateProduct(ctx, productName)
	if err != nil {
		return 0, "", err
	}
	price, err := s.provider.CreatePrice(ctx, product.ID, req.Amount)
	if err != nil {
		return 0, "", err
	}
	session, err := s.provider.CreateSession(ctx, price.ID)
	if err != nil {
		return 0, "", err
	}

	payment := models.Payment{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		OwnerID:       &principal.UserID,
		CourseID:      req.CourseID,
		LessonID:      req.LessonID,
		SessionID:     &session.ID,
		Link:          &session.URL,
		Status:        models.PaymentStatusUnpaid,
	}

	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return 0, "", err
	}
	s.log.Info("created new payment", slog.Int("id", id), slog.String("session_id", session.ID))
	return id, session.URL, nil
}

func (s *PaymentService) resolveProductName(ctx context.Context, req models.DummyPayment) (string, error) {
	switch {
	case req.CourseID != nil:
		course, err := s.repo.GetCourse(ctx, *req.CourseID)
		if err != nil {
			return "", err
		}
		return course.Name, nil
	case req.LessonID != nil:
		lesson, err := s.repo.GetLesson(ctx, *req.LessonID)
		if err != nil {
			return "", err
		}
		return lesson.Name, nil
	default:
		return "", ErrNoTarget
	}
}

// Read возвращает платеж, сверяя неоплаченный статус с провайдером.
// Если провайдер недоступен, отдается последний известный статус.
func (s *PaymentService) Read(ctx context.Context, principal models.Principal, id int) (*models.Payment, error) {
	payment, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canView(principal, payment) {
		return nil, access.ErrForbidden
	}

	if payment.Status == models.PaymentStatusUnpaid && payment.SessionID != nil {
		status, err := s.provider.GetSessionStatus(ctx, *payment.SessionID)
		if err != nil {
			s.log.Warn("failed to check session status, keeping last known",
				slog.Int("payment_id", id), sl.Err(err))
			return payment, nil
		}
		if status != "" && status != payment.Status {
			if err := s.repo.UpdatePaymentStatus(ctx, id, status); err != nil {
				return nil, err
			}
			payment.Status = status
		}
	}
	return payment, nil
}

// Update изменяет сумму и способ оплаты. Доступно только персоналу.
func (s *PaymentService) Update(ctx context.Context, principal models.Principal, req models.DummyPaymentUpdate, id int) (int, error) {
	if !principal.Role.CanManagePayments() {
		return 0, access.ErrForbidden
	}

	payment, err := s.repo.GetPayment(ctx, id)
	if err != nil {
		return 0, err
	}
	if req.Amount != nil {
		payment.Amount = *req.Amount
	}
	if req.PaymentMethod != nil {
		payment.PaymentMethod = *req.PaymentMethod
	}
	return s.repo.UpdatePayment(ctx, payment)
}

// Remove удаляет платеж. Доступно только персоналу.
func (s *PaymentService) Remove(ctx context.Context, principal models.Principal, id int) (int, error) {
	if !principal.Role.CanManagePayments() {
		return 0, access.ErrForbidden
	}
	return s.repo.RemovePayment(ctx, id)
}

// List возвращает страницу платежей по фильтру. Обычный пользователь видит
// только собственные платежи независимо от фильтра.
func (s *PaymentService) List(ctx context.Context, principal models.Principal, filter models.PaymentFilter, limit, offset int) ([]*models.Payment, error) {
	if !principal.Role.Staff() {
		filter.OwnerID = &principal.UserID
	}
	return s.repo.ListPayments(ctx, filter, limit, offset)
}

func (s *PaymentService) canView(principal models.Principal, payment *models.Payment) bool {
	if principal.Role.Staff() {
		return true
	}
	return payment.OwnerID != nil && *payment.OwnerID == principal.UserID
}
