package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/mypedia/internal/access"
	"github.com/magabrotheeeer/mypedia/internal/models"
	"github.com/magabrotheeeer/mypedia/internal/paymentprovider"
	services "github.com/magabrotheeeer/mypedia/internal/services/payment"
)

// Мок для PaymentRepository
type PaymentRepoMock struct {
	mock.Mock
}

func (m *PaymentRepoMock) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	args := m.Called(ctx, payment)
	return args.Int(0), args.Error(1)
}

func (m *PaymentRepoMock) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *PaymentRepoMock) UpdatePayment(ctx context.Context, payment *models.Payment) (int, error) {
	args := m.Called(ctx, payment)
	return args.Int(0), args.Error(1)
}

func (m *PaymentRepoMock) UpdatePaymentStatus(ctx context.Context, id int, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *PaymentRepoMock) RemovePayment(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *PaymentRepoMock) ListPayments(ctx context.Context, filter models.PaymentFilter, limit, offset int) ([]*models.Payment, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *PaymentRepoMock) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *PaymentRepoMock) GetLesson(ctx context.Context, id int) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

// Мок для CheckoutProvider
type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) CreateProduct(ctx context.Context, name string) (*paymentprovider.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Product), args.Error(1)
}

func (m *ProviderMock) CreatePrice(ctx context.Context, productID string, amount float64) (*paymentprovider.Price, error) {
	args := m.Called(ctx, productID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Price), args.Error(1)
}

func (m *ProviderMock) CreateSession(ctx context.Context, priceID string) (*paymentprovider.Session, error) {
	args := m.Called(ctx, priceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Session), args.Error(1)
}

func (m *ProviderMock) GetSessionStatus(ctx context.Context, sessionID string) (string, error) {
	args := m.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPaymentService_Create(t *testing.T) {
	courseID := 7
	principal := models.Principal{UserID: 10, Role: access.RoleUser}

	t.Run("session opens before the payment row is written", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		provider := new(ProviderMock)
		svc := services.NewPaymentService(repo, provider, discardLogger())

		repo.On("GetCourse", mock.Anything, 7).Return(&models.Course{ID: 7, Name: "Go basics"}, nil).Once()
		provider.On("CreateProduct", mock.Anything, "Go basics").
			Return(&paymentprovider.Product{ID: "prod_1", Name: "Go basics"}, nil).Once()
		provider.On("CreatePrice", mock.Anything, "prod_1", 100.0).
			Return(&paymentprovider.Price{ID: "price_1"}, nil).Once()
		provider.On("CreateSession", mock.Anything, "price_1").
			Return(&paymentprovider.Session{ID: "cs_1", URL: "https://checkout.example/cs_1"}, nil).Once()
		repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
			return p.Status == models.PaymentStatusUnpaid &&
				p.SessionID != nil && *p.SessionID == "cs_1" &&
				p.Link != nil && *p.Link == "https://checkout.example/cs_1" &&
				p.OwnerID != nil && *p.OwnerID == 10
		})).Return(1, nil).Once()

		id, link, err := svc.Create(context.Background(), principal, models.DummyPayment{
			Amount:        100,
			PaymentMethod: models.PaymentMethodTransfer,
			CourseID:      &courseID,
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, id)
		assert.Equal(t, "https://checkout.example/cs_1", link)

		repo.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("payment without course and lesson rejected", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		provider := new(ProviderMock)
		svc := services.NewPaymentService(repo, provider, discardLogger())

		_, _, err := svc.Create(context.Background(), principal, models.DummyPayment{
			Amount:        100,
			PaymentMethod: models.PaymentMethodCash,
		})
		assert.ErrorIs(t, err, services.ErrNoTarget)

		provider.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("provider failure leaves no payment row", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		provider := new(ProviderMock)
		svc := services.NewPaymentService(repo, provider, discardLogger())

		repo.On("GetCourse", mock.Anything, 7).Return(&models.Course{ID: 7, Name: "Go basics"}, nil).Once()
		provider.On("CreateProduct", mock.Anything, "Go basics").
			Return(nil, errors.New("provider down")).Once()

		_, _, err := svc.Create(context.Background(), principal, models.DummyPayment{
			Amount:        100,
			PaymentMethod: models.PaymentMethodTransfer,
			CourseID:      &courseID,
		})
		assert.Error(t, err)

		repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_Read(t *testing.T) {
	ownerID := 10
	sessionID := "cs_1"
	principal := models.Principal{UserID: 10, Role: access.RoleUser}

	unpaid := func() *models.Payment {
		return &models.Payment{
			ID:        1,
			OwnerID:   &ownerID,
			SessionID: &sessionID,
			Status:    models.PaymentStatusUnpaid,
		}
	}

	t.Run("unpaid payment reconciled to paid", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		provider := new(ProviderMock)
		svc := services.NewPaymentService(repo, provider, discardLogger())

		repo.On("GetPayment", mock.Anything, 1).Return(unpaid(), nil).Once()
		provider.On("GetSessionStatus", mock.Anything, "cs_1").Return(paymentprovider.SessionStatusPaid, nil).Once()
		repo.On("UpdatePaymentStatus", mock.Anything, 1, models.PaymentStatusPaid).Return(nil).Once()

		got, err := svc.Read(context.Background(), principal, 1)
		assert.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, got.Status)

		repo.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("non-paid provider status is persisted too", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		provider := new(ProviderMock)
		svc := services.NewPaymentService(repo, provider, discardLogger())

		repo.On("GetPayment", mock.Anything, 1).Return(unpaid(), nil).Once()
		provider.On("GetSessionStatus", mock.Anything, "cs_1").Return("no_payment_required", nil).Once()
		repo.On("UpdatePaymentStatus", mock.Anything, 1, "no_payment_required").Return(nil).Once()

		got, err := svc.Read(context.Background(), principal, 1)
		assert.NoError(t, err)
		assert.Equal(t, "no_payment_required", got.Status)

		repo.AssertExpectations(t)
		provider.AssertExpectations(t)
	})

	t.Run("unchanged provider status is not rewritten", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		provider := new(ProviderMock)
		svc := services.NewPaymentService(repo, provider, discardLogger())

		repo.On("GetPayment", mock.Anything, 1).Return(unpaid(), nil).Once()
		provider.On("GetSessionStatus", mock.Anything, "cs_1").Return(paymentprovider.SessionStatusUnpaid, nil).Once()

		got, err := svc.Read(context.Background(), principal, 1)
		assert.NoError(t, err)
		assert.Equal(t, models.PaymentStatusUnpaid, got.Status)

		repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("provider error keeps last known status", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		provider := new(ProviderMock)
		svc := services.NewPaymentService(repo, provider, discardLogger())

		repo.On("GetPayment", mock.Anything, 1).Return(unpaid(), nil).Once()
		provider.On("GetSessionStatus", mock.Anything, "cs_1").Return("", errors.New("timeout")).Once()

		got, err := svc.Read(context.Background(), principal, 1)
		assert.NoError(t, err)
		assert.Equal(t, models.PaymentStatusUnpaid, got.Status)

		repo.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("paid payment skips reconciliation", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		provider := new(ProviderMock)
		svc := services.NewPaymentService(repo, provider, discardLogger())

		paid := unpaid()
		paid.Status = models.PaymentStatusPaid
		repo.On("GetPayment", mock.Anything, 1).Return(paid, nil).Once()

		got, err := svc.Read(context.Background(), principal, 1)
		assert.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, got.Status)

		provider.AssertNotCalled(t, "GetSessionStatus", mock.Anything, mock.Anything)
	})

	t.Run("foreign payment forbidden for regular user", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		svc := services.NewPaymentService(repo, new(ProviderMock), discardLogger())

		repo.On("GetPayment", mock.Anything, 1).Return(unpaid(), nil).Once()

		_, err := svc.Read(context.Background(), models.Principal{UserID: 99, Role: access.RoleUser}, 1)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})
}

func TestPaymentService_Update(t *testing.T) {
	ownerID := 10
	payment := &models.Payment{ID: 1, Amount: 100, PaymentMethod: models.PaymentMethodCash, OwnerID: &ownerID}

	t.Run("moderator patches amount and method", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		svc := services.NewPaymentService(repo, new(ProviderMock), discardLogger())

		newAmount := 250.0
		newMethod := models.PaymentMethodTransfer
		repo.On("GetPayment", mock.Anything, 1).Return(payment, nil).Once()
		repo.On("UpdatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
			return p.Amount == 250.0 && p.PaymentMethod == models.PaymentMethodTransfer
		})).Return(1, nil).Once()

		count, err := svc.Update(context.Background(),
			models.Principal{UserID: 2, Role: access.RoleModerator},
			models.DummyPaymentUpdate{Amount: &newAmount, PaymentMethod: &newMethod}, 1)
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
		repo.AssertExpectations(t)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		svc := services.NewPaymentService(repo, new(ProviderMock), discardLogger())

		_, err := svc.Update(context.Background(),
			models.Principal{UserID: 10, Role: access.RoleUser},
			models.DummyPaymentUpdate{}, 1)
		assert.ErrorIs(t, err, access.ErrForbidden)
	})
}

func TestPaymentService_List(t *testing.T) {
	payments := []*models.Payment{{ID: 1}}

	t.Run("regular user filter narrowed to own payments", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		svc := services.NewPaymentService(repo, new(ProviderMock), discardLogger())

		repo.On("ListPayments", mock.Anything, mock.MatchedBy(func(f models.PaymentFilter) bool {
			return f.OwnerID != nil && *f.OwnerID == 10
		}), 20, 0).Return(payments, nil).Once()

		got, err := svc.List(context.Background(),
			models.Principal{UserID: 10, Role: access.RoleUser},
			models.PaymentFilter{}, 20, 0)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		repo.AssertExpectations(t)
	})

	t.Run("staff filter passes through unchanged", func(t *testing.T) {
		repo := new(PaymentRepoMock)
		svc := services.NewPaymentService(repo, new(ProviderMock), discardLogger())

		repo.On("ListPayments", mock.Anything, mock.MatchedBy(func(f models.PaymentFilter) bool {
			return f.OwnerID == nil && f.OrderDesc
		}), 20, 0).Return(payments, nil).Once()

		got, err := svc.List(context.Background(),
			models.Principal{UserID: 2, Role: access.RoleAdmin},
			models.PaymentFilter{OrderDesc: true}, 20, 0)
		assert.NoError(t, err)
		assert.Len(t, got, 1)
		repo.AssertExpectations(t)
	})
}
