package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/mypedia/internal/models"
)

func TestStorage_GetCourseForOwner(t *testing.T) {
	tests := []struct {
		name    string
		asOwner bool
		wantErr error
	}{
		{
			name:    "owner sees own course",
			asOwner: true,
		},
		{
			name:    "foreign course is indistinguishable from missing",
			asOwner: false,
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			ownerID := factory.CreateUser(t, "owner@example.com", "owner", "hashedpassword", "user")
			strangerID := factory.CreateUser(t, "stranger@example.com", "stranger", "hashedpassword", "user")
			courseID := factory.CreateCourse(t, "Go basics", ownerID)

			requesterID := ownerID
			if !tt.asOwner {
				requesterID = strangerID
			}

			got, err := storage.GetCourseForOwner(context.Background(), courseID, requesterID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, courseID, got.ID)
			assert.Equal(t, "Go basics", got.Name)
			require.NotNil(t, got.OwnerID)
			assert.Equal(t, ownerID, *got.OwnerID)
		})
	}
}

func TestStorage_RemoveCourseForOwner(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	ownerID := factory.CreateUser(t, "owner@example.com", "owner", "hashedpassword", "user")
	strangerID := factory.CreateUser(t, "stranger@example.com", "stranger", "hashedpassword", "user")
	courseID := factory.CreateCourse(t, "Go basics", ownerID)

	// Чужой запрос не удаляет курс
	count, err := storage.RemoveCourseForOwner(context.Background(), courseID, strangerID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	verify.VerifyCourseExists(t, courseID)

	// Владелец удаляет
	count, err = storage.RemoveCourseForOwner(context.Background(), courseID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	verify.VerifyCourseDeleted(t, courseID)
}

func TestStorage_TouchCourse(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	ownerID := factory.CreateUser(t, "owner@example.com", "owner", "hashedpassword", "user")
	courseID := factory.CreateCourse(t, "Go basics", ownerID)

	before := verify.CourseUpdatedAt(t, courseID)

	// Сдвигаем updated_at в прошлое, чтобы изменение было заметно
	_, err := storage.DB.Exec(`UPDATE courses SET updated_at = NOW() - INTERVAL '1 day' WHERE id = $1`, courseID)
	require.NoError(t, err)

	err = storage.TouchCourse(context.Background(), courseID)
	require.NoError(t, err)

	after := verify.CourseUpdatedAt(t, courseID)
	assert.False(t, after.Before(before.Add(-time.Minute)))
	assert.WithinDuration(t, time.Now(), after, time.Minute)
}

func TestStorage_DeactivateInactiveUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	staleID := factory.CreateUser(t, "stale@example.com", "stale", "hashedpassword", "user")
	recentID := factory.CreateUser(t, "recent@example.com", "recent", "hashedpassword", "user")
	neverID := factory.CreateUser(t, "never@example.com", "never", "hashedpassword", "user")

	now := time.Now()
	factory.SetLastLogin(t, staleID, now.AddDate(0, 0, -45))
	factory.SetLastLogin(t, recentID, now.AddDate(0, 0, -5))

	emails, err := storage.DeactivateInactiveUsers(context.Background(), now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, []string{"stale@example.com"}, emails)

	verify.VerifyUserActive(t, staleID, false)
	verify.VerifyUserActive(t, recentID, true)
	// Ни разу не заходивший пользователь не блокируется
	verify.VerifyUserActive(t, neverID, true)

	// Повторный запуск не трогает уже заблокированных
	emails, err = storage.DeactivateInactiveUsers(context.Background(), now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Empty(t, emails)
}

func TestStorage_ListActiveSubscriberEmails(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	authorID := factory.CreateUser(t, "author@example.com", "author", "hashedpassword", "user")
	activeID := factory.CreateUser(t, "active@example.com", "active", "hashedpassword", "user")
	pausedID := factory.CreateUser(t, "paused@example.com", "paused", "hashedpassword", "user")
	blockedID := factory.CreateUser(t, "blocked@example.com", "blocked", "hashedpassword", "user")

	courseID := factory.CreateCourse(t, "Go basics", authorID)
	otherCourseID := factory.CreateCourse(t, "SQL basics", authorID)

	factory.CreateSubscription(t, courseID, activeID, true)
	factory.CreateSubscription(t, courseID, pausedID, false)
	factory.CreateSubscription(t, courseID, blockedID, true)
	factory.CreateSubscription(t, otherCourseID, activeID, true)
	factory.SetUserActive(t, blockedID, false)

	emails, err := storage.ListActiveSubscriberEmails(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, []string{"active@example.com"}, emails)
}

func TestStorage_IsSubscribed(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	authorID := factory.CreateUser(t, "author@example.com", "author", "hashedpassword", "user")
	subscriberID := factory.CreateUser(t, "subscriber@example.com", "subscriber", "hashedpassword", "user")
	pausedID := factory.CreateUser(t, "paused@example.com", "paused", "hashedpassword", "user")
	courseID := factory.CreateCourse(t, "Go basics", authorID)

	factory.CreateSubscription(t, courseID, subscriberID, true)
	factory.CreateSubscription(t, courseID, pausedID, false)

	subscribed, err := storage.IsSubscribed(context.Background(), courseID, subscriberID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	subscribed, err = storage.IsSubscribed(context.Background(), courseID, pausedID)
	require.NoError(t, err)
	assert.False(t, subscribed)

	subscribed, err = storage.IsSubscribed(context.Background(), courseID, authorID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestStorage_CountCourseLessons(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	ownerID := factory.CreateUser(t, "owner@example.com", "owner", "hashedpassword", "user")
	courseID := factory.CreateCourse(t, "Go basics", ownerID)
	otherCourseID := factory.CreateCourse(t, "SQL basics", ownerID)

	factory.CreateLesson(t, "Intro", "https://www.youtube.com/watch?v=a", courseID, ownerID)
	factory.CreateLesson(t, "Types", "https://www.youtube.com/watch?v=b", courseID, ownerID)
	factory.CreateLesson(t, "Joins", "https://www.youtube.com/watch?v=c", otherCourseID, ownerID)

	count, err := storage.CountCourseLessons(context.Background(), courseID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = storage.CountCourseLessons(context.Background(), otherCourseID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_ListPayments(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	firstID := factory.CreateUser(t, "first@example.com", "first", "hashedpassword", "user")
	secondID := factory.CreateUser(t, "second@example.com", "second", "hashedpassword", "user")
	courseID := factory.CreateCourse(t, "Go basics", firstID)

	factory.CreatePayment(t, firstID, courseID, 100.0, models.PaymentMethodCash, models.PaymentStatusPaid)
	factory.CreatePayment(t, firstID, courseID, 200.0, models.PaymentMethodTransfer, models.PaymentStatusUnpaid)
	factory.CreatePayment(t, secondID, courseID, 300.0, models.PaymentMethodCash, models.PaymentStatusPaid)

	ctx := context.Background()

	// Без фильтров видны все платежи
	payments, err := storage.ListPayments(ctx, models.PaymentFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, payments, 3)

	// Сужение по владельцу
	payments, err = storage.ListPayments(ctx, models.PaymentFilter{OwnerID: &firstID}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	// Сужение по способу оплаты
	method := models.PaymentMethodCash
	payments, err = storage.ListPayments(ctx, models.PaymentFilter{PaymentMethod: &method}, 10, 0)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	for _, p := range payments {
		assert.Equal(t, models.PaymentMethodCash, p.PaymentMethod)
	}

	// Комбинация фильтров
	payments, err = storage.ListPayments(ctx, models.PaymentFilter{OwnerID: &secondID, PaymentMethod: &method}, 10, 0)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.InEpsilon(t, 300.0, payments[0].Amount, 0.001)
}

func TestStorage_UpdatePaymentStatus(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	ownerID := factory.CreateUser(t, "owner@example.com", "owner", "hashedpassword", "user")
	courseID := factory.CreateCourse(t, "Go basics", ownerID)
	paymentID := factory.CreatePayment(t, ownerID, courseID, 100.0, models.PaymentMethodTransfer, models.PaymentStatusUnpaid)

	err := storage.UpdatePaymentStatus(context.Background(), paymentID, models.PaymentStatusPaid)
	require.NoError(t, err)
	verify.VerifyPaymentStatus(t, paymentID, models.PaymentStatusPaid)
}
