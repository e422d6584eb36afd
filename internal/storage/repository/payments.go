package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/mypedia/internal/models"
)

const paymentColumns = `id, amount, payment_method, payment_date, owner_id, course_id,
			      lesson_id, session_id, link, status`

func scanPayment(row interface{ Scan(...any) error }) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(&p.ID, &p.Amount, &p.PaymentMethod, &p.PaymentDate,
		&p.OwnerID, &p.CourseID, &p.LessonID, &p.SessionID, &p.Link, &p.Status); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePayment вставляет платеж вместе с реквизитами платёжной сессии.
// Сессия создается до вставки: записей с «висящей» сессией не бывает.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (amount, payment_method, owner_id, course_id,
			      lesson_id, session_id, link, status)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		payment.Amount, payment.PaymentMethod, payment.OwnerID, payment.CourseID,
		payment.LessonID, payment.SessionID, payment.Link, payment.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPayment возвращает платеж по ID.
func (s *Storage) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	const op = "storage.GetPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	p, err := scanPayment(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdatePaymentStatus фиксирует статус платежа, полученный от провайдера.
func (s *Storage) UpdatePaymentStatus(ctx context.Context, id int, status string) error {
	const op = "storage.UpdatePaymentStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments SET status = $1 WHERE id = $2`
	if _, err := s.DB.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdatePayment обновляет сумму и способ оплаты платежа.
func (s *Storage) UpdatePayment(ctx context.Context, payment *models.Payment) (int, error) {
	const op = "storage.UpdatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE payments SET amount = $1, payment_method = $2 WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, payment.Amount, payment.PaymentMethod, payment.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemovePayment удаляет платеж по ID и возвращает количество удалённых строк.
func (s *Storage) RemovePayment(ctx context.Context, id int) (int, error) {
	const op = "storage.RemovePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM payments WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListPayments возвращает платежи по фильтру с сортировкой по дате платежа.
// Пустой фильтр владельца означает выборку без сужения (модератор, админ).
func (s *Storage) ListPayments(ctx context.Context, filter models.PaymentFilter, limit, offset int) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var conditions []string
	var args []any
	addCondition := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, column+" = $"+strconv.Itoa(len(args)))
	}
	if filter.OwnerID != nil {
		addCondition("owner_id", *filter.OwnerID)
	}
	if filter.CourseID != nil {
		addCondition("course_id", *filter.CourseID)
	}
	if filter.LessonID != nil {
		addCondition("lesson_id", *filter.LessonID)
	}
	if filter.PaymentMethod != nil {
		addCondition("payment_method", *filter.PaymentMethod)
	}

	query := `SELECT ` + paymentColumns + ` FROM payments`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	order := " ORDER BY payment_date, id"
	if filter.OrderDesc {
		order = " ORDER BY payment_date DESC, id DESC"
	}
	args = append(args, limit, offset)
	query += order + " LIMIT $" + strconv.Itoa(len(args)-1) + " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListPaymentsForOwner возвращает историю платежей пользователя для профиля.
func (s *Storage) ListPaymentsForOwner(ctx context.Context, ownerID int) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsForOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + paymentColumns + `
			  FROM payments
			  WHERE owner_id = $1
			  ORDER BY payment_date, id`
	rows, err := s.DB.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
