package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/mypedia/internal/models"
)

// CreateSubscription вставляет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (course_id, owner_id, is_active)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.CourseID, sub.OwnerID, sub.IsActive).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetSubscription возвращает подписку по ID.
func (s *Storage) GetSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "storage.GetSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, course_id, owner_id, is_active, created_at
			  FROM subscriptions WHERE id = $1`
	var sub models.Subscription
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.CourseID, &sub.OwnerID, &sub.IsActive, &sub.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &sub, nil
}

// UpdateSubscription обновляет флаг активности подписки.
func (s *Storage) UpdateSubscription(ctx context.Context, id int, isActive bool) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions SET is_active = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, isActive, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
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

// ListSubscriptions возвращает все подписки по возрастанию ID с пагинацией.
func (s *Storage) ListSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	return s.listSubscriptions(ctx, op, `SELECT id, course_id, owner_id, is_active, created_at
			  FROM subscriptions
			  ORDER BY id
			  LIMIT $1 OFFSET $2`, limit, offset)
}

// ListSubscriptionsForOwner возвращает подписки пользователя по возрастанию ID.
func (s *Storage) ListSubscriptionsForOwner(ctx context.Context, ownerID, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsForOwner"
	return s.listSubscriptions(ctx, op, `SELECT id, course_id, owner_id, is_active, created_at
			  FROM subscriptions
			  WHERE owner_id = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`, ownerID, limit, offset)
}

func (s *Storage) listSubscriptions(ctx context.Context, op, query string, args ...any) ([]*models.Subscription, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.CourseID, &sub.OwnerID,
			&sub.IsActive, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// IsSubscribed сообщает, есть ли у пользователя активная подписка на курс.
func (s *Storage) IsSubscribed(ctx context.Context, courseID, ownerID int) (bool, error) {
	const op = "storage.IsSubscribed"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
			      SELECT 1 FROM subscriptions
			      WHERE course_id = $1 AND owner_id = $2 AND is_active = TRUE
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, courseID, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ListActiveSubscriberEmails возвращает email активных подписчиков курса.
func (s *Storage) ListActiveSubscriberEmails(ctx context.Context, courseID int) ([]string, error) {
	const op = "storage.ListActiveSubscriberEmails"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email
			  FROM subscriptions s
			  JOIN users u ON u.id = s.owner_id
			  WHERE s.course_id = $1
			    AND s.is_active = TRUE
			    AND u.is_active = TRUE`
	rows, err := s.DB.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		emails = append(emails, email)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return emails, nil
}
