package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/mypedia/internal/models"
)

// CreateCourse вставляет новый курс и возвращает его ID.
func (s *Storage) CreateCourse(ctx context.Context, course models.Course) (int, error) {
	const op = "storage.CreateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO courses (name, preview, description, owner_id)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		course.Name, course.Preview, course.Description, course.OwnerID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetCourse возвращает курс по ID без сужения по владельцу.
func (s *Storage) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	const op = "storage.GetCourse"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, preview, description, owner_id, updated_at
			  FROM courses WHERE id = $1`
	var c models.Course
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Preview, &c.Description, &c.OwnerID, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// GetCourseForOwner возвращает курс по ID только из видимой владельцу выборки.
// Чужой курс для обычного пользователя неотличим от несуществующего.
func (s *Storage) GetCourseForOwner(ctx context.Context, id, ownerID int) (*models.Course, error) {
	const op = "storage.GetCourseForOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, preview, description, owner_id, updated_at
			  FROM courses WHERE id = $1 AND owner_id = $2`
	var c models.Course
	err := s.DB.QueryRowContext(ctx, query, id, ownerID).Scan(
		&c.ID, &c.Name, &c.Preview, &c.Description, &c.OwnerID, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}

// UpdateCourse обновляет данные курса, поднимая updated_at,
// и возвращает количество изменённых строк.
func (s *Storage) UpdateCourse(ctx context.Context, course models.Course, id int) (int, error) {
	const op = "storage.UpdateCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses
			  SET name = $1, preview = $2, description = $3, updated_at = NOW()
			  WHERE id = $4`
	result, err := s.DB.ExecContext(ctx, query,
		course.Name, course.Preview, course.Description, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// TouchCourse поднимает updated_at курса без изменения остальных полей.
// Используется при срабатывании уведомления от сохранения урока.
func (s *Storage) TouchCourse(ctx context.Context, id int) error {
	const op = "storage.TouchCourse"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE courses SET updated_at = NOW() WHERE id = $1`
	if _, err := s.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RemoveCourse удаляет курс по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveCourse(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveCourse"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM courses WHERE id = $1`
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

// RemoveCourseForOwner удаляет курс только из видимой владельцу выборки.
func (s *Storage) RemoveCourseForOwner(ctx context.Context, id, ownerID int) (int, error) {
	const op = "storage.RemoveCourseForOwner"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM courses WHERE id = $1 AND owner_id = $2`
	result, err := s.DB.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListCourses возвращает все курсы по возрастанию ID с пагинацией.
func (s *Storage) ListCourses(ctx context.Context, limit, offset int) ([]*models.Course, error) {
	const op = "storage.ListCourses"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, preview, description, owner_id, updated_at
			  FROM courses
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Preview, &c.Description,
			&c.OwnerID, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListCoursesForOwner возвращает курсы владельца по возрастанию ID с пагинацией.
func (s *Storage) ListCoursesForOwner(ctx context.Context, ownerID, limit, offset int) ([]*models.Course, error) {
	const op = "storage.ListCoursesForOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, preview, description, owner_id, updated_at
			  FROM courses
			  WHERE owner_id = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Preview, &c.Description,
			&c.OwnerID, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
