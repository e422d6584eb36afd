package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/mypedia/internal/models"
)

// CreateLesson вставляет новый урок и возвращает его ID.
func (s *Storage) CreateLesson(ctx context.Context, lesson models.Lesson) (int, error) {
	const op = "storage.CreateLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO lessons (name, preview, description, video_link, course_id, owner_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		lesson.Name, lesson.Preview, lesson.Description, lesson.VideoLink,
		lesson.CourseID, lesson.OwnerID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetLesson возвращает урок по ID.
func (s *Storage) GetLesson(ctx context.Context, id int) (*models.Lesson, error) {
	const op = "storage.GetLesson"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, preview, description, video_link, course_id, owner_id, updated_at
			  FROM lessons WHERE id = $1`
	var l models.Lesson
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Preview, &l.Description, &l.VideoLink,
		&l.CourseID, &l.OwnerID, &l.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}

// UpdateLesson обновляет данные урока, поднимая updated_at,
// и возвращает количество изменённых строк.
func (s *Storage) UpdateLesson(ctx context.Context, lesson models.Lesson, id int) (int, error) {
	const op = "storage.UpdateLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE lessons
			  SET name = $1, preview = $2, description = $3, video_link = $4,
			      course_id = $5, updated_at = NOW()
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		lesson.Name, lesson.Preview, lesson.Description, lesson.VideoLink,
		lesson.CourseID, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveLesson удаляет урок по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveLesson(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveLesson"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM lessons WHERE id = $1`
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

// ListLessons возвращает все уроки по возрастанию ID с пагинацией.
func (s *Storage) ListLessons(ctx context.Context, limit, offset int) ([]*models.Lesson, error) {
	const op = "storage.ListLessons"
	return s.listLessons(ctx, op, `SELECT id, name, preview, description, video_link,
			      course_id, owner_id, updated_at
			  FROM lessons
			  ORDER BY id
			  LIMIT $1 OFFSET $2`, limit, offset)
}

// ListLessonsForOwner возвращает уроки владельца по возрастанию ID с пагинацией.
func (s *Storage) ListLessonsForOwner(ctx context.Context, ownerID, limit, offset int) ([]*models.Lesson, error) {
	const op = "storage.ListLessonsForOwner"
	return s.listLessons(ctx, op, `SELECT id, name, preview, description, video_link,
			      course_id, owner_id, updated_at
			  FROM lessons
			  WHERE owner_id = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`, ownerID, limit, offset)
}

// ListCourseLessons возвращает все уроки курса по возрастанию ID.
func (s *Storage) ListCourseLessons(ctx context.Context, courseID int) ([]*models.Lesson, error) {
	const op = "storage.ListCourseLessons"
	return s.listLessons(ctx, op, `SELECT id, name, preview, description, video_link,
			      course_id, owner_id, updated_at
			  FROM lessons
			  WHERE course_id = $1
			  ORDER BY id`, courseID)
}

func (s *Storage) listLessons(ctx context.Context, op, query string, args ...any) ([]*models.Lesson, error) {
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

	var result []*models.Lesson
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.Name, &l.Preview, &l.Description, &l.VideoLink,
			&l.CourseID, &l.OwnerID, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountCourseLessons подсчитывает количество уроков в курсе.
func (s *Storage) CountCourseLessons(ctx context.Context, courseID int) (int, error) {
	const op = "storage.CountCourseLessons"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM lessons WHERE course_id = $1`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, courseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
