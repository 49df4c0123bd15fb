package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/internal/wire"
	"github.com/example/vocabtrainer/pkg/models"
)

// ExamRepository handles database operations for exam attempts
type ExamRepository struct {
	db *sqlx.DB
}

// ListExams returns every exam, newest first
func (r *ExamRepository) ListExams(ctx context.Context) ([]*models.Exam, error) {
	var rows []wire.ExamPayload
	if err := r.db.SelectContext(ctx, &rows, "SELECT id, user_id, list, name, topic_id FROM user_exams ORDER BY id DESC"); err != nil {
		return nil, fmt.Errorf("failed to get exams: %w", err)
	}

	exams := make([]*models.Exam, 0, len(rows))
	for _, row := range rows {
		exams = append(exams, row.Exam())
	}
	return exams, nil
}

// GetExam returns an exam by ID
func (r *ExamRepository) GetExam(ctx context.Context, id int64) (*models.Exam, error) {
	var row wire.ExamPayload
	query := r.db.Rebind("SELECT id, user_id, list, name, topic_id FROM user_exams WHERE id = ?")
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, fmt.Errorf("failed to get exam: %w", notFound(err))
	}
	return row.Exam(), nil
}

// CreateExam inserts an exam and sets its ID
func (r *ExamRepository) CreateExam(ctx context.Context, e *models.Exam) error {
	row := wire.FromExam(e)
	id, err := insertReturningID(ctx, r.db,
		"INSERT INTO user_exams (user_id, list, name, topic_id) VALUES (?, ?, ?, ?) RETURNING id",
		row.UserID, row.List, row.Name, row.TopicID)
	if err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	e.ID = id
	return nil
}

// UpdateExam stores the answers of an exam
func (r *ExamRepository) UpdateExam(ctx context.Context, e *models.Exam) error {
	row := wire.FromExam(e)
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE user_exams SET user_id = ?, list = ?, name = ?, topic_id = ? WHERE id = ?"),
		row.UserID, row.List, row.Name, row.TopicID, row.ID)
	if err != nil {
		return fmt.Errorf("failed to update exam: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update exam: %w", err)
	}
	return nil
}

// DeleteExam removes an exam
func (r *ExamRepository) DeleteExam(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM user_exams WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	return nil
}
