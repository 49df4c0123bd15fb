package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/internal/wire"
	"github.com/example/vocabtrainer/pkg/models"
)

const progressColumns = `id, user_id, vocabulaire_id, topic_id, status,
	percent_complete, vocabulaire_question_list_id`

// UserProgressRepository handles database operations for user progress.
// The studied card set is stored as a JSON string, the same way the REST backend keeps it.
type UserProgressRepository struct {
	db *sqlx.DB
}

// ListUserProgress returns all progress records of a user
func (r *UserProgressRepository) ListUserProgress(ctx context.Context, userID int64) ([]*models.UserProgress, error) {
	var rows []wire.ProgressPayload
	query := r.db.Rebind("SELECT " + progressColumns + " FROM user_vocabulaires WHERE user_id = ? ORDER BY id")
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user progress: %w", err)
	}

	records := make([]*models.UserProgress, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.Progress())
	}
	return records, nil
}

// GetUserProgress returns a progress record by ID
func (r *UserProgressRepository) GetUserProgress(ctx context.Context, id int64) (*models.UserProgress, error) {
	var row wire.ProgressPayload
	query := r.db.Rebind("SELECT " + progressColumns + " FROM user_vocabulaires WHERE id = ?")
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user progress: %w", notFound(err))
	}
	return row.Progress(), nil
}

// CreateUserProgress inserts a new progress record
func (r *UserProgressRepository) CreateUserProgress(ctx context.Context, p *models.UserProgress) error {
	row := wire.FromProgress(p)
	if row.Status == "" {
		row.Status = models.StatusStart
	}
	id, err := insertReturningID(ctx, r.db, `
		INSERT INTO user_vocabulaires (
			user_id, vocabulaire_id, topic_id, status, percent_complete, vocabulaire_question_list_id
		) VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`,
		row.UserID, row.VocabulaireID, row.TopicID, row.Status, row.PercentComplete, row.VocabulaireQuestionListID,
	)
	if err != nil {
		return fmt.Errorf("failed to create user progress: %w", err)
	}
	p.ID = id
	return nil
}

// UpdateUserProgress modifies an existing progress record
func (r *UserProgressRepository) UpdateUserProgress(ctx context.Context, p *models.UserProgress) error {
	row := wire.FromProgress(p)
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE user_vocabulaires SET
			user_id = ?, vocabulaire_id = ?, topic_id = ?, status = ?,
			percent_complete = ?, vocabulaire_question_list_id = ?
		WHERE id = ?`),
		row.UserID, row.VocabulaireID, row.TopicID, row.Status,
		row.PercentComplete, row.VocabulaireQuestionListID, row.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user progress: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update user progress: %w", err)
	}
	return nil
}

// DeleteUserProgress removes a progress record
func (r *UserProgressRepository) DeleteUserProgress(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM user_vocabulaires WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete user progress: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to delete user progress: %w", err)
	}
	return nil
}
