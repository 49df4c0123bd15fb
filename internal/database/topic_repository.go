package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// TopicRepository handles database operations for topics
type TopicRepository struct {
	db *sqlx.DB
}

// ListTopics returns all topics ordered by ID
func (r *TopicRepository) ListTopics(ctx context.Context) ([]models.Topic, error) {
	topics := []models.Topic{}
	err := r.db.SelectContext(ctx, &topics, "SELECT id, title, description FROM topics ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get topics: %w", err)
	}
	return topics, nil
}

// GetTopic returns a topic by ID
func (r *TopicRepository) GetTopic(ctx context.Context, id int64) (*models.Topic, error) {
	var topic models.Topic
	query := r.db.Rebind("SELECT id, title, description FROM topics WHERE id = ?")
	if err := r.db.GetContext(ctx, &topic, query, id); err != nil {
		return nil, fmt.Errorf("failed to get topic: %w", notFound(err))
	}
	return &topic, nil
}

// CreateTopic inserts a topic and sets its ID
func (r *TopicRepository) CreateTopic(ctx context.Context, topic *models.Topic) error {
	id, err := insertReturningID(ctx, r.db,
		"INSERT INTO topics (title, description) VALUES (?, ?) RETURNING id",
		topic.Title, topic.Description)
	if err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	topic.ID = id
	return nil
}

// UpdateTopic updates an existing topic
func (r *TopicRepository) UpdateTopic(ctx context.Context, topic *models.Topic) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE topics SET title = ?, description = ? WHERE id = ?"),
		topic.Title, topic.Description, topic.ID)
	if err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update topic: %w", err)
	}
	return nil
}

// DeleteTopic removes a topic together with its vocabulaires and questions
func (r *TopicRepository) DeleteTopic(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		DELETE FROM vocabulaire_questions
		WHERE vocabulaire_id IN (SELECT id FROM vocabulaires WHERE topic_id = ?)`), id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete questions: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind("DELETE FROM vocabulaires WHERE topic_id = ?"), id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete vocabulaires: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM topics WHERE id = ?"), id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete topic: %w", err)
	}
	if err := checkAffected(res); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete topic: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// VocabulaireRepository handles database operations for vocabulaires
type VocabulaireRepository struct {
	db *sqlx.DB
}

// ListVocabulaires returns all vocabulaires ordered by ID
func (r *VocabulaireRepository) ListVocabulaires(ctx context.Context) ([]models.Vocabulaire, error) {
	vocabs := []models.Vocabulaire{}
	if err := r.db.SelectContext(ctx, &vocabs, "SELECT id, topic_id FROM vocabulaires ORDER BY id"); err != nil {
		return nil, fmt.Errorf("failed to get vocabulaires: %w", err)
	}
	return vocabs, nil
}

// GetVocabulaire returns a vocabulaire by ID
func (r *VocabulaireRepository) GetVocabulaire(ctx context.Context, id int64) (*models.Vocabulaire, error) {
	var v models.Vocabulaire
	query := r.db.Rebind("SELECT id, topic_id FROM vocabulaires WHERE id = ?")
	if err := r.db.GetContext(ctx, &v, query, id); err != nil {
		return nil, fmt.Errorf("failed to get vocabulaire: %w", notFound(err))
	}
	return &v, nil
}

// CreateVocabulaire inserts a vocabulaire and sets its ID
func (r *VocabulaireRepository) CreateVocabulaire(ctx context.Context, v *models.Vocabulaire) error {
	id, err := insertReturningID(ctx, r.db, "INSERT INTO vocabulaires (topic_id) VALUES (?) RETURNING id", v.TopicID)
	if err != nil {
		return fmt.Errorf("failed to create vocabulaire: %w", err)
	}
	v.ID = id
	return nil
}

// UpdateVocabulaire moves a vocabulaire to another topic
func (r *VocabulaireRepository) UpdateVocabulaire(ctx context.Context, v *models.Vocabulaire) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE vocabulaires SET topic_id = ? WHERE id = ?"), v.TopicID, v.ID)
	if err != nil {
		return fmt.Errorf("failed to update vocabulaire: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update vocabulaire: %w", err)
	}
	return nil
}

// DeleteVocabulaire removes a vocabulaire and its questions
func (r *VocabulaireRepository) DeleteVocabulaire(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM vocabulaire_questions WHERE vocabulaire_id = ?"), id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete questions: %w", err)
	}

	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM vocabulaires WHERE id = ?"), id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete vocabulaire: %w", err)
	}
	if err := checkAffected(res); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete vocabulaire: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
