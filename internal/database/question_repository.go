package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

const questionColumns = `id, title_vi, title_en, description_vi, description_en,
	audio_vi, audio_en, image, vocabulaire_id`

// QuestionRepository handles database operations for vocabulary questions
type QuestionRepository struct {
	db *sqlx.DB
}

// ListQuestions returns all questions ordered by ID
func (r *QuestionRepository) ListQuestions(ctx context.Context) ([]models.VocabularyItem, error) {
	items := []models.VocabularyItem{}
	query := "SELECT " + questionColumns + " FROM vocabulaire_questions ORDER BY id"
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	return items, nil
}

// GetQuestion returns a question by ID
func (r *QuestionRepository) GetQuestion(ctx context.Context, id int64) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	query := r.db.Rebind("SELECT " + questionColumns + " FROM vocabulaire_questions WHERE id = ?")
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, fmt.Errorf("failed to get question: %w", notFound(err))
	}
	return &item, nil
}

// CreateQuestion inserts a question and sets its ID
func (r *QuestionRepository) CreateQuestion(ctx context.Context, q *models.VocabularyItem) error {
	id, err := insertReturningID(ctx, r.db, `
		INSERT INTO vocabulaire_questions (
			title_vi, title_en, description_vi, description_en,
			audio_vi, audio_en, image, vocabulaire_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		q.TitleVI, q.TitleEN, q.DescriptionVI, q.DescriptionEN,
		q.AudioVI, q.AudioEN, q.Image, q.VocabulaireID,
	)
	if err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	q.ID = id
	return nil
}

// UpdateQuestion updates an existing question
func (r *QuestionRepository) UpdateQuestion(ctx context.Context, q *models.VocabularyItem) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE vocabulaire_questions SET
			title_vi = ?, title_en = ?, description_vi = ?, description_en = ?,
			audio_vi = ?, audio_en = ?, image = ?, vocabulaire_id = ?
		WHERE id = ?`),
		q.TitleVI, q.TitleEN, q.DescriptionVI, q.DescriptionEN,
		q.AudioVI, q.AudioEN, q.Image, q.VocabulaireID, q.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return nil
}

// DeleteQuestion removes a question
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM vocabulaire_questions WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

// ExamQuestionRepository handles database operations for admin exam questions
type ExamQuestionRepository struct {
	db *sqlx.DB
}

// ListExamQuestions returns all exam questions ordered by ID
func (r *ExamQuestionRepository) ListExamQuestions(ctx context.Context) ([]models.ExamQuestion, error) {
	qs := []models.ExamQuestion{}
	query := "SELECT id, vocabulaire_question_id, answer, is_correct FROM exam_questions ORDER BY id"
	if err := r.db.SelectContext(ctx, &qs, query); err != nil {
		return nil, fmt.Errorf("failed to get exam questions: %w", err)
	}
	return qs, nil
}

// GetExamQuestion returns an exam question by ID
func (r *ExamQuestionRepository) GetExamQuestion(ctx context.Context, id int64) (*models.ExamQuestion, error) {
	var q models.ExamQuestion
	query := r.db.Rebind("SELECT id, vocabulaire_question_id, answer, is_correct FROM exam_questions WHERE id = ?")
	if err := r.db.GetContext(ctx, &q, query, id); err != nil {
		return nil, fmt.Errorf("failed to get exam question: %w", notFound(err))
	}
	return &q, nil
}

// CreateExamQuestion inserts an exam question and sets its ID
func (r *ExamQuestionRepository) CreateExamQuestion(ctx context.Context, q *models.ExamQuestion) error {
	id, err := insertReturningID(ctx, r.db,
		"INSERT INTO exam_questions (vocabulaire_question_id, answer, is_correct) VALUES (?, ?, ?) RETURNING id",
		q.VocabulaireQuestionID, q.Answer, q.IsCorrect)
	if err != nil {
		return fmt.Errorf("failed to create exam question: %w", err)
	}
	q.ID = id
	return nil
}

// UpdateExamQuestion updates an existing exam question
func (r *ExamQuestionRepository) UpdateExamQuestion(ctx context.Context, q *models.ExamQuestion) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE exam_questions SET vocabulaire_question_id = ?, answer = ?, is_correct = ? WHERE id = ?"),
		q.VocabulaireQuestionID, q.Answer, q.IsCorrect, q.ID)
	if err != nil {
		return fmt.Errorf("failed to update exam question: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to update exam question: %w", err)
	}
	return nil
}

// DeleteExamQuestion removes an exam question
func (r *ExamQuestionRepository) DeleteExamQuestion(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM exam_questions WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete exam question: %w", err)
	}
	if err := checkAffected(res); err != nil {
		return fmt.Errorf("failed to delete exam question: %w", err)
	}
	return nil
}
