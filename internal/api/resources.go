package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/internal/wire"
	"github.com/example/vocabtrainer/pkg/models"
)

var _ backend.Backend = (*Client)(nil)

const (
	pathTopics        = "/topics"
	pathVocabulaires  = "/vocabulaires"
	pathQuestions     = "/vocabulaire-questions"
	pathProgress      = "/user-vocabulaires"
	pathExams         = "/user-exams"
	pathUsers         = "/users"
	pathExamQuestions = "/exam-questions"
)

func itemPath(base string, id int64) string {
	return base + "/" + strconv.FormatInt(id, 10)
}

// Topics

// ListTopics retrieves all topics
func (c *Client) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var topics []models.Topic
	if err := c.do(ctx, http.MethodGet, pathTopics, nil, &topics); err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	return topics, nil
}

// GetTopic retrieves a topic by ID
func (c *Client) GetTopic(ctx context.Context, id int64) (*models.Topic, error) {
	var topic models.Topic
	if err := c.do(ctx, http.MethodGet, itemPath(pathTopics, id), nil, &topic); err != nil {
		return nil, fmt.Errorf("failed to get topic %d: %w", id, err)
	}
	return &topic, nil
}

// CreateTopic creates a topic and sets its ID
func (c *Client) CreateTopic(ctx context.Context, topic *models.Topic) error {
	if err := c.do(ctx, http.MethodPost, pathTopics, topic, topic); err != nil {
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

// UpdateTopic saves a topic
func (c *Client) UpdateTopic(ctx context.Context, topic *models.Topic) error {
	if err := c.do(ctx, http.MethodPut, itemPath(pathTopics, topic.ID), topic, topic); err != nil {
		return fmt.Errorf("failed to update topic %d: %w", topic.ID, err)
	}
	return nil
}

// DeleteTopic removes a topic
func (c *Client) DeleteTopic(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(pathTopics, id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete topic %d: %w", id, err)
	}
	return nil
}

// Vocabulaires

// ListVocabulaires retrieves all vocabulaires
func (c *Client) ListVocabulaires(ctx context.Context) ([]models.Vocabulaire, error) {
	var vocabs []models.Vocabulaire
	if err := c.do(ctx, http.MethodGet, pathVocabulaires, nil, &vocabs); err != nil {
		return nil, fmt.Errorf("failed to list vocabulaires: %w", err)
	}
	return vocabs, nil
}

// GetVocabulaire retrieves a vocabulaire by ID
func (c *Client) GetVocabulaire(ctx context.Context, id int64) (*models.Vocabulaire, error) {
	var v models.Vocabulaire
	if err := c.do(ctx, http.MethodGet, itemPath(pathVocabulaires, id), nil, &v); err != nil {
		return nil, fmt.Errorf("failed to get vocabulaire %d: %w", id, err)
	}
	return &v, nil
}

// CreateVocabulaire creates a vocabulaire and sets its ID
func (c *Client) CreateVocabulaire(ctx context.Context, v *models.Vocabulaire) error {
	if err := c.do(ctx, http.MethodPost, pathVocabulaires, v, v); err != nil {
		return fmt.Errorf("failed to create vocabulaire: %w", err)
	}
	return nil
}

// UpdateVocabulaire saves a vocabulaire
func (c *Client) UpdateVocabulaire(ctx context.Context, v *models.Vocabulaire) error {
	if err := c.do(ctx, http.MethodPut, itemPath(pathVocabulaires, v.ID), v, v); err != nil {
		return fmt.Errorf("failed to update vocabulaire %d: %w", v.ID, err)
	}
	return nil
}

// DeleteVocabulaire removes a vocabulaire
func (c *Client) DeleteVocabulaire(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(pathVocabulaires, id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete vocabulaire %d: %w", id, err)
	}
	return nil
}

// Vocabulary questions

// ListQuestions retrieves all vocabulary questions
func (c *Client) ListQuestions(ctx context.Context) ([]models.VocabularyItem, error) {
	var items []models.VocabularyItem
	if err := c.do(ctx, http.MethodGet, pathQuestions, nil, &items); err != nil {
		return nil, fmt.Errorf("failed to list vocabulary questions: %w", err)
	}
	return items, nil
}

// GetQuestion retrieves a vocabulary question by ID
func (c *Client) GetQuestion(ctx context.Context, id int64) (*models.VocabularyItem, error) {
	var item models.VocabularyItem
	if err := c.do(ctx, http.MethodGet, itemPath(pathQuestions, id), nil, &item); err != nil {
		return nil, fmt.Errorf("failed to get vocabulary question %d: %w", id, err)
	}
	return &item, nil
}

// CreateQuestion creates a vocabulary question and sets its ID
func (c *Client) CreateQuestion(ctx context.Context, q *models.VocabularyItem) error {
	if err := c.do(ctx, http.MethodPost, pathQuestions, q, q); err != nil {
		return fmt.Errorf("failed to create vocabulary question: %w", err)
	}
	return nil
}

// UpdateQuestion saves a vocabulary question
func (c *Client) UpdateQuestion(ctx context.Context, q *models.VocabularyItem) error {
	if err := c.do(ctx, http.MethodPut, itemPath(pathQuestions, q.ID), q, q); err != nil {
		return fmt.Errorf("failed to update vocabulary question %d: %w", q.ID, err)
	}
	return nil
}

// DeleteQuestion removes a vocabulary question
func (c *Client) DeleteQuestion(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(pathQuestions, id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete vocabulary question %d: %w", id, err)
	}
	return nil
}

// User progress (user-vocabulaires). The studied card set travels as a JSON string.

// ListUserProgress retrieves the progress records of a user
func (c *Client) ListUserProgress(ctx context.Context, userID int64) ([]*models.UserProgress, error) {
	var payloads []wire.ProgressPayload
	path := pathProgress + "?userId=" + url.QueryEscape(strconv.FormatInt(userID, 10))
	if err := c.do(ctx, http.MethodGet, path, nil, &payloads); err != nil {
		return nil, fmt.Errorf("failed to list progress for user %d: %w", userID, err)
	}
	records := make([]*models.UserProgress, 0, len(payloads))
	for _, p := range payloads {
		records = append(records, p.Progress())
	}
	return records, nil
}

// GetUserProgress retrieves a progress record by ID
func (c *Client) GetUserProgress(ctx context.Context, id int64) (*models.UserProgress, error) {
	var payload wire.ProgressPayload
	if err := c.do(ctx, http.MethodGet, itemPath(pathProgress, id), nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to get progress %d: %w", id, err)
	}
	return payload.Progress(), nil
}

// CreateUserProgress creates a progress record and sets its ID
func (c *Client) CreateUserProgress(ctx context.Context, p *models.UserProgress) error {
	var created wire.ProgressPayload
	if err := c.do(ctx, http.MethodPost, pathProgress, wire.FromProgress(p), &created); err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}
	p.ID = created.ID
	return nil
}

// UpdateUserProgress saves a progress record
func (c *Client) UpdateUserProgress(ctx context.Context, p *models.UserProgress) error {
	if err := c.do(ctx, http.MethodPut, itemPath(pathProgress, p.ID), wire.FromProgress(p), nil); err != nil {
		return fmt.Errorf("failed to update progress %d: %w", p.ID, err)
	}
	return nil
}

// DeleteUserProgress removes a progress record
func (c *Client) DeleteUserProgress(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(pathProgress, id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete progress %d: %w", id, err)
	}
	return nil
}

// User exams. The list travels as a JSON string.

// ListExams retrieves all user exams
func (c *Client) ListExams(ctx context.Context) ([]*models.Exam, error) {
	var payloads []wire.ExamPayload
	if err := c.do(ctx, http.MethodGet, pathExams, nil, &payloads); err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	exams := make([]*models.Exam, 0, len(payloads))
	for _, p := range payloads {
		exams = append(exams, p.Exam())
	}
	return exams, nil
}

// GetExam retrieves a user exam by ID
func (c *Client) GetExam(ctx context.Context, id int64) (*models.Exam, error) {
	var payload wire.ExamPayload
	if err := c.do(ctx, http.MethodGet, itemPath(pathExams, id), nil, &payload); err != nil {
		return nil, fmt.Errorf("failed to get exam %d: %w", id, err)
	}
	return payload.Exam(), nil
}

// CreateExam creates a user exam and sets its ID
func (c *Client) CreateExam(ctx context.Context, e *models.Exam) error {
	var created wire.ExamPayload
	if err := c.do(ctx, http.MethodPost, pathExams, wire.FromExam(e), &created); err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	e.ID = created.ID
	return nil
}

// UpdateExam saves a user exam
func (c *Client) UpdateExam(ctx context.Context, e *models.Exam) error {
	if err := c.do(ctx, http.MethodPut, itemPath(pathExams, e.ID), wire.FromExam(e), nil); err != nil {
		return fmt.Errorf("failed to update exam %d: %w", e.ID, err)
	}
	return nil
}

// DeleteExam removes a user exam
func (c *Client) DeleteExam(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(pathExams, id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete exam %d: %w", id, err)
	}
	return nil
}

// Users

// ListUsers retrieves all users
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, pathUsers, nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID
func (c *Client) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, itemPath(pathUsers, id), nil, &user); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// CreateUser creates a user and sets its ID
func (c *Client) CreateUser(ctx context.Context, u *models.User) error {
	creds := models.Credentials{Email: u.Email, Password: u.Password}
	if err := c.do(ctx, http.MethodPost, pathUsers, creds, u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser saves a user
func (c *Client) UpdateUser(ctx context.Context, u *models.User) error {
	if err := c.do(ctx, http.MethodPut, itemPath(pathUsers, u.ID), u, u); err != nil {
		return fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}
	return nil
}

// DeleteUser removes a user
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(pathUsers, id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

// Login authenticates against the backend
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, pathUsers+"/login", creds, &user); err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusNotFound) {
			return nil, backend.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	return &user, nil
}

// Register creates a learner account
func (c *Client) Register(ctx context.Context, creds models.Credentials) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, pathUsers+"/register", creds, &user); err != nil {
		return nil, fmt.Errorf("failed to register: %w", err)
	}
	return &user, nil
}

// Exam questions (admin)

// ListExamQuestions retrieves all exam questions
func (c *Client) ListExamQuestions(ctx context.Context) ([]models.ExamQuestion, error) {
	var qs []models.ExamQuestion
	if err := c.do(ctx, http.MethodGet, pathExamQuestions, nil, &qs); err != nil {
		return nil, fmt.Errorf("failed to list exam questions: %w", err)
	}
	return qs, nil
}

// GetExamQuestion retrieves an exam question by ID
func (c *Client) GetExamQuestion(ctx context.Context, id int64) (*models.ExamQuestion, error) {
	var q models.ExamQuestion
	if err := c.do(ctx, http.MethodGet, itemPath(pathExamQuestions, id), nil, &q); err != nil {
		return nil, fmt.Errorf("failed to get exam question %d: %w", id, err)
	}
	return &q, nil
}

// CreateExamQuestion creates an exam question and sets its ID
func (c *Client) CreateExamQuestion(ctx context.Context, q *models.ExamQuestion) error {
	if err := c.do(ctx, http.MethodPost, pathExamQuestions, q, q); err != nil {
		return fmt.Errorf("failed to create exam question: %w", err)
	}
	return nil
}

// UpdateExamQuestion saves an exam question
func (c *Client) UpdateExamQuestion(ctx context.Context, q *models.ExamQuestion) error {
	if err := c.do(ctx, http.MethodPut, itemPath(pathExamQuestions, q.ID), q, q); err != nil {
		return fmt.Errorf("failed to update exam question %d: %w", q.ID, err)
	}
	return nil
}

// DeleteExamQuestion removes an exam question
func (c *Client) DeleteExamQuestion(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, itemPath(pathExamQuestions, id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete exam question %d: %w", id, err)
	}
	return nil
}
