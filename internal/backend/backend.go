// Package backend describes the CRUD collaborator behind the learning front-end.
// It is implemented by the REST client (internal/api) and the SQL store (internal/database).
package backend

import (
	"context"
	"errors"

	"github.com/example/vocabtrainer/pkg/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// ErrInvalidCredentials is returned by Login on an unknown email/password pair
var ErrInvalidCredentials = errors.New("invalid credentials")

// Catalog gives access to topics, vocabulaires and their questions
type Catalog interface {
	ListTopics(ctx context.Context) ([]models.Topic, error)
	GetTopic(ctx context.Context, id int64) (*models.Topic, error)
	CreateTopic(ctx context.Context, topic *models.Topic) error
	UpdateTopic(ctx context.Context, topic *models.Topic) error
	DeleteTopic(ctx context.Context, id int64) error

	ListVocabulaires(ctx context.Context) ([]models.Vocabulaire, error)
	GetVocabulaire(ctx context.Context, id int64) (*models.Vocabulaire, error)
	CreateVocabulaire(ctx context.Context, v *models.Vocabulaire) error
	UpdateVocabulaire(ctx context.Context, v *models.Vocabulaire) error
	DeleteVocabulaire(ctx context.Context, id int64) error

	ListQuestions(ctx context.Context) ([]models.VocabularyItem, error)
	GetQuestion(ctx context.Context, id int64) (*models.VocabularyItem, error)
	CreateQuestion(ctx context.Context, q *models.VocabularyItem) error
	UpdateQuestion(ctx context.Context, q *models.VocabularyItem) error
	DeleteQuestion(ctx context.Context, id int64) error
}

// ProgressStore persists user progress records
type ProgressStore interface {
	ListUserProgress(ctx context.Context, userID int64) ([]*models.UserProgress, error)
	GetUserProgress(ctx context.Context, id int64) (*models.UserProgress, error)
	CreateUserProgress(ctx context.Context, p *models.UserProgress) error
	UpdateUserProgress(ctx context.Context, p *models.UserProgress) error
	DeleteUserProgress(ctx context.Context, id int64) error
}

// ExamStore persists exam attempts
type ExamStore interface {
	ListExams(ctx context.Context) ([]*models.Exam, error)
	GetExam(ctx context.Context, id int64) (*models.Exam, error)
	CreateExam(ctx context.Context, e *models.Exam) error
	UpdateExam(ctx context.Context, e *models.Exam) error
	DeleteExam(ctx context.Context, id int64) error
}

// UserStore manages backend accounts
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	Login(ctx context.Context, c models.Credentials) (*models.User, error)
	Register(ctx context.Context, c models.Credentials) (*models.User, error)
}

// ExamQuestionStore manages the admin exam-question resource
type ExamQuestionStore interface {
	ListExamQuestions(ctx context.Context) ([]models.ExamQuestion, error)
	GetExamQuestion(ctx context.Context, id int64) (*models.ExamQuestion, error)
	CreateExamQuestion(ctx context.Context, q *models.ExamQuestion) error
	UpdateExamQuestion(ctx context.Context, q *models.ExamQuestion) error
	DeleteExamQuestion(ctx context.Context, id int64) error
}

// Backend is the full collaborator
type Backend interface {
	Catalog
	ProgressStore
	ExamStore
	UserStore
	ExamQuestionStore
	Close() error
}
