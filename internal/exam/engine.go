package exam

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/pkg/models"
)

// Details are the optional labels of an exam
type Details struct {
	Name    string
	TopicID int64
}

// Engine creates and persists exams
type Engine struct {
	exams   backend.ExamStore
	catalog backend.Catalog

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewEngine creates an engine. rnd seeds option shuffling and may be nil.
func NewEngine(exams backend.ExamStore, catalog backend.Catalog, rnd *rand.Rand) *Engine {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{exams: exams, catalog: catalog, rnd: rnd}
}

// newRand derives an independent source so attempts never share one
func (e *Engine) newRand() *rand.Rand {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rand.New(rand.NewSource(e.rnd.Int63()))
}

// CreateExamInstance persists a new exam with one empty slot per question, in the given order
func (e *Engine) CreateExamInstance(ctx context.Context, userID int64, questions []models.VocabularyItem, d Details) (*models.Exam, error) {
	ids := make([]int64, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return e.create(ctx, userID, ids, d)
}

func (e *Engine) create(ctx context.Context, userID int64, questionIDs []int64, d Details) (*models.Exam, error) {
	exam := &models.Exam{
		UserID:  userID,
		List:    make([]models.ExamEntry, len(questionIDs)),
		Name:    d.Name,
		TopicID: d.TopicID,
	}
	for i, id := range questionIDs {
		exam.List[i] = models.ExamEntry{QuestionID: id}
	}

	if err := e.exams.CreateExam(ctx, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}
	return exam, nil
}

// CreateTopicExam creates an exam over every card of a topic
func (e *Engine) CreateTopicExam(ctx context.Context, userID int64, topic models.Topic, cards []models.VocabularyItem) (*models.Exam, error) {
	if len(cards) == 0 {
		return nil, ErrEmptyTopic
	}
	return e.CreateExamInstance(ctx, userID, cards, Details{
		Name:    "Topic exam: " + topic.Title,
		TopicID: topic.ID,
	})
}

// CreateAdminExam creates an exam that belongs to no learner
func (e *Engine) CreateAdminExam(ctx context.Context, name string, topicID int64, questionIDs []int64) (*models.Exam, error) {
	if len(questionIDs) == 0 {
		return nil, ErrEmptyTopic
	}
	return e.create(ctx, 0, questionIDs, Details{Name: name, TopicID: topicID})
}

// StartAttempt loads an exam and resolves its questions in slot order.
// Questions that no longer exist stay as empty slots that never grade correct.
func (e *Engine) StartAttempt(ctx context.Context, examID int64) (*Attempt, error) {
	exam, err := e.exams.GetExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	all, err := e.catalog.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return e.attempt(exam, all), nil
}

func (e *Engine) attempt(exam *models.Exam, all []models.VocabularyItem) *Attempt {
	byID := make(map[int64]models.VocabularyItem, len(all))
	for _, q := range all {
		byID[q.ID] = q
	}

	questions := make([]*models.VocabularyItem, len(exam.List))
	for i, entry := range exam.List {
		if q, ok := byID[entry.QuestionID]; ok {
			q := q
			questions[i] = &q
		}
	}
	return newAttempt(exam, questions, e.newRand())
}

// FinalizeExam grades the attempt from its local answers and stores the whole
// list in one update. The attempt is submitted even when the update fails.
func (e *Engine) FinalizeExam(ctx context.Context, a *Attempt) (models.Grade, error) {
	if a.state == Submitted {
		return GradeExam(a.exam), ErrSubmitted
	}

	graded := a.exam.Clone()
	for i := range graded.List {
		answer := a.answers[i]
		graded.List[i].Answer = answer
		graded.List[i].IsCorrect = a.questions[i] != nil && answer == CorrectAnswer(*a.questions[i])
	}

	a.exam = graded
	a.state = Submitted
	grade := GradeExam(graded)

	if err := e.exams.UpdateExam(ctx, graded); err != nil {
		return grade, fmt.Errorf("failed to submit exam: %w", err)
	}
	return grade, nil
}

// Retry starts a fresh exam over the same questions; the old one is left untouched
func (e *Engine) Retry(ctx context.Context, a *Attempt) (*Attempt, error) {
	exam, err := e.create(ctx, a.exam.UserID, a.exam.QuestionIDs(), Details{Name: a.exam.Name, TopicID: a.exam.TopicID})
	if err != nil {
		return nil, err
	}
	return newAttempt(exam, a.questions, e.newRand()), nil
}

// SubmitQuiz stores a quiz as one already graded exam
func (e *Engine) SubmitQuiz(ctx context.Context, userID int64, quiz *Quiz, answers map[int64]string) (*models.Exam, models.Grade, error) {
	exam := &models.Exam{UserID: userID, List: make([]models.ExamEntry, len(quiz.Questions))}
	for i, q := range quiz.Questions {
		answer := answers[q.Question.ID]
		exam.List[i] = models.ExamEntry{
			QuestionID: q.Question.ID,
			Answer:     answer,
			IsCorrect:  answer == q.Correct,
		}
	}

	grade := GradeExam(exam)
	if err := e.exams.CreateExam(ctx, exam); err != nil {
		return nil, grade, fmt.Errorf("failed to submit quiz: %w", err)
	}
	return exam, grade, nil
}

// NewQuiz builds a quiz from the catalog's questions
func (e *Engine) NewQuiz(ctx context.Context, limit int) (*Quiz, error) {
	all, err := e.catalog.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return BuildQuiz(e.newRand(), all, limit), nil
}

// Scoreboard loads and grades every exam
func (e *Engine) Scoreboard(ctx context.Context) ([]ScoreRow, error) {
	exams, err := e.exams.ListExams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load exams: %w", err)
	}
	return Scoreboard(exams), nil
}

// Grade loads one exam and grades it
func (e *Engine) Grade(ctx context.Context, examID int64) (models.Grade, error) {
	exam, err := e.exams.GetExam(ctx, examID)
	if err != nil {
		return models.Grade{}, fmt.Errorf("failed to load exam: %w", err)
	}
	return GradeExam(exam), nil
}
