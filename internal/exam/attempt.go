package exam

import (
	"fmt"
	"math/rand"

	"github.com/example/vocabtrainer/pkg/models"
)

// optionCount is the number of wrong options offered per question
const optionCount = 3

// State of an exam attempt
type State int

const (
	NotStarted State = iota
	InProgress
	Submitted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Submitted:
		return "submitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Attempt holds a learner's answers locally until the exam is finalized
type Attempt struct {
	exam      *models.Exam
	questions []*models.VocabularyItem
	answers   []string
	options   [][]string
	state     State
	rnd       *rand.Rand
}

func newAttempt(exam *models.Exam, questions []*models.VocabularyItem, rnd *rand.Rand) *Attempt {
	return &Attempt{
		exam:      exam,
		questions: questions,
		answers:   make([]string, len(exam.List)),
		options:   make([][]string, len(exam.List)),
		rnd:       rnd,
	}
}

// Exam returns a copy of the underlying exam record
func (a *Attempt) Exam() *models.Exam {
	return a.exam.Clone()
}

// State returns the attempt state
func (a *Attempt) State() State {
	return a.state
}

// Len is the number of question slots
func (a *Attempt) Len() int {
	return len(a.answers)
}

// Question returns the question in slot idx, nil when it no longer exists
func (a *Attempt) Question(idx int) (*models.VocabularyItem, error) {
	if idx < 0 || idx >= len(a.questions) {
		return nil, fmt.Errorf("%w: %d", ErrQuestionIndex, idx)
	}
	return a.questions[idx], nil
}

// Options returns the choices for slot idx. They are built once and kept stable.
func (a *Attempt) Options(idx int) ([]string, error) {
	q, err := a.Question(idx)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, nil
	}
	if a.options[idx] != nil {
		return a.options[idx], nil
	}

	var pool []string
	for i, other := range a.questions {
		if i != idx && other != nil {
			pool = append(pool, CorrectAnswer(*other))
		}
	}
	a.options[idx] = BuildDistractors(a.rnd, CorrectAnswer(*q), pool, optionCount)
	return a.options[idx], nil
}

// Select records an answer locally
func (a *Attempt) Select(idx int, answer string) error {
	if a.state == Submitted {
		return ErrSubmitted
	}
	if idx < 0 || idx >= len(a.answers) {
		return fmt.Errorf("%w: %d", ErrQuestionIndex, idx)
	}
	a.answers[idx] = answer
	a.state = InProgress
	return nil
}

// Answer returns the locally held answer of slot idx
func (a *Attempt) Answer(idx int) string {
	if idx < 0 || idx >= len(a.answers) {
		return ""
	}
	return a.answers[idx]
}

// IsCorrect reports whether the current answer of slot idx is right
func (a *Attempt) IsCorrect(idx int) bool {
	if idx < 0 || idx >= len(a.answers) || a.questions[idx] == nil {
		return false
	}
	return a.answers[idx] == CorrectAnswer(*a.questions[idx])
}

// Complete reports whether every slot has an answer
func (a *Attempt) Complete() bool {
	for _, ans := range a.answers {
		if ans == "" {
			return false
		}
	}
	return true
}

// Grade returns the stored grade once submitted, or the live grade of the local answers
func (a *Attempt) Grade() models.Grade {
	if a.state == Submitted {
		return GradeExam(a.exam)
	}
	g := models.Grade{Total: len(a.answers)}
	for i := range a.answers {
		if a.IsCorrect(i) {
			g.Correct++
		}
	}
	return g
}
