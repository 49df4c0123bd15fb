// Package exam creates, answers and grades vocabulary exams and quizzes.
package exam

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/example/vocabtrainer/pkg/models"
)

var (
	// ErrQuestionIndex is returned for an answer slot outside the exam
	ErrQuestionIndex = errors.New("question index out of range")
	// ErrSubmitted is returned when changing an attempt that was already submitted
	ErrSubmitted = errors.New("exam already submitted")
	// ErrEmptyTopic is returned when building an exam from a topic with no cards
	ErrEmptyTopic = errors.New("topic has no questions")
)

// CorrectAnswer is the English title, or the Vietnamese one when English is missing
func CorrectAnswer(q models.VocabularyItem) string {
	if q.TitleEN != "" {
		return q.TitleEN
	}
	return q.TitleVI
}

// BuildDistractors picks up to count wrong options from pool and mixes in
// the correct answer. Empty values, duplicates and the correct answer itself
// are never picked. rnd may be nil.
func BuildDistractors(rnd *rand.Rand, correct string, pool []string, count int) []string {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	seen := map[string]bool{correct: true}
	var eligible []string
	for _, v := range pool {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		eligible = append(eligible, v)
	}

	rnd.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
	if count < 0 {
		count = 0
	}
	if len(eligible) > count {
		eligible = eligible[:count]
	}

	options := append(eligible, correct)
	rnd.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })
	return options
}

// SubmitAnswer returns a copy of exam with slot idx answered. Correctness is
// exact string equality with correct.
func SubmitAnswer(exam *models.Exam, idx int, answer, correct string) (*models.Exam, error) {
	if exam == nil || idx < 0 || idx >= len(exam.List) {
		return nil, fmt.Errorf("%w: %d", ErrQuestionIndex, idx)
	}
	updated := exam.Clone()
	updated.List[idx].Answer = answer
	updated.List[idx].IsCorrect = answer == correct
	return updated, nil
}

// GradeExam counts correct entries. A nil exam or empty list grades {0, 0}.
func GradeExam(exam *models.Exam) models.Grade {
	if exam == nil {
		return models.Grade{}
	}
	g := models.Grade{Total: len(exam.List)}
	for _, entry := range exam.List {
		if entry.IsCorrect {
			g.Correct++
		}
	}
	return g
}

// ScoreRow is one line of the admin scoreboard
type ScoreRow struct {
	Exam  *models.Exam
	Grade models.Grade
}

// Label renders the score as "correct / total"
func (r ScoreRow) Label() string {
	return fmt.Sprintf("%d / %d", r.Grade.Correct, r.Grade.Total)
}

// Scoreboard grades every exam in order
func Scoreboard(exams []*models.Exam) []ScoreRow {
	rows := make([]ScoreRow, 0, len(exams))
	for _, e := range exams {
		rows = append(rows, ScoreRow{Exam: e, Grade: GradeExam(e)})
	}
	return rows
}
