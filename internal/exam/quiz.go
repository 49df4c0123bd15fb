package exam

import (
	"math/rand"

	"github.com/example/vocabtrainer/pkg/models"
)

// DefaultQuizSize is the number of questions in a quick quiz
const DefaultQuizSize = 10

// QuizQuestion is a multiple choice question of a quick quiz
type QuizQuestion struct {
	Question models.VocabularyItem
	Options  []string
	Correct  string
}

// Quiz is a quick multiple choice test over the whole catalog
type Quiz struct {
	Questions []QuizQuestion
}

// BuildQuiz takes the first limit questions. The wrong options come from the
// English titles of every question. rnd may be nil.
func BuildQuiz(rnd *rand.Rand, questions []models.VocabularyItem, limit int) *Quiz {
	if limit <= 0 {
		limit = DefaultQuizSize
	}

	var pool []string
	for _, q := range questions {
		if q.TitleEN != "" {
			pool = append(pool, q.TitleEN)
		}
	}

	if len(questions) > limit {
		questions = questions[:limit]
	}

	quiz := &Quiz{Questions: make([]QuizQuestion, 0, len(questions))}
	for _, q := range questions {
		correct := CorrectAnswer(q)
		quiz.Questions = append(quiz.Questions, QuizQuestion{
			Question: q,
			Options:  BuildDistractors(rnd, correct, pool, optionCount),
			Correct:  correct,
		})
	}
	return quiz
}
