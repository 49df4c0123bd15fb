package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/vocabtrainer/internal/exam"
	"github.com/example/vocabtrainer/internal/excel"
	"github.com/example/vocabtrainer/pkg/models"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", progressBar(0))
	assert.Equal(t, "▓▓▓░░░░░░░", progressBar(33))
	assert.Equal(t, "▓▓▓▓▓▓▓▓▓▓", progressBar(100))
	assert.Equal(t, "▓▓▓▓▓▓▓▓▓▓", progressBar(140))
	assert.Equal(t, "░░░░░░░░░░", progressBar(-5))
}

func TestFeedback(t *testing.T) {
	assert.Equal(t, correctPhrases[0], feedback(nil, true, "cat"))
	assert.Equal(t, wrongPhrases[0]+" The answer is: cat", feedback(nil, false, "cat"))
}

func TestFormatScoreboard(t *testing.T) {
	assert.Equal(t, "No exams yet.", formatScoreboard(nil))

	rows := exam.Scoreboard([]*models.Exam{
		{ID: 1, UserID: 5, Name: "Animals", List: []models.ExamEntry{{QuestionID: 1, IsCorrect: true}, {QuestionID: 2}}},
		{ID: 2, UserID: 6},
	})
	out := formatScoreboard(rows)
	assert.Contains(t, out, "#1 user 5  Animals  1 / 2")
	assert.Contains(t, out, "#2 user 6  Quiz  0 / 0")
}

func TestFormatGradeEmptyExam(t *testing.T) {
	assert.Equal(t, "🏁 Exam submitted: 0 / 0 correct (0%)", formatGrade(models.Grade{}))
}

func TestFormatImportResultTruncatesErrors(t *testing.T) {
	r := &excel.ImportResult{TotalProcessed: 8, Skipped: 7, Errors: []string{"a", "b", "c", "d", "e", "f", "g"}}
	out := formatImportResult(r)
	assert.Contains(t, out, "Rows: 8")
	assert.Contains(t, out, "...and 2 more")
	assert.NotContains(t, out, "\nf")
}
