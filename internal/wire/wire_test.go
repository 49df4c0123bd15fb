package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/vocabtrainer/pkg/models"
)

func TestDecodeCardIDs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []int64
	}{
		{"empty string", "", []int64{}},
		{"empty array", "[]", []int64{}},
		{"values", "[3,1,2]", []int64{3, 1, 2}},
		{"malformed", "[1,2", []int64{}},
		{"wrong type", `{"a":1}`, []int64{}},
		{"null", "null", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeCardIDs(tt.in))
		})
	}
}

func TestDecodeExamList_Malformed(t *testing.T) {
	assert.Empty(t, DecodeExamList("not json"))
	assert.Empty(t, DecodeExamList(""))
	assert.NotNil(t, DecodeExamList("garbage"))
}

func TestEncodeEmpty(t *testing.T) {
	assert.Equal(t, "[]", EncodeCardIDs(nil))
	assert.Equal(t, "[]", EncodeExamList(nil))
}

func TestExamPayload(t *testing.T) {
	exam := &models.Exam{
		ID:     7,
		UserID: 3,
		List: []models.ExamEntry{
			{QuestionID: 1, Answer: "cat", IsCorrect: true},
			{QuestionID: 2},
		},
		Name: "Animals",
	}

	payload := FromExam(exam)
	assert.Equal(t, `[{"questionId":1,"answer":"cat","isCorrect":true},{"questionId":2,"answer":"","isCorrect":false}]`, payload.List)
	assert.Equal(t, exam, payload.Exam())
}

func TestProgressPayload_DefaultsStatus(t *testing.T) {
	p := ProgressPayload{UserID: 1, VocabulaireQuestionListID: "oops"}.Progress()
	assert.Equal(t, models.StatusStart, p.Status)
	assert.Empty(t, p.StudiedCardIDs)
}
