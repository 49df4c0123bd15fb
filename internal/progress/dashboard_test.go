package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/internal/catalog"
	"github.com/example/vocabtrainer/pkg/models"
)

func TestDashboard(t *testing.T) {
	snap := &catalog.Snapshot{
		Topics: []models.Topic{
			{ID: 1, Title: "Animals"},
			{ID: 2, Title: "Food"},
			{ID: 3, Title: "Empty"},
		},
		Vocabulaires: []models.Vocabulaire{{ID: 10, TopicID: 1}, {ID: 20, TopicID: 2}},
		Questions: []models.VocabularyItem{
			{ID: 1, VocabulaireID: 10},
			{ID: 2, VocabulaireID: 10},
			{ID: 3, VocabulaireID: 20},
			{ID: 4, VocabulaireID: 20},
			{ID: 5, VocabulaireID: 20},
			{ID: 6, VocabulaireID: 20},
		},
	}
	records := []*models.UserProgress{
		{ID: 1, UserID: 1, TopicID: 1, StudiedCardIDs: []int64{1, 2}},
		{ID: 2, UserID: 1, StudiedCardIDs: []int64{3, 2}},
	}
	exams := []*models.Exam{
		{ID: 1, UserID: 1, List: []models.ExamEntry{{QuestionID: 1, Answer: "cat"}}},
		{ID: 2, UserID: 2},
		{ID: 3, UserID: 1, List: []models.ExamEntry{{QuestionID: 1, Answer: "cat"}}},
	}

	sum := Dashboard(snap, 1, records, exams)

	require.Len(t, sum.Topics, 3)
	assert.Equal(t, 100, sum.Topics[0].Progress.Percent)
	assert.Equal(t, 25, sum.Topics[1].Progress.Percent)
	assert.Equal(t, models.StatusStart, sum.Topics[2].Progress.Status)

	require.Len(t, sum.Recent, 2)
	assert.Equal(t, int64(1), sum.Recent[0].Topic.ID)
	assert.Equal(t, 1, sum.CompletedTopics)
	assert.Equal(t, 3, sum.LearnedCards)
	assert.Equal(t, 3, sum.TotalTopics)
	assert.Equal(t, 2, sum.TotalVocabulaires)
	assert.Equal(t, 2, sum.TotalExams)

	require.NotNil(t, sum.Continue)
	assert.Equal(t, int64(2), sum.Continue.Topic.ID)
	require.NotNil(t, sum.ResumeExam)
	assert.Equal(t, int64(3), sum.ResumeExam.ID)
}

func TestDashboardRecentIsCapped(t *testing.T) {
	snap := &catalog.Snapshot{}
	var records []*models.UserProgress
	for i := int64(1); i <= 6; i++ {
		snap.Topics = append(snap.Topics, models.Topic{ID: i})
		snap.Vocabulaires = append(snap.Vocabulaires, models.Vocabulaire{ID: i, TopicID: i})
		snap.Questions = append(snap.Questions, models.VocabularyItem{ID: i, VocabulaireID: i})
		records = append(records, &models.UserProgress{ID: i, TopicID: i, StudiedCardIDs: []int64{i}})
	}

	sum := Dashboard(snap, 1, records, nil)
	assert.Len(t, sum.Recent, maxRecent)
	assert.Nil(t, sum.Continue)
	assert.Nil(t, sum.ResumeExam)
}

func TestDashboardSkipsNilEntries(t *testing.T) {
	snap := &catalog.Snapshot{
		Topics:       []models.Topic{{ID: 1, Title: "Animals"}},
		Vocabulaires: []models.Vocabulaire{{ID: 10, TopicID: 1}},
		Questions:    []models.VocabularyItem{{ID: 1, VocabulaireID: 10}, {ID: 2, VocabulaireID: 10}},
	}
	records := []*models.UserProgress{nil, {ID: 1, UserID: 1, TopicID: 1, StudiedCardIDs: []int64{2}}}
	exams := []*models.Exam{nil, {ID: 4, UserID: 1}}

	sum := Dashboard(snap, 1, records, exams)

	assert.Equal(t, 50, sum.Topics[0].Progress.Percent)
	assert.Equal(t, 1, sum.LearnedCards)
	assert.Equal(t, 1, sum.TotalExams)
}
