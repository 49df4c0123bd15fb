package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/vocabtrainer/pkg/models"
)

func TestTopicCards(t *testing.T) {
	vocabs := []models.Vocabulaire{{ID: 10, TopicID: 1}, {ID: 11, TopicID: 2}, {ID: 12, TopicID: 1}}
	questions := []models.VocabularyItem{
		{ID: 1, VocabulaireID: 10},
		{ID: 2, VocabulaireID: 11},
		{ID: 3, VocabulaireID: 12},
		{ID: 4, VocabulaireID: 99},
	}

	tests := []struct {
		name    string
		topicID int64
		want    []int64
	}{
		{"two vocabulaires", 1, []int64{1, 3}},
		{"single vocabulaire", 2, []int64{2}},
		{"unknown topic", 3, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IDs(TopicCards(vocabs, questions, tt.topicID)))
		})
	}
}

func TestSnapshotLookups(t *testing.T) {
	s := &Snapshot{
		Topics:       []models.Topic{{ID: 1, Title: "Animals"}},
		Vocabulaires: []models.Vocabulaire{{ID: 10, TopicID: 1}},
		Questions:    []models.VocabularyItem{{ID: 5, TitleEN: "cat", VocabulaireID: 10}},
	}

	topic, ok := s.Topic(1)
	assert.True(t, ok)
	assert.Equal(t, "Animals", topic.Title)

	_, ok = s.Topic(2)
	assert.False(t, ok)

	q, ok := s.Question(5)
	assert.True(t, ok)
	assert.Equal(t, "cat", q.TitleEN)

	assert.Len(t, s.Cards(1), 1)
}
