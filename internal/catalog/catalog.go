// Package catalog resolves which vocabulary items belong to a topic.
package catalog

import (
	"context"
	"fmt"

	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/pkg/models"
)

// TopicCards returns the questions whose vocabulaire belongs to topicID, in question order
func TopicCards(vocabs []models.Vocabulaire, questions []models.VocabularyItem, topicID int64) []models.VocabularyItem {
	owned := make(map[int64]bool)
	for _, v := range vocabs {
		if v.TopicID == topicID {
			owned[v.ID] = true
		}
	}

	cards := []models.VocabularyItem{}
	for _, q := range questions {
		if owned[q.VocabulaireID] {
			cards = append(cards, q)
		}
	}
	return cards
}

// IDs returns the IDs of items in order
func IDs(items []models.VocabularyItem) []int64 {
	ids := make([]int64, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	return ids
}

// Snapshot is the catalog fetched in one pass
type Snapshot struct {
	Topics       []models.Topic
	Vocabulaires []models.Vocabulaire
	Questions    []models.VocabularyItem
}

// Load fetches topics, vocabulaires and questions
func Load(ctx context.Context, c backend.Catalog) (*Snapshot, error) {
	topics, err := c.ListTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load topics: %w", err)
	}
	vocabs, err := c.ListVocabulaires(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulaires: %w", err)
	}
	questions, err := c.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return &Snapshot{Topics: topics, Vocabulaires: vocabs, Questions: questions}, nil
}

// Cards returns the cards of a topic
func (s *Snapshot) Cards(topicID int64) []models.VocabularyItem {
	return TopicCards(s.Vocabulaires, s.Questions, topicID)
}

// Topic finds a topic by ID
func (s *Snapshot) Topic(id int64) (models.Topic, bool) {
	for _, t := range s.Topics {
		if t.ID == id {
			return t, true
		}
	}
	return models.Topic{}, false
}

// Question finds a question by ID
func (s *Snapshot) Question(id int64) (models.VocabularyItem, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return models.VocabularyItem{}, false
}
