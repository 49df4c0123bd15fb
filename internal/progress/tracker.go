// Package progress tracks which flashcards a learner has studied per topic.
package progress

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/internal/catalog"
	"github.com/example/vocabtrainer/pkg/models"
)

// Percent returns round(100 * |studied ∩ topicCards| / |topicCards|), 0 for an empty topic
func Percent(studied, topicCards []int64) int {
	if len(topicCards) == 0 {
		return 0
	}
	inTopic := make(map[int64]bool, len(topicCards))
	for _, id := range topicCards {
		inTopic[id] = true
	}

	seen := make(map[int64]bool, len(studied))
	n := 0
	for _, id := range studied {
		if inTopic[id] && !seen[id] {
			seen[id] = true
			n++
		}
	}

	total := len(inTopic)
	// half-up rounding in integers
	p := (200*n + total) / (2 * total)
	if p > 100 {
		p = 100
	}
	return p
}

// StatusFor maps a percentage to a progress status
func StatusFor(percent int) models.ProgressStatus {
	switch {
	case percent >= 100:
		return models.StatusCompleted
	case percent > 0:
		return models.StatusDoing
	default:
		return models.StatusStart
	}
}

// Study returns a copy of p with cardID added to the studied set and the
// percentage and status recomputed. p may be nil.
func Study(p *models.UserProgress, userID, topicID, cardID int64, topicCards []models.VocabularyItem) *models.UserProgress {
	next := p.Clone()
	if next == nil {
		next = &models.UserProgress{UserID: userID, Status: models.StatusStart, StudiedCardIDs: []int64{}}
	}
	if next.UserID == 0 {
		next.UserID = userID
	}
	if next.TopicID == 0 {
		next.TopicID = topicID
	}
	if next.VocabulaireID == 0 && len(topicCards) > 0 {
		next.VocabulaireID = topicCards[0].VocabulaireID
	}

	next.StudiedCardIDs = addCard(normalize(next.StudiedCardIDs), cardID)
	next.PercentComplete = Percent(next.StudiedCardIDs, catalog.IDs(topicCards))
	next.Status = StatusFor(next.PercentComplete)
	return next
}

// normalize sorts ids and drops duplicates in place
func normalize(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ids[:0]
	for i, id := range ids {
		if i == 0 || id != ids[i-1] {
			out = append(out, id)
		}
	}
	return out
}

func addCard(ids []int64, id int64) []int64 {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] >= id })
	if i < len(ids) && ids[i] == id {
		return ids
	}
	ids = append(ids, 0)
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// Tracker persists progress records through the backend
type Tracker struct {
	store backend.ProgressStore
}

// NewTracker creates a tracker over store
func NewTracker(store backend.ProgressStore) *Tracker {
	return &Tracker{store: store}
}

// RecordCardStudied adds cardID to the record and persists the full record,
// creating it when it has no ID yet. On a persistence failure the updated
// record is still returned together with the error.
func (t *Tracker) RecordCardStudied(ctx context.Context, p *models.UserProgress, userID, topicID, cardID int64, topicCards []models.VocabularyItem) (*models.UserProgress, error) {
	next := Study(p, userID, topicID, cardID, topicCards)
	if err := t.save(ctx, next); err != nil {
		return next, err
	}
	return next, nil
}

func (t *Tracker) save(ctx context.Context, p *models.UserProgress) error {
	if p.ID == 0 {
		if err := t.store.CreateUserProgress(ctx, p); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		return nil
	}
	if err := t.store.UpdateUserProgress(ctx, p); err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// Records loads every progress record of a user
func (t *Tracker) Records(ctx context.Context, userID int64) ([]*models.UserProgress, error) {
	records, err := t.store.ListUserProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return records, nil
}

// TopicProgress is the derived progress of one topic
type TopicProgress struct {
	Percent int
	Status  models.ProgressStatus
	// Record is the matched record, nil when none matched
	Record *models.UserProgress
}

// ComputeTopicProgress finds the record for a topic and derives its progress.
// A record carrying the topic's ID wins; otherwise the first record without a
// topic ID whose studied set intersects the topic's cards is used.
func ComputeTopicProgress(records []*models.UserProgress, topicID int64, topicCards []int64) TopicProgress {
	rec := FindRecord(records, topicID, topicCards)
	if rec == nil || len(topicCards) == 0 {
		return TopicProgress{Percent: 0, Status: models.StatusStart, Record: rec}
	}
	pct := Percent(rec.StudiedCardIDs, topicCards)
	return TopicProgress{Percent: pct, Status: StatusFor(pct), Record: rec}
}

// FindRecord returns the progress record belonging to a topic, or nil
func FindRecord(records []*models.UserProgress, topicID int64, topicCards []int64) *models.UserProgress {
	if topicID != 0 {
		for _, r := range records {
			if r != nil && r.TopicID == topicID {
				return r
			}
		}
	}

	inTopic := make(map[int64]bool, len(topicCards))
	for _, id := range topicCards {
		inTopic[id] = true
	}
	for _, r := range records {
		if r == nil || r.TopicID != 0 {
			continue
		}
		for _, id := range r.StudiedCardIDs {
			if inTopic[id] {
				return r
			}
		}
	}
	return nil
}
