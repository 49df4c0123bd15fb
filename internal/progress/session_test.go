package progress

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/pkg/models"
)

func TestSessionFlipRecordsOnce(t *testing.T) {
	store := newMemStore()
	s, err := NewSession(NewTracker(store), 1, 1, cards(1, 1, 2, 3), nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Flip(ctx))
	assert.True(t, s.Flipped())
	require.NoError(t, s.Flip(ctx))
	assert.False(t, s.Flipped())
	require.NoError(t, s.Flip(ctx))

	assert.Equal(t, 1, store.creates)
	assert.Equal(t, 0, store.updates)
	assert.Equal(t, 1, s.StudiedCount())
	assert.Equal(t, 33, s.Percent())
}

func TestSessionNavigationWraps(t *testing.T) {
	s, err := NewSession(NewTracker(newMemStore()), 1, 1, cards(1, 1, 2, 3), nil, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, "1 / 3", s.Counter())
	s.Prev()
	assert.Equal(t, "3 / 3", s.Counter())
	s.Next()
	assert.Equal(t, "1 / 3", s.Counter())

	require.NoError(t, s.Flip(ctx))
	s.Next()
	assert.False(t, s.Flipped())
	assert.Equal(t, "2 / 3", s.Counter())
}

func TestSessionStudiesWholeTopic(t *testing.T) {
	store := newMemStore()
	s, err := NewSession(NewTracker(store), 4, 2, cards(1, 1, 2, 3, 4, 5), nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < s.Total(); i++ {
		require.NoError(t, s.Flip(ctx))
		s.Next()
	}

	assert.True(t, s.Complete())
	p := s.Progress()
	require.NotNil(t, p)
	assert.Equal(t, 100, p.PercentComplete)
	assert.Equal(t, models.StatusCompleted, p.Status)
	assert.Equal(t, int64(2), p.TopicID)

	stored, err := store.GetUserProgress(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, stored.StudiedCardIDs)
}

func TestSessionResumesAndLocksCompletedTopic(t *testing.T) {
	store := newMemStore()
	done := &models.UserProgress{ID: 8, UserID: 1, Status: models.StatusCompleted, PercentComplete: 100, StudiedCardIDs: []int64{1, 2}}
	s, err := NewSession(NewTracker(store), 1, 1, cards(1, 1, 2), done, nil)
	require.NoError(t, err)
	ctx := context.Background()

	assert.True(t, s.Locked())
	require.NoError(t, s.Flip(ctx))
	require.NoError(t, s.Finish(ctx))
	assert.Zero(t, store.creates+store.updates)
}

func TestSessionFinishSavesIncompleteProgress(t *testing.T) {
	store := newMemStore()
	s, err := NewSession(NewTracker(store), 1, 1, cards(1, 1, 2, 3), nil, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Flip(ctx))
	require.NoError(t, s.Finish(ctx))
	assert.Equal(t, 1, store.creates)
	assert.Equal(t, 1, store.updates)
}

func TestSessionKeepsStateWhenSaveFails(t *testing.T) {
	store := newMemStore()
	store.fail = errors.New("offline")
	s, err := NewSession(NewTracker(store), 1, 1, cards(1, 1, 2), nil, nil)
	require.NoError(t, err)

	assert.Error(t, s.Flip(context.Background()))
	assert.Equal(t, 1, s.StudiedCount())
	assert.Equal(t, 50, s.Progress().PercentComplete)
}

func TestNewSessionRejectsEmptyTopic(t *testing.T) {
	_, err := NewSession(NewTracker(newMemStore()), 1, 1, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoCards)
}
