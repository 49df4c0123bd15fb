package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/internal/config"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/pkg/models"
)

type recordingNotifier struct {
	sent map[int64]int
	err  error
}

func (n *recordingNotifier) SendProgressReminder(userID int64, inProgress int) error {
	if n.err != nil {
		return n.err
	}
	n.sent[userID] = inProgress
	return nil
}

func setup(t *testing.T, hour int) (*Scheduler, *recordingNotifier) {
	t.Helper()
	store, err := database.Connect(database.TypeSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	records := []*models.UserProgress{
		{UserID: 1, TopicID: 1, Status: models.StatusDoing, PercentComplete: 40},
		{UserID: 1, TopicID: 2, Status: models.StatusDoing, PercentComplete: 10},
		{UserID: 1, TopicID: 3, Status: models.StatusCompleted, PercentComplete: 100},
		{UserID: 2, TopicID: 1, Status: models.StatusCompleted, PercentComplete: 100},
	}
	for _, r := range records {
		require.NoError(t, store.CreateUserProgress(ctx, r))
	}

	notifier := &recordingNotifier{sent: map[int64]int{}}
	s := New(config.Default(), store, notifier, func() []int64 { return []int64{1, 2, 3} })
	s.now = func() time.Time { return time.Date(2024, 5, 1, hour, 0, 0, 0, time.Local) }
	return s, notifier
}

func TestRemindersInsideWindow(t *testing.T) {
	s, n := setup(t, 10)
	s.checkAndSendReminders(context.Background())

	assert.Equal(t, map[int64]int{1: 2}, n.sent)
}

func TestRemindersOutsideWindow(t *testing.T) {
	for _, hour := range []int{config.DefaultNotificationStartHour - 1, config.DefaultNotificationEndHour + 1} {
		s, n := setup(t, hour)
		s.checkAndSendReminders(context.Background())
		assert.Empty(t, n.sent, "hour %d", hour)
	}
}

func TestRunManualCheck(t *testing.T) {
	s, n := setup(t, 3)
	require.NoError(t, s.RunManualCheck(context.Background(), 1))
	assert.Equal(t, 2, n.sent[1])

	require.NoError(t, s.RunManualCheck(context.Background(), 2))
	_, ok := n.sent[2]
	assert.False(t, ok)

	n.err = errors.New("blocked by user")
	assert.Error(t, s.RunManualCheck(context.Background(), 1))
}
