// Package scheduler sends hourly study reminders for topics left in progress.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/internal/config"
	"github.com/example/vocabtrainer/pkg/models"
)

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler  *gocron.Scheduler
	notifier   Notifier
	progress   backend.ProgressStore
	recipients func() []int64

	startHour int
	endHour   int
	now       func() time.Time
}

// Notifier interface for sending notifications
type Notifier interface {
	SendProgressReminder(userID int64, inProgressTopics int) error
}

// New creates a new scheduler instance. recipients lists the backend users to remind.
func New(cfg *config.Config, progress backend.ProgressStore, notifier Notifier, recipients func() []int64) *Scheduler {
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.Local),
		notifier:   notifier,
		progress:   progress,
		recipients: recipients,
		startHour:  cfg.NotificationStartHour,
		endHour:    cfg.NotificationEndHour,
		now:        time.Now,
	}
}

// Start begins running all scheduled tasks
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(1).Hour().Do(func() {
		s.checkAndSendReminders(context.Background())
	})
	if err != nil {
		return err
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// inWindow reports whether hour lies inside the notification window
func (s *Scheduler) inWindow(hour int) bool {
	return hour >= s.startHour && hour <= s.endHour
}

// checkAndSendReminders reminds every recipient with topics in progress
func (s *Scheduler) checkAndSendReminders(ctx context.Context) {
	currentHour := s.now().Hour()
	if !s.inWindow(currentHour) {
		log.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminders",
			currentHour, s.startHour, s.endHour)
		return
	}

	for _, userID := range s.recipients() {
		if err := s.RunManualCheck(ctx, userID); err != nil {
			log.Printf("Error sending reminder to user %d: %v", userID, err)
		}
	}
}

// RunManualCheck forces a check for a specific user
func (s *Scheduler) RunManualCheck(ctx context.Context, userID int64) error {
	records, err := s.progress.ListUserProgress(ctx, userID)
	if err != nil {
		return err
	}

	doing := 0
	for _, r := range records {
		if r.Status == models.StatusDoing {
			doing++
		}
	}

	if doing > 0 {
		return s.notifier.SendProgressReminder(userID, doing)
	}
	return nil
}
