package progress

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/example/vocabtrainer/pkg/models"
)

// ErrNoCards is returned when a session is started on an empty topic
var ErrNoCards = errors.New("topic has no cards")

// Session is the state of one flashcard run over a topic
type Session struct {
	tracker *Tracker
	userID  int64
	topicID int64

	cards   []models.VocabularyItem
	index   int
	flipped bool

	progress *models.UserProgress
	studied  map[int64]bool
	// set when the topic was already completed at start; nothing is persisted then
	locked bool
}

// NewSession shuffles the cards and resumes from the existing record (may be nil).
// rnd may be nil.
func NewSession(tracker *Tracker, userID, topicID int64, cards []models.VocabularyItem, existing *models.UserProgress, rnd *rand.Rand) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	shuffled := append([]models.VocabularyItem(nil), cards...)
	rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	s := &Session{
		tracker:  tracker,
		userID:   userID,
		topicID:  topicID,
		cards:    shuffled,
		progress: existing.Clone(),
		studied:  make(map[int64]bool),
	}
	if existing != nil {
		for _, id := range existing.StudiedCardIDs {
			s.studied[id] = true
		}
		s.locked = Percent(existing.StudiedCardIDs, s.cardIDs()) == 100
	}
	return s, nil
}

func (s *Session) cardIDs() []int64 {
	ids := make([]int64, len(s.cards))
	for i, c := range s.cards {
		ids[i] = c.ID
	}
	return ids
}

// Current returns the card on screen
func (s *Session) Current() models.VocabularyItem {
	return s.cards[s.index]
}

// Flipped reports whether the back of the card is shown
func (s *Session) Flipped() bool {
	return s.flipped
}

// Counter returns the position label, e.g. "3 / 10"
func (s *Session) Counter() string {
	return fmt.Sprintf("%d / %d", s.index+1, len(s.cards))
}

// Locked reports whether the topic was already completed when the session started
func (s *Session) Locked() bool {
	return s.locked
}

// Progress returns the latest in-memory record, nil before the first study
func (s *Session) Progress() *models.UserProgress {
	return s.progress.Clone()
}

// StudiedCount returns how many of the session's cards have been studied
func (s *Session) StudiedCount() int {
	n := 0
	for _, c := range s.cards {
		if s.studied[c.ID] {
			n++
		}
	}
	return n
}

// Percent returns the session's completion percentage
func (s *Session) Percent() int {
	studied := make([]int64, 0, len(s.studied))
	for id := range s.studied {
		studied = append(studied, id)
	}
	return Percent(studied, s.cardIDs())
}

// Total returns the number of cards
func (s *Session) Total() int {
	return len(s.cards)
}

// Complete reports whether every card has been studied
func (s *Session) Complete() bool {
	return s.StudiedCount() == len(s.cards)
}

// Flip toggles the card face. Turning a card not yet studied to its back
// records it. The in-memory state is kept when persisting fails.
func (s *Session) Flip(ctx context.Context) error {
	s.flipped = !s.flipped
	if !s.flipped {
		return nil
	}

	card := s.Current()
	if s.studied[card.ID] {
		return nil
	}
	s.studied[card.ID] = true

	if s.locked {
		return nil
	}

	updated, err := s.tracker.RecordCardStudied(ctx, s.progress, s.userID, s.topicID, card.ID, s.cards)
	s.progress = updated
	return err
}

// Next moves to the following card, wrapping to the first
func (s *Session) Next() {
	s.index = (s.index + 1) % len(s.cards)
	s.flipped = false
}

// Prev moves to the previous card, wrapping to the last
func (s *Session) Prev() {
	s.index = (s.index - 1 + len(s.cards)) % len(s.cards)
	s.flipped = false
}

// Finish ends the session, saving once more if the topic is still incomplete
func (s *Session) Finish(ctx context.Context) error {
	if s.locked || s.Complete() || s.progress == nil {
		return nil
	}
	if err := s.tracker.save(ctx, s.progress); err != nil {
		return err
	}
	return nil
}
