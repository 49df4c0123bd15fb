package models

// ProgressStatus is the learner's state for one topic
type ProgressStatus string

const (
	StatusStart     ProgressStatus = "start"
	StatusDoing     ProgressStatus = "doing"
	StatusCompleted ProgressStatus = "completed"
)

// UserProgress tracks which cards of a topic a user has studied.
// VocabulaireID is only a representative; the real scope is StudiedCardIDs.
type UserProgress struct {
	ID              int64          `json:"id"`
	UserID          int64          `json:"userId"`
	VocabulaireID   int64          `json:"vocabulaireId"`
	TopicID         int64          `json:"topicId,omitempty"` // 0 for records written without a topic
	Status          ProgressStatus `json:"status"`
	PercentComplete int            `json:"percentComplete"`
	StudiedCardIDs  []int64        `json:"studiedCardIds"`
}

// Clone returns a deep copy so callers can keep the previous state
func (p *UserProgress) Clone() *UserProgress {
	if p == nil {
		return nil
	}
	c := *p
	c.StudiedCardIDs = append([]int64(nil), p.StudiedCardIDs...)
	return &c
}
