// Package wire converts between the native models and the backend's JSON
// representation, where card ID sets and exam lists travel as JSON-encoded strings.
package wire

import (
	"encoding/json"

	"github.com/example/vocabtrainer/pkg/models"
)

// EncodeCardIDs encodes a card ID set as a JSON array string
func EncodeCardIDs(ids []int64) string {
	if len(ids) == 0 {
		return "[]"
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeCardIDs parses a JSON array string. Empty or malformed input yields an empty set.
func DecodeCardIDs(s string) []int64 {
	if s == "" {
		return []int64{}
	}
	var ids []int64
	if err := json.Unmarshal([]byte(s), &ids); err != nil || ids == nil {
		return []int64{}
	}
	return ids
}

// EncodeExamList encodes exam entries as a JSON array string
func EncodeExamList(list []models.ExamEntry) string {
	if len(list) == 0 {
		return "[]"
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeExamList parses an exam list. Empty or malformed input yields an empty list.
func DecodeExamList(s string) []models.ExamEntry {
	if s == "" {
		return []models.ExamEntry{}
	}
	var list []models.ExamEntry
	if err := json.Unmarshal([]byte(s), &list); err != nil || list == nil {
		return []models.ExamEntry{}
	}
	return list
}

// ProgressPayload is a UserVocabulaire as the backend sends and stores it
type ProgressPayload struct {
	ID                        int64                 `json:"id,omitempty" db:"id"`
	UserID                    int64                 `json:"userId" db:"user_id"`
	VocabulaireID             int64                 `json:"vocabulaireId" db:"vocabulaire_id"`
	TopicID                   int64                 `json:"topicId,omitempty" db:"topic_id"`
	Status                    models.ProgressStatus `json:"status" db:"status"`
	PercentComplete           int                   `json:"percentComplete" db:"percent_complete"`
	VocabulaireQuestionListID string                `json:"vocabulaireQuestionListId" db:"vocabulaire_question_list_id"`
}

// FromProgress builds the wire form of a progress record
func FromProgress(p *models.UserProgress) ProgressPayload {
	return ProgressPayload{
		ID:                        p.ID,
		UserID:                    p.UserID,
		VocabulaireID:             p.VocabulaireID,
		TopicID:                   p.TopicID,
		Status:                    p.Status,
		PercentComplete:           p.PercentComplete,
		VocabulaireQuestionListID: EncodeCardIDs(p.StudiedCardIDs),
	}
}

// Progress converts the wire form back to the native model
func (p ProgressPayload) Progress() *models.UserProgress {
	status := p.Status
	if status == "" {
		status = models.StatusStart
	}
	return &models.UserProgress{
		ID:              p.ID,
		UserID:          p.UserID,
		VocabulaireID:   p.VocabulaireID,
		TopicID:         p.TopicID,
		Status:          status,
		PercentComplete: p.PercentComplete,
		StudiedCardIDs:  DecodeCardIDs(p.VocabulaireQuestionListID),
	}
}

// ExamPayload is a UserExam as the backend sends and stores it
type ExamPayload struct {
	ID      int64  `json:"id,omitempty" db:"id"`
	UserID  int64  `json:"userId" db:"user_id"`
	List    string `json:"list" db:"list"`
	Name    string `json:"name,omitempty" db:"name"`
	TopicID int64  `json:"topicId,omitempty" db:"topic_id"`
}

// FromExam builds the wire form of an exam
func FromExam(e *models.Exam) ExamPayload {
	return ExamPayload{
		ID:      e.ID,
		UserID:  e.UserID,
		List:    EncodeExamList(e.List),
		Name:    e.Name,
		TopicID: e.TopicID,
	}
}

// Exam converts the wire form back to the native model
func (p ExamPayload) Exam() *models.Exam {
	return &models.Exam{
		ID:      p.ID,
		UserID:  p.UserID,
		List:    DecodeExamList(p.List),
		Name:    p.Name,
		TopicID: p.TopicID,
	}
}
