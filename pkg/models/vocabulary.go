package models

// Vocabulaire links a set of vocabulary items to a topic.
// In practice every topic owns exactly one vocabulaire.
type Vocabulaire struct {
	ID      int64 `json:"id" db:"id"`
	TopicID int64 `json:"topicId" db:"topic_id"`
}

// VocabularyItem is a single flashcard / exam question
type VocabularyItem struct {
	ID            int64  `json:"id" db:"id"`
	TitleVI       string `json:"title_vi,omitempty" db:"title_vi"`
	TitleEN       string `json:"title_en,omitempty" db:"title_en"`
	DescriptionVI string `json:"description_vi,omitempty" db:"description_vi"`
	DescriptionEN string `json:"description_en,omitempty" db:"description_en"`
	AudioVI       string `json:"audio_vi,omitempty" db:"audio_vi"`
	AudioEN       string `json:"audio_en,omitempty" db:"audio_en"`
	Image         string `json:"image,omitempty" db:"image"`
	VocabulaireID int64  `json:"vocabulaireId" db:"vocabulaire_id"`
}

// Prompt returns the text shown on the front of the card
func (v VocabularyItem) Prompt() string {
	if v.TitleVI != "" {
		return v.TitleVI
	}
	return v.TitleEN
}

// ExamQuestion is the admin-managed exam question resource
type ExamQuestion struct {
	ID                    int64  `json:"id" db:"id"`
	VocabulaireQuestionID int64  `json:"vocabulaireQuestionId" db:"vocabulaire_question_id"`
	Answer                string `json:"answer" db:"answer"`
	IsCorrect             bool   `json:"isCorrect" db:"is_correct"`
}
