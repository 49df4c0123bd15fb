package models

// ExamEntry is one question slot of an exam
type ExamEntry struct {
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
	IsCorrect  bool   `json:"isCorrect"`
}

// Exam is a single exam attempt. The set of question IDs never changes after creation.
type Exam struct {
	ID      int64       `json:"id"`
	UserID  int64       `json:"userId"`
	List    []ExamEntry `json:"list"`
	Name    string      `json:"name,omitempty"`
	TopicID int64       `json:"topicId,omitempty"`
}

// QuestionIDs returns the question IDs in slot order
func (e *Exam) QuestionIDs() []int64 {
	ids := make([]int64, len(e.List))
	for i, entry := range e.List {
		ids[i] = entry.QuestionID
	}
	return ids
}

// Clone returns a deep copy of the exam
func (e *Exam) Clone() *Exam {
	if e == nil {
		return nil
	}
	c := *e
	c.List = append([]ExamEntry(nil), e.List...)
	return &c
}

// Grade is the aggregate score of an exam
type Grade struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}
