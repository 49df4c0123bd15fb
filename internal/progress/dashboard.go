package progress

import (
	"sort"

	"github.com/example/vocabtrainer/internal/catalog"
	"github.com/example/vocabtrainer/pkg/models"
)

// maxRecent is how many in-flight topics the dashboard highlights
const maxRecent = 4

// TopicSummary is one row of the topic list
type TopicSummary struct {
	Topic     models.Topic
	CardCount int
	Progress  TopicProgress
}

// Summary is the learner's home screen
type Summary struct {
	Topics []TopicSummary
	// topics with progress, highest first
	Recent            []TopicSummary
	CompletedTopics   int
	LearnedCards      int
	TotalTopics       int
	TotalVocabulaires int
	TotalExams        int
	// first topic started but not finished, nil if none
	Continue *TopicSummary
	// first exam with an unanswered slot, else the latest one; nil without exams
	ResumeExam *models.Exam
}

// Dashboard derives the home screen for userID
func Dashboard(snap *catalog.Snapshot, userID int64, records []*models.UserProgress, exams []*models.Exam) Summary {
	var sum Summary

	for _, topic := range snap.Topics {
		cards := catalog.IDs(snap.Cards(topic.ID))
		row := TopicSummary{
			Topic:     topic,
			CardCount: len(cards),
			Progress:  ComputeTopicProgress(records, topic.ID, cards),
		}
		sum.Topics = append(sum.Topics, row)

		if row.Progress.Status == models.StatusCompleted {
			sum.CompletedTopics++
		}
		if row.Progress.Percent > 0 {
			sum.Recent = append(sum.Recent, row)
		}
	}

	sort.SliceStable(sum.Recent, func(i, j int) bool {
		return sum.Recent[i].Progress.Percent > sum.Recent[j].Progress.Percent
	})
	if len(sum.Recent) > maxRecent {
		sum.Recent = sum.Recent[:maxRecent]
	}

	for i := range sum.Topics {
		if p := sum.Topics[i].Progress.Percent; p > 0 && p < 100 {
			row := sum.Topics[i]
			sum.Continue = &row
			break
		}
	}

	learned := make(map[int64]bool)
	for _, r := range records {
		if r == nil {
			continue
		}
		for _, id := range r.StudiedCardIDs {
			learned[id] = true
		}
	}
	sum.LearnedCards = len(learned)

	sum.TotalTopics = len(snap.Topics)
	sum.TotalVocabulaires = len(snap.Vocabulaires)

	var own []*models.Exam
	for _, e := range exams {
		if e != nil && e.UserID == userID {
			own = append(own, e)
		}
	}
	sum.TotalExams = len(own)
	sum.ResumeExam = resumeExam(own)

	return sum
}

func resumeExam(exams []*models.Exam) *models.Exam {
	if len(exams) == 0 {
		return nil
	}
	for _, e := range exams {
		for _, entry := range e.List {
			if entry.Answer == "" {
				return e
			}
		}
	}
	latest := exams[0]
	for _, e := range exams[1:] {
		if e.ID > latest.ID {
			latest = e
		}
	}
	return latest
}
