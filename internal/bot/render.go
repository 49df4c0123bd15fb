package bot

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/example/vocabtrainer/internal/exam"
	"github.com/example/vocabtrainer/internal/excel"
	"github.com/example/vocabtrainer/internal/progress"
	"github.com/example/vocabtrainer/pkg/models"
)

var correctPhrases = []string{"✅ Correct!", "✅ Well done!", "✅ Great job!", "✅ Exactly right!"}

var wrongPhrases = []string{"❌ Not quite.", "❌ Wrong answer.", "❌ Keep trying."}

// feedback renders the reaction to an answer. rnd may be nil.
func feedback(rnd *rand.Rand, correct bool, answer string) string {
	phrases := wrongPhrases
	if correct {
		phrases = correctPhrases
	}
	i := 0
	if rnd != nil {
		i = rnd.Intn(len(phrases))
	}
	if correct {
		return phrases[i]
	}
	return fmt.Sprintf("%s The answer is: %s", phrases[i], answer)
}

// progressBar draws ten cells for a percentage
func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent / 10
	return strings.Repeat("▓", filled) + strings.Repeat("░", 10-filled)
}

func statusLabel(s models.ProgressStatus) string {
	switch s {
	case models.StatusCompleted:
		return "✅ completed"
	case models.StatusDoing:
		return "📖 in progress"
	default:
		return "🆕 not started"
	}
}

func formatTopicList(topics []progress.TopicSummary) string {
	var sb strings.Builder
	sb.WriteString("📚 Topics\n\n")
	for _, t := range topics {
		fmt.Fprintf(&sb, "%s (%d words)\n%s %d%% %s\n\n",
			t.Topic.Title, t.CardCount, progressBar(t.Progress.Percent), t.Progress.Percent, statusLabel(t.Progress.Status))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatSummary(sum progress.Summary) string {
	var sb strings.Builder
	sb.WriteString("📊 Your statistics\n\n")
	fmt.Fprintf(&sb, "Topics completed: %d / %d\n", sum.CompletedTopics, sum.TotalTopics)
	fmt.Fprintf(&sb, "Words learned: %d\n", sum.LearnedCards)
	fmt.Fprintf(&sb, "Vocabularies: %d\n", sum.TotalVocabulaires)
	fmt.Fprintf(&sb, "Exams taken: %d\n", sum.TotalExams)

	if len(sum.Recent) > 0 {
		sb.WriteString("\nRecent topics:\n")
		for _, t := range sum.Recent {
			fmt.Fprintf(&sb, "• %s %s %d%%\n", t.Topic.Title, progressBar(t.Progress.Percent), t.Progress.Percent)
		}
	}
	if sum.ResumeExam != nil {
		g := exam.GradeExam(sum.ResumeExam)
		name := sum.ResumeExam.Name
		if name == "" {
			name = fmt.Sprintf("Exam #%d", sum.ResumeExam.ID)
		}
		fmt.Fprintf(&sb, "\nLast exam: %s (%d / %d)\n", name, g.Correct, g.Total)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatCard renders the front or back of the current card
func formatCard(s *progress.Session) string {
	card := s.Current()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Card %s   %s %d%%\n\n", s.Counter(), progressBar(s.Percent()), s.Percent())

	if !s.Flipped() {
		fmt.Fprintf(&sb, "🇻🇳 %s", card.Prompt())
		if card.DescriptionVI != "" {
			fmt.Fprintf(&sb, "\n%s", card.DescriptionVI)
		}
		return sb.String()
	}

	fmt.Fprintf(&sb, "🇬🇧 %s", exam.CorrectAnswer(card))
	if card.DescriptionEN != "" {
		fmt.Fprintf(&sb, "\n%s", card.DescriptionEN)
	}
	if card.AudioEN != "" {
		fmt.Fprintf(&sb, "\n🔊 %s", card.AudioEN)
	}
	return sb.String()
}

func formatGrade(g models.Grade) string {
	pct := 0
	if g.Total > 0 {
		pct = g.Correct * 100 / g.Total
	}
	return fmt.Sprintf("🏁 Exam submitted: %d / %d correct (%d%%)", g.Correct, g.Total, pct)
}

func formatScoreboard(rows []exam.ScoreRow) string {
	if len(rows) == 0 {
		return "No exams yet."
	}
	var sb strings.Builder
	sb.WriteString("📋 Exams\n\n")
	for _, r := range rows {
		name := r.Exam.Name
		if name == "" {
			name = "Quiz"
		}
		fmt.Fprintf(&sb, "#%d user %d  %s  %s\n", r.Exam.ID, r.Exam.UserID, name, r.Label())
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatImportResult(r *excel.ImportResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Import finished.\nRows: %d\nTopics created: %d\nWords created: %d\nWords updated: %d\nSkipped: %d",
		r.TotalProcessed, r.TopicsCreated, r.Created, r.Updated, r.Skipped)
	if len(r.Errors) > 0 {
		sb.WriteString("\n\nErrors:")
		for i, e := range r.Errors {
			if i == 5 {
				fmt.Fprintf(&sb, "\n...and %d more", len(r.Errors)-5)
				break
			}
			sb.WriteString("\n" + e)
		}
	}
	return sb.String()
}
