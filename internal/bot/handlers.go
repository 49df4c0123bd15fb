package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/internal/catalog"
	"github.com/example/vocabtrainer/internal/excel"
	"github.com/example/vocabtrainer/internal/exam"
	"github.com/example/vocabtrainer/internal/progress"
	"github.com/example/vocabtrainer/pkg/models"
)

// Constants for callback data
const (
	cbMainMenu   = "main_menu"
	cbTopics     = "topics"
	cbQuiz       = "quiz"
	cbStats      = "stats"
	cbFlip       = "flip"
	cbNext       = "next"
	cbPrev       = "prev"
	cbFinish     = "finish"
	cbExamSubmit = "exam_submit"
	cbExamRetry  = "exam_retry"

	prefixStudy      = "study_"
	prefixExam       = "exam_"
	prefixQuizAnswer = "qa_"
	prefixExamAnswer = "ea_"
)

func mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "📚 Topics", CallbackData: cbTopics},
			{Text: "📝 Quick quiz", CallbackData: cbQuiz},
		},
		{
			{Text: "📊 Statistics", CallbackData: cbStats},
		},
	}
}

func (b *Bot) handleMessage(ctx context.Context, st *chatState, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	var fromID int64
	if message.From != nil {
		fromID = message.From.ID
	}

	if message.IsCommand() {
		switch message.Command() {
		case "start":
			b.handleStartCommand(chatID)
		case "menu":
			b.showMainMenu(chatID)
		case "login":
			b.handleLoginCommand(ctx, chatID, fromID, message.CommandArguments())
		case "topics":
			b.withUser(chatID, fromID, func(userID int64) { b.handleTopics(ctx, chatID, userID) })
		case "quiz":
			b.withUser(chatID, fromID, func(userID int64) { b.startQuiz(ctx, st, chatID) })
		case "stats":
			b.withUser(chatID, fromID, func(userID int64) { b.handleStats(ctx, chatID, userID) })
		case "import":
			if !b.isAdmin(fromID) {
				b.notice(chatID, "This command is only available for administrators.", nil)
				return
			}
			st.awaitingUpload = true
			b.send(tgbotapi.NewMessage(chatID, "Send an .xlsx or .csv file with the columns: topic, title_en, title_vi, description_en, description_vi, audio_en, audio_vi, image."))
		case "exams":
			if !b.isAdmin(fromID) {
				b.notice(chatID, "This command is only available for administrators.", nil)
				return
			}
			b.handleScoreboard(ctx, chatID)
		default:
			b.notice(chatID, "Unknown command. Use /menu to show the main menu.", nil)
		}
		return
	}

	if st.awaitingUpload && b.isAdmin(fromID) {
		if message.Document == nil {
			b.send(tgbotapi.NewMessage(chatID, "Please send the file as a document."))
			return
		}
		st.awaitingUpload = false
		b.handleImportDocument(ctx, chatID, message.Document)
		return
	}

	b.notice(chatID, "I don't understand. Use /menu to show the main menu.", nil)
}

// withUser runs fn for the backend user mapped to the Telegram user, or asks them to log in
func (b *Bot) withUser(chatID, telegramID int64, fn func(userID int64)) {
	userID, ok := b.backendUser(telegramID)
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "Please log in first: /login <email> <password>"))
		return
	}
	fn(userID)
}

// handleStartCommand handles the /start command
func (b *Bot) handleStartCommand(chatID int64) {
	welcomeText := `Welcome to the vocabulary trainer! 🎓

Available commands:
/menu - Show main menu
/login <email> <password> - Link your account
/topics - Browse topics and study flashcards
/quiz - Take a quick quiz
/stats - Show your statistics`

	msg := tgbotapi.NewMessage(chatID, welcomeText)
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

// showMainMenu shows the main menu
func (b *Bot) showMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Main Menu - choose an option:")
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

func (b *Bot) handleLoginCommand(ctx context.Context, chatID, telegramID int64, args string) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		b.send(tgbotapi.NewMessage(chatID, "Usage: /login <email> <password>"))
		return
	}

	user, err := b.backend.Login(ctx, models.Credentials{Email: parts[0], Password: parts[1]})
	if errors.Is(err, backend.ErrInvalidCredentials) {
		b.send(tgbotapi.NewMessage(chatID, "Wrong email or password."))
		return
	}
	if err != nil {
		b.notice(chatID, "Login failed, please try again later.", err)
		return
	}

	b.setBackendUser(telegramID, user.ID)
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Logged in as %s.", user.Email))
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

// loadProgress fetches the catalog and the user's records together
func (b *Bot) loadProgress(ctx context.Context, userID int64) (*catalog.Snapshot, []*models.UserProgress, error) {
	snap, err := catalog.Load(ctx, b.backend)
	if err != nil {
		return nil, nil, err
	}
	records, err := b.tracker.Records(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return snap, records, nil
}

func (b *Bot) handleTopics(ctx context.Context, chatID, userID int64) {
	snap, records, err := b.loadProgress(ctx, userID)
	if err != nil {
		b.notice(chatID, "Could not load topics.", err)
		return
	}
	sum := progress.Dashboard(snap, userID, records, nil)
	if len(sum.Topics) == 0 {
		b.notice(chatID, "There are no topics yet.", nil)
		return
	}

	var rows [][]MenuButton
	for _, t := range sum.Topics {
		rows = append(rows, []MenuButton{
			{Text: "📖 " + t.Topic.Title, CallbackData: prefixStudy + strconv.FormatInt(t.Topic.ID, 10)},
			{Text: "✍️ Exam", CallbackData: prefixExam + strconv.FormatInt(t.Topic.ID, 10)},
		})
	}
	rows = append(rows, []MenuButton{{Text: "⬅️ Menu", CallbackData: cbMainMenu}})

	msg := tgbotapi.NewMessage(chatID, formatTopicList(sum.Topics))
	msg.ReplyMarkup = createKeyboard(rows)
	b.send(msg)
}

func (b *Bot) handleStats(ctx context.Context, chatID, userID int64) {
	snap, records, err := b.loadProgress(ctx, userID)
	if err != nil {
		b.notice(chatID, "Could not load statistics.", err)
		return
	}
	exams, err := b.backend.ListExams(ctx)
	if err != nil {
		b.notice(chatID, "Could not load statistics.", err)
		return
	}

	sum := progress.Dashboard(snap, userID, records, exams)
	msg := tgbotapi.NewMessage(chatID, formatSummary(sum))

	rows := [][]MenuButton{}
	if sum.Continue != nil {
		rows = append(rows, []MenuButton{{
			Text:         "▶️ Continue " + sum.Continue.Topic.Title,
			CallbackData: prefixStudy + strconv.FormatInt(sum.Continue.Topic.ID, 10),
		}})
	}
	rows = append(rows, []MenuButton{{Text: "⬅️ Menu", CallbackData: cbMainMenu}})
	msg.ReplyMarkup = createKeyboard(rows)
	b.send(msg)
}

func (b *Bot) handleScoreboard(ctx context.Context, chatID int64) {
	rows, err := b.engine.Scoreboard(ctx)
	if err != nil {
		b.notice(chatID, "Could not load exams.", err)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, formatScoreboard(rows)))
}

func (b *Bot) handleImportDocument(ctx context.Context, chatID int64, doc *tgbotapi.Document) {
	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if ext != ".xlsx" && ext != ".csv" {
		b.notice(chatID, "Only .xlsx and .csv files are supported.", nil)
		return
	}

	path, err := b.download(ctx, doc.FileID, ext)
	if err != nil {
		b.notice(chatID, "Could not download the file.", err)
		return
	}
	defer os.Remove(path)

	cfg := excel.DefaultImportConfig()
	cfg.FilePath = path
	result, err := excel.ImportQuestions(ctx, b.backend, cfg)
	if err != nil {
		b.notice(chatID, "Import failed.", err)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, formatImportResult(result)))
}

// download saves a Telegram file to a temporary path
func (b *Bot) download(ctx context.Context, fileID, ext string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("failed to get file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "import-*"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return tmp.Name(), nil
}

// handleCallbackQuery handles callback queries from buttons
func (b *Bot) handleCallbackQuery(ctx context.Context, st *chatState, callback *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback: %v", err)
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	var fromID int64
	if callback.From != nil {
		fromID = callback.From.ID
	}
	data := callback.Data

	if data == cbMainMenu {
		b.showMainMenu(chatID)
		return
	}

	userID, ok := b.backendUser(fromID)
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "Please log in first: /login <email> <password>"))
		return
	}

	switch {
	case data == cbTopics:
		b.handleTopics(ctx, chatID, userID)
	case data == cbStats:
		b.handleStats(ctx, chatID, userID)
	case data == cbQuiz:
		b.startQuiz(ctx, st, chatID)
	case data == cbFlip || data == cbNext || data == cbPrev:
		b.handleCardAction(ctx, st, chatID, messageID, data)
	case data == cbFinish:
		b.finishStudy(ctx, st, chatID)
	case data == cbExamSubmit:
		b.submitExam(ctx, st, chatID)
	case data == cbExamRetry:
		b.retryExam(ctx, st, chatID)
	case strings.HasPrefix(data, prefixStudy):
		topicID, err := strconv.ParseInt(strings.TrimPrefix(data, prefixStudy), 10, 64)
		if err != nil {
			log.Printf("Error parsing topic ID: %v", err)
			return
		}
		b.startStudy(ctx, st, chatID, userID, topicID)
	case strings.HasPrefix(data, prefixQuizAnswer):
		idx, opt, err := parseAnswer(strings.TrimPrefix(data, prefixQuizAnswer))
		if err != nil {
			log.Printf("Error parsing quiz answer: %v", err)
			return
		}
		b.answerQuiz(ctx, st, chatID, userID, idx, opt)
	case strings.HasPrefix(data, prefixExamAnswer):
		idx, opt, err := parseAnswer(strings.TrimPrefix(data, prefixExamAnswer))
		if err != nil {
			log.Printf("Error parsing exam answer: %v", err)
			return
		}
		b.answerExam(st, chatID, idx, opt)
	case strings.HasPrefix(data, prefixExam):
		topicID, err := strconv.ParseInt(strings.TrimPrefix(data, prefixExam), 10, 64)
		if err != nil {
			log.Printf("Error parsing topic ID: %v", err)
			return
		}
		b.startTopicExam(ctx, st, chatID, userID, topicID)
	}
}

// parseAnswer splits "<idx>_<opt>"
func parseAnswer(s string) (int, int, error) {
	parts := strings.SplitN(s, "_", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed answer %q", s)
	}
	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	opt, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return idx, opt, nil
}

// Flashcards

func (b *Bot) startStudy(ctx context.Context, st *chatState, chatID, userID, topicID int64) {
	snap, records, err := b.loadProgress(ctx, userID)
	if err != nil {
		b.notice(chatID, "Could not load the topic.", err)
		return
	}
	topic, ok := snap.Topic(topicID)
	if !ok {
		b.notice(chatID, "Topic not found.", nil)
		return
	}

	cards := snap.Cards(topicID)
	existing := progress.FindRecord(records, topicID, catalog.IDs(cards))
	session, err := progress.NewSession(b.tracker, userID, topicID, cards, existing, b.newRand())
	if errors.Is(err, progress.ErrNoCards) {
		b.notice(chatID, "There are no words in this topic yet.", nil)
		return
	}
	if err != nil {
		b.notice(chatID, "Could not start the session.", err)
		return
	}
	st.study = session

	if session.Locked() {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("🎉 You have already completed %q. Review as much as you like.", topic.Title)))
	}
	msg := tgbotapi.NewMessage(chatID, formatCard(session))
	msg.ReplyMarkup = cardKeyboard()
	b.send(msg)
}

func cardKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := createKeyboard([][]MenuButton{
		{
			{Text: "⬅️", CallbackData: cbPrev},
			{Text: "🔄 Flip", CallbackData: cbFlip},
			{Text: "➡️", CallbackData: cbNext},
		},
		{{Text: "✅ Finish", CallbackData: cbFinish}},
	})
	return &kb
}

func (b *Bot) handleCardAction(ctx context.Context, st *chatState, chatID int64, messageID int, action string) {
	s := st.study
	if s == nil {
		b.notice(chatID, "No study session. Pick a topic first.", nil)
		return
	}

	switch action {
	case cbFlip:
		if err := s.Flip(ctx); err != nil {
			b.notice(chatID, "Could not save your progress.", err)
		}
	case cbNext:
		s.Next()
	case cbPrev:
		s.Prev()
	}

	edit := tgbotapi.NewEditMessageText(chatID, messageID, formatCard(s))
	edit.ReplyMarkup = cardKeyboard()
	b.send(edit)
}

func (b *Bot) finishStudy(ctx context.Context, st *chatState, chatID int64) {
	s := st.study
	if s == nil {
		b.showMainMenu(chatID)
		return
	}
	st.study = nil

	if err := s.Finish(ctx); err != nil {
		b.notice(chatID, "Could not save your progress.", err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Progress saved: %d/%d words.", s.StudiedCount(), s.Total()))
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

// Quick quiz

func (b *Bot) startQuiz(ctx context.Context, st *chatState, chatID int64) {
	quiz, err := b.engine.NewQuiz(ctx, b.cfg.QuizSize)
	if err != nil {
		b.notice(chatID, "Could not load questions.", err)
		return
	}
	if len(quiz.Questions) == 0 {
		b.notice(chatID, "There are no questions yet.", nil)
		return
	}
	st.quiz = quiz
	st.quizAnswers = make(map[int64]string)
	st.quizIdx = 0
	b.sendQuizQuestion(st, chatID)
}

func (b *Bot) sendQuizQuestion(st *chatState, chatID int64) {
	q := st.quiz.Questions[st.quizIdx]
	text := fmt.Sprintf("Question %d/%d\n\n%s", st.quizIdx+1, len(st.quiz.Questions), q.Question.Prompt())
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = optionsKeyboard(prefixQuizAnswer, st.quizIdx, q.Options)
	b.send(msg)
}

func optionsKeyboard(prefix string, idx int, options []string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]MenuButton
	for i, opt := range options {
		rows = append(rows, []MenuButton{{Text: opt, CallbackData: fmt.Sprintf("%s%d_%d", prefix, idx, i)}})
	}
	return createKeyboard(rows)
}

func (b *Bot) answerQuiz(ctx context.Context, st *chatState, chatID, userID int64, idx, opt int) {
	if st.quiz == nil || idx != st.quizIdx || idx >= len(st.quiz.Questions) {
		return // stale button
	}
	q := st.quiz.Questions[idx]
	if opt < 0 || opt >= len(q.Options) {
		return
	}
	st.quizAnswers[q.Question.ID] = q.Options[opt]
	b.send(tgbotapi.NewMessage(chatID, feedback(b.newRand(), q.Options[opt] == q.Correct, q.Correct)))

	st.quizIdx++
	if st.quizIdx < len(st.quiz.Questions) {
		b.sendQuizQuestion(st, chatID)
		return
	}

	quiz, answers := st.quiz, st.quizAnswers
	st.quiz, st.quizAnswers = nil, nil
	_, grade, err := b.engine.SubmitQuiz(ctx, userID, quiz, answers)
	if err != nil {
		b.notice(chatID, "Could not submit the quiz.", err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🏁 Quiz finished: %d / %d correct.", grade.Correct, grade.Total))
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

// Exams

func (b *Bot) startTopicExam(ctx context.Context, st *chatState, chatID, userID, topicID int64) {
	snap, err := catalog.Load(ctx, b.backend)
	if err != nil {
		b.notice(chatID, "Could not load the topic.", err)
		return
	}
	topic, ok := snap.Topic(topicID)
	if !ok {
		b.notice(chatID, "Topic not found.", nil)
		return
	}

	created, err := b.engine.CreateTopicExam(ctx, userID, topic, snap.Cards(topicID))
	if errors.Is(err, exam.ErrEmptyTopic) {
		b.notice(chatID, "There are no words in this topic yet.", nil)
		return
	}
	if err != nil {
		b.notice(chatID, "Could not create the exam.", err)
		return
	}

	attempt, err := b.engine.StartAttempt(ctx, created.ID)
	if err != nil {
		b.notice(chatID, "Could not start the exam.", err)
		return
	}
	st.attempt = attempt
	st.attemptIdx = 0
	b.sendExamQuestion(st, chatID)
}

func (b *Bot) sendExamQuestion(st *chatState, chatID int64) {
	a := st.attempt
	idx := st.attemptIdx

	q, err := a.Question(idx)
	if err != nil {
		return
	}
	opts, _ := a.Options(idx)

	prompt := "(question no longer available)"
	if q != nil {
		prompt = q.Prompt()
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s\nQuestion %d/%d\n\n%s", a.Exam().Name, idx+1, a.Len(), prompt))

	kb := optionsKeyboard(prefixExamAnswer, idx, opts)
	if q == nil {
		// nothing to pick, let the learner move on
		kb = createKeyboard([][]MenuButton{{{Text: "Skip", CallbackData: fmt.Sprintf("%s%d_-1", prefixExamAnswer, idx)}}})
	}
	msg.ReplyMarkup = kb
	b.send(msg)
}

func (b *Bot) answerExam(st *chatState, chatID int64, idx, opt int) {
	a := st.attempt
	if a == nil || a.State() == exam.Submitted || idx != st.attemptIdx {
		return
	}

	if opt >= 0 {
		opts, err := a.Options(idx)
		if err != nil || opt >= len(opts) {
			return
		}
		if err := a.Select(idx, opts[opt]); err != nil {
			b.notice(chatID, "Could not record the answer.", err)
			return
		}
		q, _ := a.Question(idx)
		b.send(tgbotapi.NewMessage(chatID, feedback(b.newRand(), a.IsCorrect(idx), exam.CorrectAnswer(*q))))
	}

	st.attemptIdx++
	if st.attemptIdx < a.Len() {
		b.sendExamQuestion(st, chatID)
		return
	}

	answered := 0
	for i := 0; i < a.Len(); i++ {
		if a.Answer(i) != "" {
			answered++
		}
	}
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("You answered %d of %d questions.", answered, a.Len()))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "📤 Submit", CallbackData: cbExamSubmit}}})
	b.send(msg)
}

func (b *Bot) submitExam(ctx context.Context, st *chatState, chatID int64) {
	a := st.attempt
	if a == nil {
		b.showMainMenu(chatID)
		return
	}

	grade, err := b.engine.FinalizeExam(ctx, a)
	if errors.Is(err, exam.ErrSubmitted) {
		return
	}
	if err != nil {
		b.notice(chatID, "Could not submit the exam.", err)
		return
	}

	msg := tgbotapi.NewMessage(chatID, formatGrade(grade))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🔁 Retry", CallbackData: cbExamRetry}},
		{{Text: "⬅️ Menu", CallbackData: cbMainMenu}},
	})
	b.send(msg)
}

func (b *Bot) retryExam(ctx context.Context, st *chatState, chatID int64) {
	if st.attempt == nil {
		b.showMainMenu(chatID)
		return
	}
	next, err := b.engine.Retry(ctx, st.attempt)
	if err != nil {
		b.notice(chatID, "Could not start a new attempt.", err)
		return
	}
	st.attempt = next
	st.attemptIdx = 0
	b.sendExamQuestion(st, chatID)
}
