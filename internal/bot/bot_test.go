package bot

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/internal/config"
	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/exam"
	"github.com/example/vocabtrainer/pkg/models"
)

const (
	chatID  int64 = 42
	adminID int64 = 99
)

type fakeSender struct {
	mu        sync.Mutex
	sent      []tgbotapi.Chattable
	callbacks int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callbacks++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) GetFileDirectURL(fileID string) (string, error) {
	return "", fmt.Errorf("no files in tests")
}

func (f *fakeSender) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	switch m := f.sent[len(f.sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	}
	return ""
}

type fixture struct {
	bot   *Bot
	api   *fakeSender
	store *database.Store
	user  *models.User
	topic models.Topic
	words []models.VocabularyItem
	ctx   context.Context
}

func newFixture(t *testing.T, link bool) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := database.Connect(database.TypeSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	user, err := store.Register(ctx, models.Credentials{Email: "learner@example.com", Password: "secret"})
	require.NoError(t, err)

	topic := models.Topic{Title: "Animals"}
	require.NoError(t, store.CreateTopic(ctx, &topic))
	vocab := models.Vocabulaire{TopicID: topic.ID}
	require.NoError(t, store.CreateVocabulaire(ctx, &vocab))
	var words []models.VocabularyItem
	for _, w := range []string{"cat", "dog", "bird"} {
		item := models.VocabularyItem{TitleEN: w, TitleVI: w + "-vi", VocabulaireID: vocab.ID}
		require.NoError(t, store.CreateQuestion(ctx, &item))
		words = append(words, item)
	}

	cfg := config.Default()
	cfg.SchedulerEnabled = false
	cfg.AdminUserIDs = map[int64]bool{adminID: true}
	if link {
		cfg.UserMap = map[int64]int64{chatID: user.ID}
	}

	api := &fakeSender{}
	b := newBot(cfg, store, api)
	b.rnd = rand.New(rand.NewSource(1))

	return &fixture{bot: b, api: api, store: store, user: user, topic: topic, words: words, ctx: ctx}
}

func (f *fixture) command(from int64, text string) {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	f.bot.handleUpdate(f.ctx, tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: from},
		From:     &tgbotapi.User{ID: from},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}})
}

func (f *fixture) press(data string) {
	f.pressFrom(chatID, data)
}

func (f *fixture) pressFrom(from int64, data string) {
	f.bot.handleUpdate(f.ctx, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: from},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: from}},
		Data:    data,
	}})
}

func TestLoginLinksAccount(t *testing.T) {
	f := newFixture(t, false)

	f.command(chatID, "/topics")
	assert.Contains(t, f.api.lastText(), "log in first")

	f.command(chatID, "/login learner@example.com wrong")
	assert.Contains(t, f.api.lastText(), "Wrong email or password")
	_, ok := f.bot.backendUser(chatID)
	assert.False(t, ok)

	f.command(chatID, "/login learner@example.com secret")
	assert.Contains(t, f.api.lastText(), "Logged in as learner@example.com")
	userID, ok := f.bot.backendUser(chatID)
	require.True(t, ok)
	assert.Equal(t, f.user.ID, userID)

	f.command(chatID, "/topics")
	assert.Contains(t, f.api.lastText(), "Animals (3 words)")
}

func TestConcurrentChatsStudy(t *testing.T) {
	f := newFixture(t, true)
	const otherChat int64 = 43
	f.bot.setBackendUser(otherChat, f.user.ID)
	study := prefixStudy + strconv.FormatInt(f.topic.ID, 10)

	var wg sync.WaitGroup
	for _, id := range []int64{chatID, otherChat} {
		wg.Add(1)
		go func(from int64) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				f.pressFrom(from, study)
				f.pressFrom(from, cbNext)
			}
		}(id)
	}
	wg.Wait()

	for _, id := range []int64{chatID, otherChat} {
		s := f.bot.state(id).study
		require.NotNil(t, s)
		assert.Equal(t, 3, s.Total())
	}
	assert.Equal(t, 80, f.api.callbacks)
}

func TestAdminCommandsRejectLearners(t *testing.T) {
	f := newFixture(t, true)

	f.command(chatID, "/exams")
	assert.Contains(t, f.api.lastText(), "only available for administrators")

	f.command(chatID, "/import")
	assert.False(t, f.bot.state(chatID).awaitingUpload)

	f.command(adminID, "/import")
	assert.True(t, f.bot.state(adminID).awaitingUpload)
}

func TestStudyFlowSavesProgress(t *testing.T) {
	f := newFixture(t, true)
	topicID := strconv.FormatInt(f.topic.ID, 10)

	f.press(prefixStudy + topicID)
	require.NotNil(t, f.bot.state(chatID).study)
	assert.Contains(t, f.api.lastText(), "Card 1 / 3")

	f.press(cbFlip)
	assert.Contains(t, f.api.lastText(), "🇬🇧")
	f.press(cbNext)
	f.press(cbFlip)
	f.press(cbFinish)
	assert.Contains(t, f.api.lastText(), "Progress saved: 2/3 words")
	assert.Nil(t, f.bot.state(chatID).study)

	records, err := f.store.ListUserProgress(f.ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 67, records[0].PercentComplete)
	assert.Equal(t, models.StatusDoing, records[0].Status)
	assert.Equal(t, f.topic.ID, records[0].TopicID)
	assert.Equal(t, 5, f.api.callbacks)
}

func TestExamFlowGradesAndRetries(t *testing.T) {
	f := newFixture(t, true)

	f.press(prefixExam + strconv.FormatInt(f.topic.ID, 10))
	st := f.bot.state(chatID)
	require.NotNil(t, st.attempt)
	require.Equal(t, 3, st.attempt.Len())

	for i := 0; i < st.attempt.Len(); i++ {
		q, err := st.attempt.Question(i)
		require.NoError(t, err)
		opts, err := st.attempt.Options(i)
		require.NoError(t, err)

		pick := 0
		// answer the first two right and the last one wrong
		for j, o := range opts {
			if (i < 2) == (o == exam.CorrectAnswer(*q)) {
				pick = j
				break
			}
		}
		f.press(fmt.Sprintf("%s%d_%d", prefixExamAnswer, i, pick))
	}
	assert.Contains(t, f.api.lastText(), "You answered 3 of 3 questions")

	f.press(cbExamSubmit)
	assert.Contains(t, f.api.lastText(), "2 / 3 correct")

	exams, err := f.store.ListExams(f.ctx)
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, models.Grade{Correct: 2, Total: 3}, exam.GradeExam(exams[0]))
	assert.Equal(t, f.topic.ID, exams[0].TopicID)

	f.press(cbExamRetry)
	exams, err = f.store.ListExams(f.ctx)
	require.NoError(t, err)
	require.Len(t, exams, 2)
	assert.Equal(t, exams[0].QuestionIDs(), exams[1].QuestionIDs())
	assert.Equal(t, exam.NotStarted, f.bot.state(chatID).attempt.State())
}

func TestStaleExamButtonsAreIgnored(t *testing.T) {
	f := newFixture(t, true)

	f.press(prefixExam + strconv.FormatInt(f.topic.ID, 10))
	before := len(f.api.sent)

	f.press(prefixExamAnswer + "2_0")
	assert.Equal(t, before, len(f.api.sent))
	assert.Equal(t, "", f.bot.state(chatID).attempt.Answer(2))
}

func TestQuizFlowStoresExam(t *testing.T) {
	f := newFixture(t, true)

	f.command(chatID, "/quiz")
	st := f.bot.state(chatID)
	require.NotNil(t, st.quiz)
	n := len(st.quiz.Questions)
	require.Equal(t, 3, n)

	for i := 0; i < n; i++ {
		q := st.quiz.Questions[i]
		pick := 0
		for j, o := range q.Options {
			if o == q.Correct {
				pick = j
			}
		}
		f.press(fmt.Sprintf("%s%d_%d", prefixQuizAnswer, i, pick))
	}
	assert.Contains(t, f.api.lastText(), "Quiz finished: 3 / 3 correct")
	assert.Nil(t, st.quiz)

	exams, err := f.store.ListExams(f.ctx)
	require.NoError(t, err)
	require.Len(t, exams, 1)
	assert.Equal(t, f.user.ID, exams[0].UserID)
	assert.Equal(t, models.Grade{Correct: 3, Total: 3}, exam.GradeExam(exams[0]))
}

func TestStatsShowsContinueTopic(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, f.store.CreateUserProgress(f.ctx, &models.UserProgress{
		UserID:          f.user.ID,
		VocabulaireID:   f.words[0].VocabulaireID,
		TopicID:         f.topic.ID,
		Status:          models.StatusDoing,
		PercentComplete: 33,
		StudiedCardIDs:  []int64{f.words[0].ID},
	}))

	f.command(chatID, "/stats")
	msg, ok := f.api.sent[len(f.api.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Contains(t, msg.Text, "Topics completed: 0 / 1")
	assert.Contains(t, msg.Text, "Words learned: 1")

	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotEmpty(t, kb.InlineKeyboard)
	assert.Equal(t, prefixStudy+strconv.FormatInt(f.topic.ID, 10), *kb.InlineKeyboard[0][0].CallbackData)
}

func TestSendProgressReminder(t *testing.T) {
	f := newFixture(t, true)

	require.NoError(t, f.bot.SendProgressReminder(f.user.ID, 1))
	assert.Contains(t, f.api.lastText(), "1 topic in progress")

	assert.Error(t, f.bot.SendProgressReminder(f.user.ID+100, 2))
	assert.ElementsMatch(t, []int64{f.user.ID}, f.bot.recipients())
}

func TestParseAnswer(t *testing.T) {
	idx, opt, err := parseAnswer("3_1")
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
	assert.Equal(t, 1, opt)

	idx, opt, err = parseAnswer("0_-1")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.Equal(t, -1, opt)

	_, _, err = parseAnswer("x")
	assert.Error(t, err)
}
