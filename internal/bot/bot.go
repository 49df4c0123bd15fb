// Package bot is the Telegram front-end of the trainer.
package bot

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/vocabtrainer/internal/backend"
	"github.com/example/vocabtrainer/internal/config"
	"github.com/example/vocabtrainer/internal/exam"
	"github.com/example/vocabtrainer/internal/progress"
	"github.com/example/vocabtrainer/internal/scheduler"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// sender is the part of the Telegram API the bot uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

// chatState is the per-chat learning state. Updates of one chat are handled one at a time.
type chatState struct {
	mu sync.Mutex

	study *progress.Session

	quiz        *exam.Quiz
	quizAnswers map[int64]string
	quizIdx     int

	attempt    *exam.Attempt
	attemptIdx int

	awaitingUpload bool
}

// Bot represents the Telegram bot application
type Bot struct {
	api       sender
	token     string
	cfg       *config.Config
	backend   backend.Backend
	tracker   *progress.Tracker
	engine    *exam.Engine
	scheduler *scheduler.Scheduler

	httpClient *http.Client

	rndMu sync.Mutex
	rnd   *rand.Rand

	mu     sync.Mutex
	states map[int64]*chatState
	// Telegram user ID -> backend user ID, seeded from TELEGRAM_USER_MAP and /login
	users map[int64]int64
}

// New creates a new bot instance
func New(cfg *config.Config, be backend.Backend) (*Bot, error) {
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	return newBot(cfg, be, nil), nil
}

func newBot(cfg *config.Config, be backend.Backend, api sender) *Bot {
	b := &Bot{
		api:        api,
		token:      cfg.TelegramToken,
		cfg:        cfg,
		backend:    be,
		tracker:    progress.NewTracker(be),
		engine:     exam.NewEngine(be, be, nil),
		httpClient: &http.Client{Timeout: cfg.APITimeout},
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
		states:     make(map[int64]*chatState),
		users:      make(map[int64]int64),
	}
	for tgID, userID := range cfg.UserMap {
		b.users[tgID] = userID
	}
	if cfg.SchedulerEnabled {
		b.scheduler = scheduler.New(cfg, be, b, b.recipients)
	}
	return b
}

// Start connects to Telegram and handles updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}
	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	if b.scheduler != nil {
		if err := b.scheduler.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		log.Println("Reminder scheduler started successfully")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := botAPI.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			botAPI.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	log.Println("Bot stopped")
}

// isAdmin checks if a user is an admin
func (b *Bot) isAdmin(telegramID int64) bool {
	return b.cfg.AdminUserIDs[telegramID]
}

// newRand derives a source for one chat operation; chats are handled concurrently
func (b *Bot) newRand() *rand.Rand {
	b.rndMu.Lock()
	defer b.rndMu.Unlock()
	return rand.New(rand.NewSource(b.rnd.Int63()))
}

func (b *Bot) state(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.states[chatID]
	if !ok {
		st = &chatState{}
		b.states[chatID] = st
	}
	return st
}

// backendUser resolves the backend account of a Telegram user
func (b *Bot) backendUser(telegramID int64) (int64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.users[telegramID]
	return id, ok
}

func (b *Bot) setBackendUser(telegramID, userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[telegramID] = userID
}

// recipients lists every backend user the bot can reach
func (b *Bot) recipients() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[int64]bool)
	var ids []int64
	for _, userID := range b.users {
		if !seen[userID] {
			seen[userID] = true
			ids = append(ids, userID)
		}
	}
	return ids
}

// SendProgressReminder implements the scheduler.Notifier interface
func (b *Bot) SendProgressReminder(userID int64, inProgressTopics int) error {
	b.mu.Lock()
	var chats []int64
	for tgID, id := range b.users {
		if id == userID {
			// private chat ID equals the Telegram user ID
			chats = append(chats, tgID)
		}
	}
	b.mu.Unlock()

	if len(chats) == 0 {
		return fmt.Errorf("no chat for user %d", userID)
	}

	topicForm := "topics"
	if inProgressTopics == 1 {
		topicForm = "topic"
	}
	text := fmt.Sprintf("You have %d %s in progress. Keep going! 💪", inProgressTopics, topicForm)

	var lastErr error
	for _, chatID := range chats {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "📚 Topics", CallbackData: cbTopics}}})
		if _, err := b.api.Send(msg); err != nil {
			log.Printf("Error sending reminder to user %d: %v", userID, err)
			lastErr = err
			continue
		}
		log.Printf("Successfully sent reminder to user %d for %d topics", userID, inProgressTopics)
	}
	return lastErr
}

// send sends a message and logs failures
func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// notice reports a failed operation to the user; the operation is abandoned
func (b *Bot) notice(chatID int64, text string, err error) {
	if err != nil {
		log.Printf("Chat %d: %s: %v", chatID, text, err)
	}
	msg := tgbotapi.NewMessage(chatID, "⚠️ "+text)
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	b.send(msg)
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		st := b.state(update.Message.Chat.ID)
		st.mu.Lock()
		defer st.mu.Unlock()
		b.handleMessage(ctx, st, update.Message)
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		st := b.state(update.CallbackQuery.Message.Chat.ID)
		st.mu.Lock()
		defer st.mu.Unlock()
		b.handleCallbackQuery(ctx, st, update.CallbackQuery)
	}
}
