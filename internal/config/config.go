package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend kinds
const (
	BackendAPI = "api"
	BackendSQL = "sql"
)

// Defaults for reminder hours
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 21
)

// Config holds the application settings read from the environment
type Config struct {
	// Which collaborator implementation to use: "api" or "sql"
	Backend    string
	APIBaseURL string
	APITimeout time.Duration

	// SQL store, used when Backend is "sql"
	DBType string
	DBDSN  string

	TelegramToken string
	AdminUserIDs  map[int64]bool
	// Telegram user ID -> backend user ID
	UserMap map[int64]int64

	SchedulerEnabled      bool
	NotificationStartHour int
	NotificationEndHour   int

	// Number of questions in a quick quiz
	QuizSize int
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Backend:               BackendAPI,
		APIBaseURL:            "http://localhost:8080/api",
		APITimeout:            10 * time.Second,
		DBType:                "sqlite",
		DBDSN:                 "data/vocabtrainer.db",
		AdminUserIDs:          map[int64]bool{},
		UserMap:               map[int64]int64{},
		SchedulerEnabled:      true,
		NotificationStartHour: DefaultNotificationStartHour,
		NotificationEndHour:   DefaultNotificationEndHour,
		QuizSize:              10,
	}
}

// Load reads .env (if present) and the process environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from a lookup function
func FromEnv(lookup func(string) (string, bool)) *Config {
	cfg := Default()
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg.Backend = strings.ToLower(get("BACKEND", cfg.Backend))
	cfg.APIBaseURL = strings.TrimRight(get("API_BASE_URL", cfg.APIBaseURL), "/")
	if v := get("API_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Printf("Warning: invalid API_TIMEOUT %q, using %s", v, cfg.APITimeout)
		} else {
			cfg.APITimeout = d
		}
	}

	cfg.DBType = strings.ToLower(get("DB_TYPE", cfg.DBType))
	cfg.DBDSN = get("DB_DSN", cfg.DBDSN)
	cfg.TelegramToken = get("TELEGRAM_BOT_TOKEN", "")
	cfg.SchedulerEnabled = get("ENABLE_SCHEDULER", "true") != "false"

	cfg.NotificationStartHour = hourOrDefault(get("NOTIFICATION_START_HOUR", ""), cfg.NotificationStartHour)
	cfg.NotificationEndHour = hourOrDefault(get("NOTIFICATION_END_HOUR", ""), cfg.NotificationEndHour)

	if v := get("QUIZ_SIZE", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Printf("Warning: invalid QUIZ_SIZE %q, using %d", v, cfg.QuizSize)
		} else {
			cfg.QuizSize = n
		}
	}

	for _, idStr := range splitList(get("ADMIN_USER_IDS", "")) {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			log.Printf("Warning: Invalid admin user ID: %s", idStr)
			continue
		}
		cfg.AdminUserIDs[id] = true
	}

	// TELEGRAM_USER_MAP=12345:1,67890:2
	for _, pair := range splitList(get("TELEGRAM_USER_MAP", "")) {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			log.Printf("Warning: Invalid user mapping: %s", pair)
			continue
		}
		tgID, err1 := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
		userID, err2 := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
		if err1 != nil || err2 != nil {
			log.Printf("Warning: Invalid user mapping: %s", pair)
			continue
		}
		cfg.UserMap[tgID] = userID
	}

	return cfg
}

func hourOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	h, err := strconv.Atoi(s)
	if err != nil || h < 0 || h > 23 {
		log.Printf("Warning: invalid notification hour %q, using %d", s, def)
		return def
	}
	return h
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
