// Package database is the embedded SQL implementation of backend.Backend.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/example/vocabtrainer/internal/backend"
)

// Supported database types
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

// Store groups the repositories over one connection
type Store struct {
	*TopicRepository
	*VocabulaireRepository
	*QuestionRepository
	*UserProgressRepository
	*ExamRepository
	*UserRepository
	*ExamQuestionRepository

	db *sqlx.DB
}

var _ backend.Backend = (*Store)(nil)

// Connect opens the database and initializes the schema
func Connect(dbType, dsn string) (*Store, error) {
	driver, err := driverName(dbType)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite3" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		db.SetMaxOpenConns(1) // SQLite doesn't support multiple writers
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return NewStore(db), nil
}

// NewStore wraps an open connection whose schema is already in place
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		TopicRepository:        &TopicRepository{db: db},
		VocabulaireRepository:  &VocabulaireRepository{db: db},
		QuestionRepository:     &QuestionRepository{db: db},
		UserProgressRepository: &UserProgressRepository{db: db},
		ExamRepository:         &ExamRepository{db: db},
		UserRepository:         &UserRepository{db: db},
		ExamQuestionRepository: &ExamQuestionRepository{db: db},
		db:                     db,
	}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func driverName(dbType string) (string, error) {
	switch strings.ToLower(dbType) {
	case TypeSQLite, "sqlite3", "":
		return "sqlite3", nil
	case TypePostgres, "postgresql":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", dbType)
	}
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == "postgres" {
		pk = "BIGSERIAL PRIMARY KEY"
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"topics", `
			CREATE TABLE IF NOT EXISTS topics (
				id %s,
				title TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT ''
			)`},
		{"vocabulaires", `
			CREATE TABLE IF NOT EXISTS vocabulaires (
				id %s,
				topic_id BIGINT NOT NULL REFERENCES topics(id) ON DELETE CASCADE
			)`},
		{"vocabulaire_questions", `
			CREATE TABLE IF NOT EXISTS vocabulaire_questions (
				id %s,
				title_vi TEXT NOT NULL DEFAULT '',
				title_en TEXT NOT NULL DEFAULT '',
				description_vi TEXT NOT NULL DEFAULT '',
				description_en TEXT NOT NULL DEFAULT '',
				audio_vi TEXT NOT NULL DEFAULT '',
				audio_en TEXT NOT NULL DEFAULT '',
				image TEXT NOT NULL DEFAULT '',
				vocabulaire_id BIGINT NOT NULL REFERENCES vocabulaires(id) ON DELETE CASCADE
			)`},
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id %s,
				email TEXT NOT NULL UNIQUE,
				password TEXT NOT NULL DEFAULT '',
				role TEXT NOT NULL DEFAULT 'user'
			)`},
		{"user_vocabulaires", `
			CREATE TABLE IF NOT EXISTS user_vocabulaires (
				id %s,
				user_id BIGINT NOT NULL,
				vocabulaire_id BIGINT NOT NULL DEFAULT 0,
				topic_id BIGINT NOT NULL DEFAULT 0,
				status TEXT NOT NULL DEFAULT 'start',
				percent_complete INTEGER NOT NULL DEFAULT 0,
				vocabulaire_question_list_id TEXT NOT NULL DEFAULT '[]'
			)`},
		{"user_exams", `
			CREATE TABLE IF NOT EXISTS user_exams (
				id %s,
				user_id BIGINT NOT NULL DEFAULT 0,
				list TEXT NOT NULL DEFAULT '[]',
				name TEXT NOT NULL DEFAULT '',
				topic_id BIGINT NOT NULL DEFAULT 0
			)`},
		{"exam_questions", `
			CREATE TABLE IF NOT EXISTS exam_questions (
				id %s,
				vocabulaire_question_id BIGINT NOT NULL,
				answer TEXT NOT NULL DEFAULT '',
				is_correct BOOLEAN NOT NULL DEFAULT FALSE
			)`},
	}

	for _, t := range tables {
		if _, err := db.Exec(fmt.Sprintf(t.ddl, pk)); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}
	return nil
}

// insertReturningID runs an INSERT ... RETURNING id
func insertReturningID(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := db.QueryRowxContext(ctx, db.Rebind(query), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// notFound maps sql.ErrNoRows to backend.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return backend.ErrNotFound
	}
	return err
}

// checkAffected returns backend.ErrNotFound when no row was touched
func checkAffected(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return backend.ErrNotFound
	}
	return nil
}
