package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"umate/app/config"

	"github.com/samber/do"
	_ "modernc.org/sqlite"
)

var _ do.Shutdownable = (*Service)(nil)

// Service owns the sqlite handle shared by the history and catalog services.
type Service struct {
	DB *sql.DB
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return Open(cfg.DB.Path)
}

func Open(dbPath string) (*Service, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Service{DB: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *Service) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS chat_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		message TEXT,
		audio BLOB,
		context_info TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_history_email ON chat_history(email, id);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		gender TEXT,
		birthday TEXT,
		phone_plan INTEGER REFERENCES plan_info(id)
	);

	CREATE TABLE IF NOT EXISTS plan_info (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		monthly_fee INTEGER NOT NULL,
		call_info TEXT,
		call_info_detail TEXT,
		sms_info TEXT,
		data_info TEXT,
		data_info_detail TEXT,
		share_data TEXT,
		age_group TEXT,
		user_count INTEGER DEFAULT 0,
		review_user_count INTEGER DEFAULT 0,
		received_star_count INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS benefit_info (
		benefit_id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plan_benefit (
		plan_id INTEGER NOT NULL REFERENCES plan_info(id),
		benefit_id INTEGER NOT NULL REFERENCES benefit_info(benefit_id),
		PRIMARY KEY (plan_id, benefit_id)
	);

	CREATE TABLE IF NOT EXISTS plan_review (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plan_id INTEGER NOT NULL REFERENCES plan_info(id),
		user_id INTEGER NOT NULL REFERENCES users(id),
		star_rating INTEGER NOT NULL,
		review_content TEXT,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT,
		feature TEXT,
		benefit TEXT,
		yn INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS services (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		service_name TEXT NOT NULL,
		description TEXT,
		features TEXT,
		usage_guide TEXT,
		category TEXT NOT NULL,
		contact_info TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS faq (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		category TEXT NOT NULL,
		keywords TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		frequency INTEGER DEFAULT 0,
		updated_at INTEGER NOT NULL
	);
	`

	if _, err := s.DB.Exec(query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Service) Shutdown() error {
	return s.DB.Close()
}
