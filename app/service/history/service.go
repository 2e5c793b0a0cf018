package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"umate/app/service/store"

	"github.com/samber/do"
)

type Service struct {
	db *sql.DB
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		db: do.MustInvoke[*store.Service](di).DB,
	}, nil
}

// Append durably inserts one turn. Callers treat a returned error as a
// best-effort failure: it is logged and the conversation continues.
func (s *Service) Append(ctx context.Context, owner string, role Role, text string, audio []byte, contextInfo string) error {
	if owner == "" {
		return fmt.Errorf("guest turns are not persisted")
	}

	var textValue any
	if text != "" {
		textValue = text
	}

	var audioValue any
	if len(audio) > 0 {
		audioValue = audio
	}

	var contextValue any
	if contextInfo != "" {
		contextValue = contextInfo
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_history (email, role, message, audio, context_info, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, owner, string(role), textValue, audioValue, contextValue, time.Now().Unix())
	if err != nil {
		slog.Error("Failed to append chat history", "owner", owner, "role", role, "error", err)
		return fmt.Errorf("failed to append chat history: %w", err)
	}

	return nil
}

// LoadRecent returns the most recent limit turns for the owner, oldest
// first. The tail is fetched descending and re-sorted ascending; fetching
// ascending from the start would silently return the oldest turns instead.
// Guest owners always yield nothing.
func (s *Service) LoadRecent(ctx context.Context, owner string, limit int) ([]Turn, error) {
	if owner == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, role, message, audio, context_info, created_at
		FROM (
			SELECT id, email, role, message, audio, context_info, created_at
			FROM chat_history
			WHERE email = ?
			ORDER BY id DESC
			LIMIT ?
		) tail
		ORDER BY tail.id ASC
	`, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	var turns []Turn

	for rows.Next() {
		var (
			turn        Turn
			role        string
			text        sql.NullString
			contextInfo sql.NullString
			createdAt   int64
		)

		if err = rows.Scan(&turn.ID, &turn.Owner, &role, &text, &turn.Audio, &contextInfo, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat history row: %w", err)
		}

		turn.Role = Role(role)
		turn.Text = text.String
		turn.ContextInfo = contextInfo.String
		turn.CreatedAt = time.Unix(createdAt, 0)

		turns = append(turns, turn)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat history rows: %w", err)
	}

	return turns, nil
}

// Reset deletes every turn for the owner. Explicit user action only.
func (s *Service) Reset(ctx context.Context, owner string) error {
	if owner == "" {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM chat_history WHERE email = ?", owner); err != nil {
		return fmt.Errorf("failed to reset chat history: %w", err)
	}

	slog.Info("Chat history reset", "owner", owner)

	return nil
}
