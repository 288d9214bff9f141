// Package history persists the conversation turn log in Postgres. It is an
// optional component: the assistant runs without it when no DSN is
// configured.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"asistan/internal/domain"
)

var ErrTurnNotFound = errors.New("turn not found")

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS turns (
			turn_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			terminal_id TEXT NOT NULL DEFAULT '',
			user_text TEXT NOT NULL,
			reply TEXT NOT NULL,
			intent TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			path TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session_created ON turns(session_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_created ON turns(created_at);`,
	}

	for _, q := range queries {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) AppendTurn(ctx context.Context, turn domain.ConversationTurn) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO turns(turn_id, session_id, terminal_id, user_text, reply, intent, confidence, path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (turn_id) DO NOTHING
	`, turn.TurnID, turn.SessionID, turn.TerminalID, turn.UserText, turn.Reply,
		string(turn.Intent), turn.Confidence, string(turn.Path), turn.CreatedAt)
	return err
}

func (s *Store) GetTurn(ctx context.Context, turnID string) (domain.ConversationTurn, error) {
	var turn domain.ConversationTurn
	var intent, path string
	var createdAt time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT turn_id, session_id, terminal_id, user_text, reply, intent, confidence, path, created_at
		FROM turns
		WHERE turn_id=$1
	`, turnID).Scan(
		&turn.TurnID,
		&turn.SessionID,
		&turn.TerminalID,
		&turn.UserText,
		&turn.Reply,
		&intent,
		&turn.Confidence,
		&path,
		&createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ConversationTurn{}, ErrTurnNotFound
	}
	if err != nil {
		return domain.ConversationTurn{}, err
	}
	turn.Intent = domain.Intent(intent)
	turn.Path = domain.ResolutionPath(path)
	turn.CreatedAt = createdAt.UTC()
	return turn, nil
}

// RecentTurns returns up to limit turns, newest first. An empty sessionID
// spans all sessions.
func (s *Store) RecentTurns(ctx context.Context, sessionID string, limit int) ([]domain.ConversationTurn, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows pgx.Rows
	var err error
	if sessionID == "" {
		rows, err = s.pool.Query(ctx, `
			SELECT turn_id, session_id, terminal_id, user_text, reply, intent, confidence, path, created_at
			FROM turns
			ORDER BY created_at DESC
			LIMIT $1
		`, limit)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT turn_id, session_id, terminal_id, user_text, reply, intent, confidence, path, created_at
			FROM turns
			WHERE session_id=$1
			ORDER BY created_at DESC
			LIMIT $2
		`, sessionID, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []domain.ConversationTurn
	for rows.Next() {
		var turn domain.ConversationTurn
		var intent, path string
		var createdAt time.Time
		if err := rows.Scan(
			&turn.TurnID,
			&turn.SessionID,
			&turn.TerminalID,
			&turn.UserText,
			&turn.Reply,
			&intent,
			&turn.Confidence,
			&path,
			&createdAt,
		); err != nil {
			return nil, err
		}
		turn.Intent = domain.Intent(intent)
		turn.Path = domain.ResolutionPath(path)
		turn.CreatedAt = createdAt.UTC()
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

func (s *Store) CountTurns(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM turns`).Scan(&count)
	return count, err
}

// PathCounts reports how many turns each resolution path produced.
func (s *Store) PathCounts(ctx context.Context) (map[domain.ResolutionPath]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT path, COUNT(*) FROM turns GROUP BY path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ResolutionPath]int)
	for rows.Next() {
		var path string
		var count int
		if err := rows.Scan(&path, &count); err != nil {
			return nil, err
		}
		counts[domain.ResolutionPath(path)] = count
	}
	return counts, rows.Err()
}
