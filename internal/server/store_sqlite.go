package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/playperu/picmatch/internal/picmatch"
)

// createdAtLayout sorts lexically in time order.
const createdAtLayout = "2006-01-02T15:04:05.000Z"

// ScoreDocStore implements ScoreStore on a single table with a JSONB data
// column.
type ScoreDocStore struct {
	db *sql.DB
}

func NewScoreStore(ctx context.Context, db *sql.DB) (*ScoreDocStore, error) {
	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id         TEXT PRIMARY KEY,
			session_id TEXT UNIQUE NOT NULL,
			created_at TEXT NOT NULL,
			data       JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS scores_created_at ON scores (created_at)`,
	} {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating table: %w", err)
		}
	}

	return &ScoreDocStore{db: db}, nil
}

// SaveResult stores res once; a second save for the same session is a
// no-op.
func (s *ScoreDocStore) SaveResult(ctx context.Context, res picmatch.SessionResult) error {
	createdAt := res.CompletedAt.UTC()
	rec := ScoreRecord{
		ID:          uuid.NewString(),
		SessionID:   res.SessionID,
		TimeSeconds: res.TotalTime.Seconds(),
		Correct:     res.TotalCorrect,
		Incorrect:   res.TotalIncorrect,
		Score:       res.Score,
		Rounds:      res.Rounds,
		CreatedAt:   createdAt,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scores (id, session_id, created_at, data) VALUES (?, ?, ?, jsonb(?))
		 ON CONFLICT(session_id) DO NOTHING`,
		rec.ID, rec.SessionID, createdAt.Format(createdAtLayout), string(data),
	)
	if err != nil {
		return fmt.Errorf("inserting score for session %s: %w", res.SessionID, err)
	}
	return nil
}

// ListScores returns up to limit records, newest first.
func (s *ScoreDocStore) ListScores(ctx context.Context, limit int) ([]ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM scores ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []ScoreRecord{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var rec ScoreRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *ScoreDocStore) GetScore(ctx context.Context, id string) (ScoreRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT json(data) FROM scores WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ScoreRecord{}, ErrNotFound
	}
	if err != nil {
		return ScoreRecord{}, err
	}

	var rec ScoreRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return ScoreRecord{}, err
	}
	return rec, nil
}

// Ping lets the store serve as a health check.
func (s *ScoreDocStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var _ ScoreStore = (*ScoreDocStore)(nil)
