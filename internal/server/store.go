package server

import (
	"context"
	"errors"
	"time"

	"github.com/playperu/picmatch/internal/picmatch"
)

var ErrNotFound = errors.New("not found")

// ScoreRecord is one stored session result.
type ScoreRecord struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	TimeSeconds float64   `json:"time"`
	Correct     int       `json:"correct"`
	Incorrect   int       `json:"incorrect"`
	Score       int       `json:"score"`
	Rounds      int       `json:"rounds"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ScoreStore persists finished sessions. It doubles as the engine's score
// sink.
type ScoreStore interface {
	SaveResult(ctx context.Context, res picmatch.SessionResult) error
	ListScores(ctx context.Context, limit int) ([]ScoreRecord, error)
	GetScore(ctx context.Context, id string) (ScoreRecord, error)
}
