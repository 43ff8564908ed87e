// Package picmatch defines the core domain types of the picture matching game.
// It has no dependencies outside the standard library.
package picmatch

import "time"

// Pair is one image with its label. A pair only matches itself.
type Pair struct {
	ID        string
	VisualRef string
	Label     string
}

type MatchOutcome struct {
	ImageID string
	WordID  string
	Correct bool
}

type EndReason string

const (
	EndCompleted EndReason = "completed"
	EndExpired   EndReason = "expired"
)

type Phase string

const (
	PhaseAwaitingStart   Phase = "awaiting_start"
	PhaseRoundActive     Phase = "round_active"
	PhaseSessionComplete Phase = "session_complete"
	PhaseAbandoned       Phase = "abandoned"
)

// SessionResult aggregates every outcome of a finished session.
type SessionResult struct {
	SessionID      string
	TotalTime      time.Duration
	TotalCorrect   int
	TotalIncorrect int
	Score          int
	Rounds         int
	CompletedAt    time.Time
}
