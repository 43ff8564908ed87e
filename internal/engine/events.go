package engine

import (
	"time"

	"github.com/playperu/picmatch/internal/picmatch"
)

type EventType string

const (
	EventRoundStarted    EventType = "round_started"
	EventTick            EventType = "tick"
	EventMatch           EventType = "match"
	EventRoundSealed     EventType = "round_sealed"
	EventSessionComplete EventType = "session_complete"
	EventScoreSaved      EventType = "score_saved"
	EventScoreSaveFailed EventType = "score_save_failed"
	EventAbandoned       EventType = "abandoned"
)

// Event is what the controller tells the presentation layer.
type Event struct {
	Type      EventType
	SessionID string
	Round     int
	Score     int
	Remaining time.Duration
	Outcome   *picmatch.MatchOutcome
	Reason    picmatch.EndReason
	Result    *picmatch.SessionResult
	Err       string
}

// Observer receives controller events. It is never called with the
// controller lock held, so it may call back into the controller.
type Observer func(Event)
