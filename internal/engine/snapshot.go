package engine

import (
	"time"

	"github.com/playperu/picmatch/internal/picmatch"
)

// Snapshot is a copy of the session state. Nothing in it aliases the
// controller's own data.
type Snapshot struct {
	SessionID   string
	Phase       picmatch.Phase
	RoundIndex  int
	TotalRounds int
	Score       int
	Round       *Round
	Remaining   time.Duration
	History     []*Round
	Result      *picmatch.SessionResult
	Saved       bool
	SaveErr     string
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		SessionID:   c.id,
		Phase:       c.phase,
		RoundIndex:  c.roundIndex,
		TotalRounds: c.cfg.TotalRounds,
		Score:       c.score,
		History:     make([]*Round, len(c.history)),
		Saved:       c.saved,
	}
	if c.round != nil {
		s.Round = c.round.clone()
		s.Remaining = c.round.Remaining(c.clock.Now())
	}
	for i, r := range c.history {
		s.History[i] = r.clone()
	}
	if c.result != nil {
		res := *c.result
		s.Result = &res
	}
	if c.saveErr != nil {
		s.SaveErr = c.saveErr.Error()
	}
	return s
}
