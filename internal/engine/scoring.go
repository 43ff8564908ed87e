package engine

import "github.com/playperu/picmatch/internal/picmatch"

// Policy turns match outcomes into points.
type Policy struct {
	Reward  int
	Penalty int
}

var DefaultPolicy = Policy{Reward: 10, Penalty: 5}

// Apply returns the score after outcome. The score never drops below zero.
func (p Policy) Apply(score int, outcome picmatch.MatchOutcome) int {
	if outcome.Correct {
		return score + p.Reward
	}
	return max(0, score-p.Penalty)
}
