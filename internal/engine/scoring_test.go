package engine

import (
	"testing"

	"github.com/playperu/picmatch/internal/picmatch"
)

func TestPolicyApply(t *testing.T) {
	correct := picmatch.MatchOutcome{ImageID: "bear", WordID: "bear", Correct: true}
	wrong := picmatch.MatchOutcome{ImageID: "bear", WordID: "lion"}

	tests := []struct {
		name    string
		score   int
		outcome picmatch.MatchOutcome
		want    int
	}{
		{"correct from zero", 0, correct, 10},
		{"correct adds ten", 25, correct, 35},
		{"wrong subtracts five", 10, wrong, 5},
		{"wrong floors at zero", 3, wrong, 0},
		{"wrong at zero stays zero", 0, wrong, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultPolicy.Apply(tt.score, tt.outcome); got != tt.want {
				t.Errorf("Apply(%d) = %d, want %d", tt.score, got, tt.want)
			}
		})
	}
}

func TestPolicyNeverNegative(t *testing.T) {
	score := 0
	for i := 0; i < 50; i++ {
		outcome := picmatch.MatchOutcome{Correct: i%7 == 0}
		next := DefaultPolicy.Apply(score, outcome)
		if outcome.Correct && next != score+10 {
			t.Fatalf("step %d: correct %d -> %d", i, score, next)
		}
		if !outcome.Correct && next != max(0, score-5) {
			t.Fatalf("step %d: wrong %d -> %d", i, score, next)
		}
		if next < 0 {
			t.Fatalf("step %d: negative score %d", i, next)
		}
		score = next
	}
}
