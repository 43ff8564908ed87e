package engine

import (
	"slices"
	"time"

	"github.com/playperu/picmatch/internal/picmatch"
)

type SelectionKind int

const (
	SelectionIdle SelectionKind = iota
	SelectionImage
	SelectionWord
)

func (k SelectionKind) String() string {
	switch k {
	case SelectionImage:
		return "image"
	case SelectionWord:
		return "word"
	default:
		return "idle"
	}
}

// Selection is the pending tap. Only one side can be pending at a time.
type Selection struct {
	Kind SelectionKind
	ID   string
}

// Round is one timed matching challenge. Selections mutate it until it is
// sealed; a sealed round never changes again.
type Round struct {
	Number     int
	Pairs      []picmatch.Pair
	ImageOrder []string
	WordOrder  []string
	Matches    []picmatch.MatchOutcome
	Selection  Selection

	StartedAt time.Time
	Deadline  time.Time
	EndedAt   time.Time
	Reason    picmatch.EndReason

	sealed bool
}

// SelectImage makes id the pending image. Any parked word is dropped.
func (r *Round) SelectImage(id string) error {
	if err := r.checkSelectable(id); err != nil {
		return err
	}
	if r.imageMatched(id) {
		return picmatch.ErrAlreadyMatched
	}
	r.Selection = Selection{Kind: SelectionImage, ID: id}
	return nil
}

// SelectWord resolves id against the pending image and returns the outcome.
// With no pending image the word is parked and the outcome is nil.
func (r *Round) SelectWord(id string) (*picmatch.MatchOutcome, error) {
	if err := r.checkSelectable(id); err != nil {
		return nil, err
	}
	if r.wordMatched(id) {
		return nil, picmatch.ErrAlreadyMatched
	}
	if r.Selection.Kind != SelectionImage {
		r.Selection = Selection{Kind: SelectionWord, ID: id}
		return nil, nil
	}

	outcome := picmatch.MatchOutcome{
		ImageID: r.Selection.ID,
		WordID:  id,
		Correct: r.Selection.ID == id,
	}
	r.Matches = append(r.Matches, outcome)
	r.Selection = Selection{}
	return &outcome, nil
}

// Complete reports whether every pair has been resolved.
func (r *Round) Complete() bool {
	return len(r.Matches) >= len(r.Pairs)
}

func (r *Round) Sealed() bool { return r.sealed }

// Remaining is the time left before the deadline, never negative.
func (r *Round) Remaining(now time.Time) time.Duration {
	if r.sealed || !now.Before(r.Deadline) {
		return 0
	}
	return r.Deadline.Sub(now)
}

// Counts returns the number of correct and incorrect outcomes.
func (r *Round) Counts() (correct, incorrect int) {
	for _, m := range r.Matches {
		if m.Correct {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect
}

func (r *Round) seal(now time.Time, reason picmatch.EndReason) error {
	if r.sealed {
		return picmatch.ErrDoubleSeal
	}
	r.sealed = true
	r.EndedAt = now
	r.Reason = reason
	r.Selection = Selection{}
	return nil
}

func (r *Round) checkSelectable(id string) error {
	if r.sealed {
		return picmatch.ErrRoundSealed
	}
	if !slices.ContainsFunc(r.Pairs, func(p picmatch.Pair) bool { return p.ID == id }) {
		return picmatch.ErrUnknownPair
	}
	return nil
}

func (r *Round) imageMatched(id string) bool {
	return slices.ContainsFunc(r.Matches, func(m picmatch.MatchOutcome) bool { return m.ImageID == id })
}

func (r *Round) wordMatched(id string) bool {
	return slices.ContainsFunc(r.Matches, func(m picmatch.MatchOutcome) bool { return m.WordID == id })
}

func (r *Round) clone() *Round {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Pairs = slices.Clone(r.Pairs)
	cp.ImageOrder = slices.Clone(r.ImageOrder)
	cp.WordOrder = slices.Clone(r.WordOrder)
	cp.Matches = slices.Clone(r.Matches)
	return &cp
}
