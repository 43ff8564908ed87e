// Package engine runs picture matching rounds: it deals pairs into rounds,
// resolves image and word selections, keeps score, and advances rounds under
// a countdown.
package engine

import (
	"fmt"
	"slices"

	"github.com/playperu/picmatch/internal/picmatch"
)

// Shuffler is the random source for dealing rounds. *rand.Rand from
// math/rand/v2 satisfies it.
type Shuffler interface {
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Generate deals a new round of pairsPerRound distinct pairs from pool.
// The image and word columns are shuffled independently. pool itself is
// never reordered.
func Generate(pool []picmatch.Pair, pairsPerRound int, rng Shuffler) (*Round, error) {
	if pairsPerRound < 1 {
		return nil, fmt.Errorf("%w: %d pairs per round", picmatch.ErrInvalidConfig, pairsPerRound)
	}
	if len(pool) < pairsPerRound {
		return nil, &picmatch.InsufficientPoolError{Have: len(pool), Need: pairsPerRound}
	}

	seen := make(map[string]struct{}, len(pool))
	for _, p := range pool {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", picmatch.ErrDuplicatePair, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	// Partial Fisher-Yates: after i steps the first i slots are a uniform
	// sample without replacement.
	deck := slices.Clone(pool)
	for i := 0; i < pairsPerRound; i++ {
		j := i + rng.IntN(len(deck)-i)
		deck[i], deck[j] = deck[j], deck[i]
	}
	pairs := deck[:pairsPerRound:pairsPerRound]

	r := &Round{
		Pairs:      pairs,
		ImageOrder: pairIDs(pairs),
		WordOrder:  pairIDs(pairs),
	}
	rng.Shuffle(len(r.ImageOrder), func(i, j int) {
		r.ImageOrder[i], r.ImageOrder[j] = r.ImageOrder[j], r.ImageOrder[i]
	})
	rng.Shuffle(len(r.WordOrder), func(i, j int) {
		r.WordOrder[i], r.WordOrder[j] = r.WordOrder[j], r.WordOrder[i]
	})
	return r, nil
}

func pairIDs(pairs []picmatch.Pair) []string {
	ids := make([]string, len(pairs))
	for i, p := range pairs {
		ids[i] = p.ID
	}
	return ids
}
