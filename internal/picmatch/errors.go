package picmatch

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientPool = errors.New("insufficient pair pool")
	ErrAlreadyMatched   = errors.New("pair already matched")
	ErrUnknownPair      = errors.New("pair not in round")
	ErrDuplicatePair    = errors.New("duplicate pair id")
	ErrRoundSealed      = errors.New("round already sealed")
	ErrNoActiveRound    = errors.New("no active round")
	ErrAlreadyStarted   = errors.New("session already started")
	ErrInvalidConfig    = errors.New("invalid round config")

	// ErrDoubleSeal means a round was sealed twice. It signals a locking bug
	// and is never returned from an exported engine method.
	ErrDoubleSeal = errors.New("round sealed twice")
)

// InsufficientPoolError reports a pool smaller than the round size.
type InsufficientPoolError struct {
	Have int
	Need int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("%v: have %d pairs, need %d", ErrInsufficientPool, e.Have, e.Need)
}

func (e *InsufficientPoolError) Unwrap() error { return ErrInsufficientPool }
