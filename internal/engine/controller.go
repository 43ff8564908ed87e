package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/playperu/picmatch/internal/picmatch"
)

const saveTimeout = 10 * time.Second

// ScoreSink stores finished sessions. It is called at most once per session
// and never retried.
type ScoreSink interface {
	SaveResult(ctx context.Context, res picmatch.SessionResult) error
}

type Config struct {
	PairsPerRound int
	TotalRounds   int
	RoundDuration time.Duration
	TickInterval  time.Duration
	Policy        Policy
}

func (c Config) Validate() error {
	switch {
	case c.PairsPerRound < 1:
		return fmt.Errorf("%w: %d pairs per round", picmatch.ErrInvalidConfig, c.PairsPerRound)
	case c.TotalRounds < 1:
		return fmt.Errorf("%w: %d rounds", picmatch.ErrInvalidConfig, c.TotalRounds)
	case c.RoundDuration <= 0:
		return fmt.Errorf("%w: round duration %s", picmatch.ErrInvalidConfig, c.RoundDuration)
	case c.TickInterval <= 0:
		return fmt.Errorf("%w: tick interval %s", picmatch.ErrInvalidConfig, c.TickInterval)
	}
	return nil
}

type Option func(*Controller)

func WithClock(clock clockwork.Clock) Option { return func(c *Controller) { c.clock = clock } }
func WithRand(rng Shuffler) Option           { return func(c *Controller) { c.rng = rng } }
func WithSink(sink ScoreSink) Option         { return func(c *Controller) { c.sink = sink } }
func WithObserver(fn Observer) Option        { return func(c *Controller) { c.observe = fn } }
func WithLogger(l *slog.Logger) Option       { return func(c *Controller) { c.logger = l } }
func WithSessionID(id string) Option         { return func(c *Controller) { c.id = id } }

// WithSaveGroup counts the result save in wg so a caller can wait for it
// before closing the sink.
func WithSaveGroup(wg *sync.WaitGroup) Option { return func(c *Controller) { c.saves = wg } }

// Controller owns one play session: the rounds, the running score and the
// round timer. All state changes happen under mu, so selections and ticks
// never interleave.
type Controller struct {
	id      string
	cfg     Config
	pool    []picmatch.Pair
	clock   clockwork.Clock
	rng     Shuffler
	sink    ScoreSink
	observe Observer
	logger  *slog.Logger
	saves   *sync.WaitGroup

	mu         sync.Mutex
	phase      picmatch.Phase
	roundIndex int
	score      int
	round      *Round
	history    []*Round
	startedAt  time.Time
	lastActive time.Time
	result     *picmatch.SessionResult
	saved      bool
	saveErr    error
	pending    []Event

	timer      *roundTimer
	gen        uint64
	liveTimers int
}

func New(pool []picmatch.Pair, cfg Config, opts ...Option) (*Controller, error) {
	if cfg.Policy == (Policy{}) {
		cfg.Policy = DefaultPolicy
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = time.Second
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		cfg:    cfg,
		pool:   slices.Clone(pool),
		clock:  clockwork.NewRealClock(),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger: slog.Default(),
		phase:  picmatch.PhaseAwaitingStart,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("session_id", c.id)
	c.lastActive = c.clock.Now()
	return c, nil
}

func (c *Controller) ID() string { return c.id }

// Start deals the first round and arms its timer.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.phase != picmatch.PhaseAwaitingStart {
		c.mu.Unlock()
		return picmatch.ErrAlreadyStarted
	}
	c.startedAt = c.clock.Now()
	err := c.startRoundLocked(c.startedAt)
	events := c.drainLocked()
	c.mu.Unlock()

	c.emit(events)
	return err
}

// Tick expires the active round once now reaches its deadline. Ticks after
// the round is sealed do nothing.
func (c *Controller) Tick(now time.Time) {
	c.mu.Lock()
	c.tickLocked(now)
	events := c.drainLocked()
	c.mu.Unlock()

	c.emit(events)
}

func (c *Controller) SelectImage(id string) error {
	c.mu.Lock()
	err := c.selectLocked(func(r *Round) error { return r.SelectImage(id) })
	events := c.drainLocked()
	c.mu.Unlock()

	c.emit(events)
	return err
}

// SelectWord resolves the word against the pending image. The returned
// outcome is nil when no image was pending.
func (c *Controller) SelectWord(id string) (*picmatch.MatchOutcome, error) {
	var outcome *picmatch.MatchOutcome

	c.mu.Lock()
	err := c.selectLocked(func(r *Round) error {
		var err error
		outcome, err = r.SelectWord(id)
		return err
	})
	if err == nil && outcome != nil {
		c.score = c.cfg.Policy.Apply(c.score, *outcome)
		c.pending = append(c.pending, Event{
			Type:    EventMatch,
			Round:   c.round.Number,
			Score:   c.score,
			Outcome: outcome,
		})
		if c.round.Complete() {
			c.finishRoundLocked(c.clock.Now(), picmatch.EndCompleted)
		}
	}
	events := c.drainLocked()
	c.mu.Unlock()

	c.emit(events)
	return outcome, err
}

// Abandon stops the session without producing a result.
func (c *Controller) Abandon() {
	c.mu.Lock()
	if c.phase == picmatch.PhaseSessionComplete || c.phase == picmatch.PhaseAbandoned {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	c.phase = picmatch.PhaseAbandoned
	c.lastActive = c.clock.Now()
	c.pending = append(c.pending, Event{Type: EventAbandoned, Round: c.roundIndex, Score: c.score})
	events := c.drainLocked()
	c.mu.Unlock()

	c.logger.Info("session abandoned", "round", c.roundIndex)
	c.emit(events)
}

// Done reports whether the session is complete or abandoned.
func (c *Controller) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == picmatch.PhaseSessionComplete || c.phase == picmatch.PhaseAbandoned
}

func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// LiveTimers is the number of round timers currently armed. It is one
// while a round is active and zero otherwise.
func (c *Controller) LiveTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveTimers
}

func (c *Controller) selectLocked(apply func(*Round) error) error {
	if c.phase != picmatch.PhaseRoundActive || c.round == nil {
		return picmatch.ErrNoActiveRound
	}
	now := c.clock.Now()
	c.lastActive = now
	if !now.Before(c.round.Deadline) {
		c.finishRoundLocked(now, picmatch.EndExpired)
		return picmatch.ErrRoundSealed
	}
	return apply(c.round)
}

func (c *Controller) startRoundLocked(now time.Time) error {
	r, err := Generate(c.pool, c.cfg.PairsPerRound, c.rng)
	if err != nil {
		return fmt.Errorf("starting round %d: %w", c.roundIndex+1, err)
	}

	r.Number = c.roundIndex
	r.StartedAt = now
	r.Deadline = now.Add(c.cfg.RoundDuration)

	c.round = r
	c.phase = picmatch.PhaseRoundActive
	c.lastActive = now
	c.armTimerLocked()

	c.logger.Debug("round started", "round", r.Number, "deadline", r.Deadline)
	c.pending = append(c.pending, Event{
		Type:      EventRoundStarted,
		Round:     r.Number,
		Score:     c.score,
		Remaining: c.cfg.RoundDuration,
	})
	return nil
}

func (c *Controller) tickLocked(now time.Time) {
	if c.phase != picmatch.PhaseRoundActive || c.round == nil || c.round.Sealed() {
		return
	}
	if now.Before(c.round.Deadline) {
		c.pending = append(c.pending, Event{
			Type:      EventTick,
			Round:     c.round.Number,
			Score:     c.score,
			Remaining: c.round.Remaining(now),
		})
		return
	}
	c.finishRoundLocked(now, picmatch.EndExpired)
}

// finishRoundLocked seals the active round and either deals the next one or
// completes the session. Completion and expiry both end up here, stamped
// with the time that decided them.
func (c *Controller) finishRoundLocked(now time.Time, reason picmatch.EndReason) {
	if err := c.round.seal(now, reason); err != nil {
		c.logger.Error("round seal guard tripped", "round", c.round.Number, "error", err)
		return
	}
	c.stopTimerLocked()
	c.history = append(c.history, c.round)

	correct, incorrect := c.round.Counts()
	c.logger.Debug("round sealed", "round", c.round.Number, "reason", reason,
		"correct", correct, "incorrect", incorrect)
	c.pending = append(c.pending, Event{
		Type:   EventRoundSealed,
		Round:  c.round.Number,
		Score:  c.score,
		Reason: reason,
	})

	if c.roundIndex < c.cfg.TotalRounds-1 {
		c.roundIndex++
		if err := c.startRoundLocked(now); err != nil {
			c.logger.Error("dealing next round failed", "error", err)
			c.completeLocked(now)
		}
		return
	}
	c.completeLocked(now)
}

func (c *Controller) completeLocked(now time.Time) {
	res := picmatch.SessionResult{
		SessionID:   c.id,
		TotalTime:   now.Sub(c.startedAt),
		Score:       c.score,
		Rounds:      len(c.history),
		CompletedAt: now,
	}
	for _, r := range c.history {
		correct, incorrect := r.Counts()
		res.TotalCorrect += correct
		res.TotalIncorrect += incorrect
	}

	c.phase = picmatch.PhaseSessionComplete
	c.result = &res
	c.logger.Info("session complete",
		"correct", res.TotalCorrect,
		"incorrect", res.TotalIncorrect,
		"score", res.Score,
		"total_time", res.TotalTime,
	)
	c.pending = append(c.pending, Event{
		Type:   EventSessionComplete,
		Round:  c.roundIndex,
		Score:  c.score,
		Result: &res,
	})

	if c.sink != nil {
		if c.saves != nil {
			c.saves.Add(1)
		}
		go c.persist(res)
	}
}

func (c *Controller) persist(res picmatch.SessionResult) {
	if c.saves != nil {
		defer c.saves.Done()
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	err := c.sink.SaveResult(ctx, res)

	c.mu.Lock()
	c.saved = err == nil
	c.saveErr = err
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("saving session result failed", "error", err)
		c.emit([]Event{{Type: EventScoreSaveFailed, Score: res.Score, Result: &res, Err: err.Error()}})
		return
	}
	c.emit([]Event{{Type: EventScoreSaved, Score: res.Score, Result: &res}})
}

func (c *Controller) drainLocked() []Event {
	events := c.pending
	c.pending = nil
	return events
}

func (c *Controller) emit(events []Event) {
	if c.observe == nil {
		return
	}
	for _, e := range events {
		e.SessionID = c.id
		c.observe(e)
	}
}
