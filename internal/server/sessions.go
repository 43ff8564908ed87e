package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/playperu/picmatch/internal/engine"
	"github.com/playperu/picmatch/internal/picmatch"
)

// maxRoundSeconds bounds the per-session round length a client may ask for.
const maxRoundSeconds = 3600

var ErrSessionsClosed = errors.New("sessions closed")

type SessionsConfig struct {
	Pool        []picmatch.Pair
	Defaults    engine.Config
	IdleTimeout time.Duration
	Sink        engine.ScoreSink
	Broker      *Broker
	Clock       clockwork.Clock
	Logger      *slog.Logger
}

// Sessions is the registry of live controllers. Sessions that stay idle for
// longer than the idle timeout are abandoned and dropped by the reaper.
type Sessions struct {
	cfg    SessionsConfig
	mu     sync.RWMutex
	active map[string]*engine.Controller
	closed bool

	// saves counts result saves still in flight.
	saves sync.WaitGroup
}

func NewSessions(cfg SessionsConfig) *Sessions {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Broker == nil {
		cfg.Broker = NewBroker()
	}
	return &Sessions{
		cfg:    cfg,
		active: make(map[string]*engine.Controller),
	}
}

// Create starts a new session. Non-zero fields of req override the
// defaults. A session that fails to start is not registered.
func (s *Sessions) Create(req CreateSessionRequest) (*engine.Controller, error) {
	cfg := s.cfg.Defaults
	if req.PairsPerRound != 0 {
		cfg.PairsPerRound = req.PairsPerRound
	}
	if req.TotalRounds != 0 {
		cfg.TotalRounds = req.TotalRounds
	}
	if req.RoundSeconds < 0 || req.RoundSeconds > maxRoundSeconds {
		return nil, fmt.Errorf("%w: round seconds %d out of range (max %d)",
			picmatch.ErrInvalidConfig, req.RoundSeconds, maxRoundSeconds)
	}
	if req.RoundSeconds != 0 {
		cfg.RoundDuration = time.Duration(req.RoundSeconds) * time.Second
	}

	opts := []engine.Option{
		engine.WithSessionID(uuid.NewString()),
		engine.WithClock(s.cfg.Clock),
		engine.WithObserver(s.cfg.Broker.Publish),
		engine.WithLogger(s.cfg.Logger),
		engine.WithSaveGroup(&s.saves),
	}
	if s.cfg.Sink != nil {
		opts = append(opts, engine.WithSink(s.cfg.Sink))
	}

	c, err := engine.New(s.cfg.Pool, cfg, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Start(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		c.Abandon()
		return nil, ErrSessionsClosed
	}
	s.active[c.ID()] = c
	s.mu.Unlock()

	s.cfg.Logger.Info("session started", "session_id", c.ID(),
		"pairs_per_round", cfg.PairsPerRound, "total_rounds", cfg.TotalRounds)
	return c, nil
}

func (s *Sessions) Get(id string) (*engine.Controller, error) {
	s.mu.RLock()
	c, ok := s.active[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// Abandon stops the session and drops it from the registry.
func (s *Sessions) Abandon(id string) error {
	s.mu.Lock()
	c, ok := s.active[id]
	delete(s.active, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	c.Abandon()
	return nil
}

func (s *Sessions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}

// Reap drops every session idle since before now minus the idle timeout and
// reports how many went.
func (s *Sessions) Reap(now time.Time) int {
	var idle []*engine.Controller

	s.mu.Lock()
	for id, c := range s.active {
		if now.Sub(c.LastActive()) >= s.cfg.IdleTimeout {
			idle = append(idle, c)
			delete(s.active, id)
		}
	}
	s.mu.Unlock()

	for _, c := range idle {
		c.Abandon()
	}
	if len(idle) > 0 {
		s.cfg.Logger.Info("reaped idle sessions", "count", len(idle))
	}
	return len(idle)
}

// Run reaps on a timer until ctx is done, then abandons what is left and
// waits for result saves still in flight.
func (s *Sessions) Run(ctx context.Context) error {
	ticker := s.cfg.Clock.NewTicker(max(s.cfg.IdleTimeout/2, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			s.saves.Wait()
			return nil
		case <-ticker.Chan():
			s.Reap(s.cfg.Clock.Now())
		}
	}
}

func (s *Sessions) closeAll() {
	s.mu.Lock()
	s.closed = true
	live := s.active
	s.active = make(map[string]*engine.Controller)
	s.mu.Unlock()

	for _, c := range live {
		c.Abandon()
	}
}
