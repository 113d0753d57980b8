package detect

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xonecas/sensi/internal/registry"
)

// maxConsecutiveErrors is the threshold for the circuit breaker.
// After this many failed scans in a row, watching stops.
const maxConsecutiveErrors = 3

// Status represents the current state of the watcher.
type Status struct {
	Running  bool
	Interval time.Duration
	Active   []registry.GameProfile
}

// Callbacks receive detection events. Each may be nil.
// They run on the polling goroutine and must not block for long.
type Callbacks struct {
	// OnDetected is called when a game starts running.
	OnDetected func(game registry.GameProfile)

	// OnLost is called when a previously detected game stops.
	OnLost func(game registry.GameProfile)

	// OnError is called when a scan fails.
	OnError func(err error)

	// OnStopped is called when the polling loop exits.
	OnStopped func()
}

// Service polls a Source and reports changes in the set of running games.
type Service struct {
	source    Source
	registry  *registry.Registry
	interval  time.Duration
	callbacks Callbacks

	mu                sync.Mutex
	running           bool
	cancel            context.CancelFunc
	done              chan struct{}
	active            map[string]registry.GameProfile // keyed by external id
	consecutiveErrors int
}

// NewService creates a detection service.
func NewService(source Source, reg *registry.Registry, interval time.Duration, callbacks Callbacks) *Service {
	return &Service{
		source:    source,
		registry:  reg,
		interval:  interval,
		callbacks: callbacks,
		active:    make(map[string]registry.GameProfile),
	}
}

// Start begins polling in the background. The loop runs until Stop is
// called, ctx is canceled, or the circuit breaker trips.
func (s *Service) Start(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if s.interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", s.interval)
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("detection already running")
	}
	s.running = true
	s.consecutiveErrors = 0
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	log.Info().Dur("interval", s.interval).Msg("Game detection started")

	go s.runLoop(loopCtx, done)
	return nil
}

// Stop stops polling and waits for the loop to exit.
func (s *Service) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("detection not active")
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done

	log.Info().Msg("Game detection stopped")
	return nil
}

// Status returns the current watcher status.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Running:  s.running,
		Interval: s.interval,
		Active:   s.activeLocked(),
	}
}

// Poll runs a single scan and fires callbacks for any change.
// It returns the games running after the scan.
func (s *Service) Poll(ctx context.Context) ([]registry.GameProfile, error) {
	ids, err := s.source.Running(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan running games: %w", err)
	}

	current := make(map[string]registry.GameProfile, len(ids))
	for _, id := range ids {
		if game, ok := s.registry.FindByExternalID(id); ok {
			current[id] = game
		} else {
			log.Debug().Str("external_id", id).Msg("Running game not in catalog")
		}
	}

	s.mu.Lock()
	var started, stopped []registry.GameProfile
	for id, game := range current {
		if _, ok := s.active[id]; !ok {
			started = append(started, game)
		}
	}
	for id, game := range s.active {
		if _, ok := current[id]; !ok {
			stopped = append(stopped, game)
		}
	}
	s.active = current
	active := s.activeLocked()
	s.mu.Unlock()

	sortByName(stopped)
	sortByName(started)
	for _, game := range stopped {
		log.Info().Str("game", game.Name).Msg("Game closed")
		if s.callbacks.OnLost != nil {
			s.callbacks.OnLost(game)
		}
	}
	for _, game := range started {
		log.Info().Str("game", game.Name).Str("external_id", game.ExternalID).Msg("Game detected")
		if s.callbacks.OnDetected != nil {
			s.callbacks.OnDetected(game)
		}
	}

	return active, nil
}

// runLoop is the polling loop that runs in a background goroutine.
func (s *Service) runLoop(ctx context.Context, done chan struct{}) {
	log.Debug().Msg("Detection goroutine started")

	defer func() {
		s.mu.Lock()
		s.running = false
		s.cancel = nil
		s.active = make(map[string]registry.GameProfile)
		s.mu.Unlock()

		if s.callbacks.OnStopped != nil {
			s.callbacks.OnStopped()
		}
		close(done)

		log.Debug().Msg("Detection goroutine exiting")
	}()

	// Scan once immediately so a game already running is reported at startup.
	if !s.scan(ctx) {
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.scan(ctx) {
				return
			}
		}
	}
}

// scan polls once and reports whether the loop should continue.
func (s *Service) scan(ctx context.Context) bool {
	_, err := s.Poll(ctx)
	if ctx.Err() != nil {
		return false
	}
	if err == nil {
		s.mu.Lock()
		s.consecutiveErrors = 0
		s.mu.Unlock()
		return true
	}

	log.Warn().Err(err).Msg("Game scan failed")
	s.mu.Lock()
	s.consecutiveErrors++
	consecutiveErrors := s.consecutiveErrors
	s.mu.Unlock()

	if s.callbacks.OnError != nil {
		s.callbacks.OnError(err)
	}

	if consecutiveErrors >= maxConsecutiveErrors {
		log.Warn().Int("consecutive_errors", consecutiveErrors).Msg("Circuit breaker triggered - stopping detection")
		return false
	}
	return true
}

func (s *Service) activeLocked() []registry.GameProfile {
	out := make([]registry.GameProfile, 0, len(s.active))
	for _, game := range s.active {
		out = append(out, game)
	}
	sortByName(out)
	return out
}

func sortByName(games []registry.GameProfile) {
	sort.Slice(games, func(i, j int) bool {
		return strings.ToLower(games[i].Name) < strings.ToLower(games[j].Name)
	})
}
