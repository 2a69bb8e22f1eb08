// Package fixpin watches the receiver's FIX indicator line. The line pulses
// about once per second while the receiver is searching for satellites and
// only every ~15 seconds once it has a fix, so the gap between rising edges
// tells us the lock state without touching the NMEA stream.
package fixpin

import (
	"io"
	"sync"
	"time"
)

type State int

const (
	StateUnknown State = iota
	StateSearching
	StateFix
)

func (s State) String() string {
	switch s {
	case StateSearching:
		return "searching"
	case StateFix:
		return "fix"
	default:
		return "unknown"
	}
}

// Pulse gaps at or above fixGapMin mean the receiver has a fix; shorter gaps
// are the 1 Hz "searching" blink. A line silent for staleAfter is unknown
// (unwired pin, receiver off).
const (
	fixGapMin  = 5 * time.Second
	staleAfter = 45 * time.Second
)

// Classifier turns rising-edge timestamps into a lock state. It is not
// goroutine-safe; Service wraps it with a mutex.
type Classifier struct {
	lastPulse time.Time
	state     State
}

// Pulse records a rising edge and returns the resulting state. The first
// pulse after silence only proves the line is alive, not which blink pattern
// it belongs to, so the state stays unknown until a second edge arrives.
func (c *Classifier) Pulse(now time.Time) State {
	if !c.lastPulse.IsZero() {
		gap := now.Sub(c.lastPulse)
		switch {
		case gap >= staleAfter:
			c.state = StateUnknown
		case gap >= fixGapMin:
			c.state = StateFix
		case gap > 0:
			c.state = StateSearching
		}
	}
	c.lastPulse = now
	return c.state
}

// State returns the current classification, decaying to unknown when no
// pulse has arrived for staleAfter.
func (c *Classifier) State(now time.Time) State {
	if c.lastPulse.IsZero() || now.Sub(c.lastPulse) >= staleAfter {
		return StateUnknown
	}
	return c.state
}

// Service owns the GPIO edge watch and serves the classified state.
type Service struct {
	pin int

	mu     sync.Mutex
	cls    Classifier
	closer io.Closer
}

func New(pin int) *Service {
	return &Service{pin: pin}
}

// Start requests the FIX line and begins classifying edges. Failure leaves
// the service inert (State reports unknown); it should not bring down the
// main process.
func (s *Service) Start() error {
	c, err := watchFixLineFn(s.pin, s.pulse)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.closer = c
	s.mu.Unlock()
	return nil
}

func (s *Service) pulse(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cls.Pulse(at)
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cls.State(time.Now())
}

func (s *Service) Close() {
	s.mu.Lock()
	closer := s.closer
	s.closer = nil
	s.mu.Unlock()
	if closer != nil {
		_ = closer.Close()
	}
}
