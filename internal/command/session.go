package command

import (
	"github.com/google/uuid"
)

// SessionOptions tune command creation.
type SessionOptions struct {
	// StrictNumbers rejects distance and angle values that are not numbers.
	// When false the raw text is carried to the wire unchanged.
	StrictNumbers bool
}

// Session owns one operator's id counters and command queue.
type Session struct {
	ID    string
	Queue Queue

	ids    *Allocator
	strict bool
}

// NewSession starts an empty session.
func NewSession(opts SessionOptions) *Session {
	return &Session{
		ID:     uuid.NewString(),
		ids:    NewAllocator(),
		strict: opts.StrictNumbers,
	}
}

// CreateMove validates distance, allocates an id and appends the Move.
// Rejected input leaves counters and queue untouched.
func (s *Session) CreateMove(distance string, dir Direction) (Move, error) {
	// Validate with a placeholder id so a rejected move does not burn a sequence number.
	if _, err := NewMove(distance, dir, "-"); err != nil {
		return Move{}, err
	}
	if s.strict {
		if err := checkNumber("distance", distance); err != nil {
			return Move{}, err
		}
	}
	m, err := NewMove(distance, dir, s.ids.Next(KindMove))
	if err != nil {
		return Move{}, err
	}
	s.Queue.Append(m)
	return m, nil
}

// CreateTurn validates angle, allocates an id and appends the Turn.
func (s *Session) CreateTurn(angle string) (Turn, error) {
	if _, err := NewTurn(angle, "-"); err != nil {
		return Turn{}, err
	}
	if s.strict {
		if err := checkNumber("angle", angle); err != nil {
			return Turn{}, err
		}
	}
	t, err := NewTurn(angle, s.ids.Next(KindTurn))
	if err != nil {
		return Turn{}, err
	}
	s.Queue.Append(t)
	return t, nil
}
