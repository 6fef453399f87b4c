package command

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies a command variant.
type Kind string

const (
	KindMove Kind = "move"
	KindTurn Kind = "turn"
)

// Prefix returns the id prefix used for the kind.
func (k Kind) Prefix() string {
	switch k {
	case KindMove:
		return "m"
	case KindTurn:
		return "t"
	default:
		return ""
	}
}

// Direction is the travel direction of a Move. Only Forward is offered to
// operators today; Backward remains a valid wire value.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Command is one atomic robot instruction. The set of implementations is
// closed: Move and Turn.
type Command interface {
	CommandID() string
	Kind() Kind
	isCommand()
}

// Move drives the robot Distance meters in Direction.
type Move struct {
	Distance  string
	Direction Direction
	ID        string
}

// Turn rotates the robot in place. Angle is in degrees; 90 is straight ahead.
type Turn struct {
	Angle string
	ID    string
}

func (m Move) CommandID() string { return m.ID }
func (m Move) Kind() Kind        { return KindMove }
func (Move) isCommand()          {}

func (t Turn) CommandID() string { return t.ID }
func (t Turn) Kind() Kind        { return KindTurn }
func (Turn) isCommand()          {}

// Describe renders the operator-facing summary of a command, e.g.
// "0.2m forward" or "90°".
func Describe(c Command) string {
	switch v := c.(type) {
	case Move:
		return fmt.Sprintf("%sm %s", v.Distance, v.Direction)
	case Turn:
		return v.Angle + "°"
	default:
		return ""
	}
}

// ValidationError reports a rejected command field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewMove builds a Move. Distance content is not interpreted and is kept
// verbatim; a blank or whitespace-only value is rejected.
func NewMove(distance string, dir Direction, id string) (Move, error) {
	if strings.TrimSpace(distance) == "" {
		return Move{}, &ValidationError{Field: "distance", Reason: "value is required"}
	}
	if dir != Forward && dir != Backward {
		return Move{}, &ValidationError{Field: "direction", Reason: fmt.Sprintf("must be 1 or -1, got %d", int(dir))}
	}
	if id == "" {
		return Move{}, &ValidationError{Field: "id", Reason: "value is required"}
	}
	return Move{Distance: distance, Direction: dir, ID: id}, nil
}

// NewTurn builds a Turn. Angle content is kept verbatim, as for NewMove.
func NewTurn(angle string, id string) (Turn, error) {
	if strings.TrimSpace(angle) == "" {
		return Turn{}, &ValidationError{Field: "angle", Reason: "value is required"}
	}
	if id == "" {
		return Turn{}, &ValidationError{Field: "id", Reason: "value is required"}
	}
	return Turn{Angle: angle, ID: id}, nil
}

// checkNumber rejects values that do not parse as a finite float.
func checkNumber(field, value string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a number", strings.TrimSpace(value))}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &ValidationError{Field: field, Reason: "value must be finite"}
	}
	return nil
}
