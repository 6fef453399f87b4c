package robot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/five82/pathpilot/internal/command"
)

// MoveRequest is the control endpoint body for a Move.
type MoveRequest struct {
	Cmd       string `json:"cmd"`
	Distance  string `json:"d"`
	Direction int    `json:"dir"`
	ID        string `json:"id"`
}

// TurnRequest is the control endpoint body for a Turn.
type TurnRequest struct {
	Cmd   string `json:"cmd"`
	Angle string `json:"a"`
	ID    string `json:"id"`
}

// CommandAck is what the reference robot firmware answers to a command. The
// dispatcher only looks at the HTTP status; the body is decoded for logging.
type CommandAck struct {
	H      string `json:"H"`
	Status string `json:"status"`
}

// EncodeCommand renders c as a control endpoint JSON object.
func EncodeCommand(c command.Command) ([]byte, error) {
	var payload any
	switch v := c.(type) {
	case command.Move:
		payload = MoveRequest{Cmd: string(command.KindMove), Distance: v.Distance, Direction: int(v.Direction), ID: v.ID}
	case command.Turn:
		payload = TurnRequest{Cmd: string(command.KindTurn), Angle: v.Angle, ID: v.ID}
	default:
		return nil, fmt.Errorf("encode command: unsupported type %T", c)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode command: %w", err)
	}
	return data, nil
}

// DecodeCommand parses a control endpoint body back into a command.
func DecodeCommand(data []byte) (command.Command, error) {
	var head struct {
		Cmd string `json:"cmd"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode command: %w", err)
	}
	switch command.Kind(head.Cmd) {
	case command.KindMove:
		var req struct {
			Distance  numberText `json:"d"`
			Direction *int       `json:"dir"`
			ID        string     `json:"id"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("decode move: %w", err)
		}
		dir := command.Forward
		if req.Direction != nil {
			dir = command.Direction(*req.Direction)
		}
		return command.NewMove(string(req.Distance), dir, req.ID)
	case command.KindTurn:
		var req struct {
			Angle numberText `json:"a"`
			ID    string     `json:"id"`
		}
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("decode turn: %w", err)
		}
		return command.NewTurn(string(req.Angle), req.ID)
	default:
		return nil, fmt.Errorf("decode command: unknown cmd %q", head.Cmd)
	}
}

// Pose is the robot's reported position in meters.
type Pose struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", p.X, p.Y)
}

// PoseResponse mirrors the pose endpoint body.
type PoseResponse struct {
	H    json.RawMessage `json:"H"`
	Pose *struct {
		X *numberLike `json:"x"`
		Y *numberLike `json:"y"`
	} `json:"pose"`
}

// DecodePose parses a pose endpoint body. token is the server's opaque
// correlation value ("H"), returned as text for logging.
func DecodePose(data []byte) (pose Pose, token string, err error) {
	var resp PoseResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Pose{}, "", fmt.Errorf("%w: %v", ErrMalformedPose, err)
	}
	if resp.Pose == nil {
		return Pose{}, "", fmt.Errorf("%w: missing pose", ErrMalformedPose)
	}
	if resp.Pose.X == nil || resp.Pose.Y == nil {
		return Pose{}, "", fmt.Errorf("%w: missing x or y", ErrMalformedPose)
	}
	return Pose{X: float64(*resp.Pose.X), Y: float64(*resp.Pose.Y)}, tokenText(resp.H), nil
}

func tokenText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// numberLike accepts a JSON number or a string holding one.
type numberLike float64

func (n *numberLike) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		return fmt.Errorf("null is not a number")
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		text = strings.TrimSpace(unquoted)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("parse number %s: %w", string(data), err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("number %s is not finite", string(data))
	}
	*n = numberLike(f)
	return nil
}

// numberText keeps a JSON number or string as its text form.
type numberText string

func (n *numberText) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if unquoted, err := strconv.Unquote(text); err == nil {
		*n = numberText(unquoted)
		return nil
	}
	if text == "null" {
		*n = ""
		return nil
	}
	*n = numberText(text)
	return nil
}
