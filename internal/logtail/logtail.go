package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one parsed log line.
type Entry struct {
	Time    string
	Level   string
	Logger  string
	Caller  string
	Message string
	Fields  string
}

// Parse splits a log line. Lines that match neither encoder layout come back
// with only Message set.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Entry{}
	}
	if strings.HasPrefix(trimmed, "{") {
		if e, ok := parseJSON(trimmed); ok {
			return e
		}
	}

	parts := strings.Split(line, "\t")
	if len(parts) < 3 || !isLevel(parts[1]) {
		return Entry{Message: line}
	}

	e := Entry{Time: parts[0], Level: strings.ToUpper(parts[1])}
	rest := parts[2:]
	// Logger name and caller are optional; the caller always has a line suffix.
	if len(rest) > 1 && !looksLikeCaller(rest[0]) {
		e.Logger = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 1 && looksLikeCaller(rest[0]) {
		e.Caller = rest[0]
		rest = rest[1:]
	}
	e.Message = rest[0]
	if len(rest) > 1 {
		e.Fields = strings.Join(rest[1:], " ")
	}
	return e
}

func parseJSON(line string) (Entry, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{}, false
	}
	level, _ := raw["level"].(string)
	if !isLevel(level) {
		return Entry{}, false
	}
	e := Entry{
		Level:   strings.ToUpper(level),
		Time:    firstString(raw, "timestamp", "ts"),
		Logger:  firstString(raw, "logger"),
		Caller:  firstString(raw, "caller"),
		Message: firstString(raw, "message", "msg"),
	}
	for _, k := range []string{"timestamp", "ts", "level", "logger", "caller", "message", "msg"} {
		delete(raw, k)
	}
	if len(raw) > 0 {
		if b, err := json.Marshal(raw); err == nil {
			e.Fields = string(b)
		}
	}
	return e, true
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok {
			return v
		}
	}
	return ""
}

func isLevel(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "INFO", "WARN", "ERROR", "DPANIC", "PANIC", "FATAL":
		return true
	}
	return false
}

func looksLikeCaller(s string) bool {
	i := strings.LastIndex(s, ".go:")
	return i > 0 && i+4 < len(s)
}
