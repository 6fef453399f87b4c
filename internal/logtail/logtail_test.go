package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Entry
	}{
		{
			name:  "empty line",
			input: "",
			want:  Entry{},
		},
		{
			name:  "plain text",
			input: "panic: something odd",
			want:  Entry{Message: "panic: something odd"},
		},
		{
			name:  "console with logger caller and fields",
			input: "2026-10-19T14:32:15.123Z\tINFO\tdispatch\trobot/dispatch.go:88\tcommand sent\t{\"index\": 0, \"id\": \"m1\"}",
			want: Entry{
				Time:    "2026-10-19T14:32:15.123Z",
				Level:   "INFO",
				Logger:  "dispatch",
				Caller:  "robot/dispatch.go:88",
				Message: "command sent",
				Fields:  "{\"index\": 0, \"id\": \"m1\"}",
			},
		},
		{
			name:  "console without logger or caller",
			input: "2026-10-19T14:32:15.123Z\tWARN\tpose poll failed",
			want: Entry{
				Time:    "2026-10-19T14:32:15.123Z",
				Level:   "WARN",
				Message: "pose poll failed",
			},
		},
		{
			name:  "console with caller only",
			input: "2026-10-19T14:32:15.123Z\terror\tapp/app.go:12\tboom\t{\"error\": \"x\"}",
			want: Entry{
				Time:    "2026-10-19T14:32:15.123Z",
				Level:   "ERROR",
				Caller:  "app/app.go:12",
				Message: "boom",
				Fields:  "{\"error\": \"x\"}",
			},
		},
		{
			name:  "json line",
			input: `{"level":"debug","ts":"2026-10-19T14:32:15.123Z","logger":"pose","msg":"pose received","token":"pose_3"}`,
			want: Entry{
				Time:    "2026-10-19T14:32:15.123Z",
				Level:   "DEBUG",
				Logger:  "pose",
				Message: "pose received",
				Fields:  `{"token":"pose_3"}`,
			},
		},
		{
			name:  "json with pathpilot keys",
			input: `{"level":"INFO","timestamp":"2026-10-19T14:32:15.123Z","message":"run finished","outcome":"sent"}`,
			want: Entry{
				Time:    "2026-10-19T14:32:15.123Z",
				Level:   "INFO",
				Message: "run finished",
				Fields:  `{"outcome":"sent"}`,
			},
		},
		{
			name:  "json without level",
			input: `{"hello":"world"}`,
			want:  Entry{Message: `{"hello":"world"}`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.input); got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
