package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

func containsPlain(view, want string) bool {
	return strings.Contains(ansi.Strip(view), want)
}
