package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type toastKind int

const (
	toastError toastKind = iota
	toastSuccess
	toastInfo
	toastWarning
)

func (k toastKind) String() string {
	switch k {
	case toastSuccess:
		return "success"
	case toastInfo:
		return "info"
	case toastWarning:
		return "warning"
	default:
		return "error"
	}
}

const (
	defaultToastDuration = 3 * time.Second
	maxPendingToasts     = 5
)

type toast struct {
	id      int
	kind    toastKind
	message string
}

// toastQueue shows notifications one at a time in arrival order. Only the
// head is on screen; its timer starts when it reaches the head.
type toastQueue struct {
	items    []toast
	nextID   int
	duration time.Duration
}

type toastExpiredMsg struct{ id int }

// push queues a notification and returns the expiry timer when it is shown
// immediately.
func (q *toastQueue) push(kind toastKind, message string) tea.Cmd {
	q.nextID++
	q.items = append(q.items, toast{id: q.nextID, kind: kind, message: message})
	if len(q.items) > maxPendingToasts {
		// Keep the head on screen; drop the oldest waiting notification.
		q.items = append(q.items[:1], q.items[2:]...)
	}
	if len(q.items) == 1 {
		return q.expireCmd(q.items[0].id)
	}
	return nil
}

// expire drops the head if id matches it and starts the next timer.
func (q *toastQueue) expire(id int) tea.Cmd {
	if len(q.items) == 0 || q.items[0].id != id {
		return nil
	}
	q.items = q.items[1:]
	if len(q.items) > 0 {
		return q.expireCmd(q.items[0].id)
	}
	return nil
}

func (q *toastQueue) current() (toast, bool) {
	if len(q.items) == 0 {
		return toast{}, false
	}
	return q.items[0], true
}

func (q *toastQueue) expireCmd(id int) tea.Cmd {
	d := q.duration
	if d <= 0 {
		d = defaultToastDuration
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}
