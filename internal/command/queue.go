package command

// Queue is the ordered command sequence. Insertion order is dispatch order.
// Reorder and removal requests that cannot apply are no-ops.
//
// Queue is not safe for concurrent mutation; dispatch works from Snapshot.
type Queue struct {
	items []Command
}

// Len reports the number of queued commands.
func (q *Queue) Len() int {
	return len(q.items)
}

// Append adds c to the end of the queue.
func (q *Queue) Append(c Command) {
	q.items = append(q.items, c)
}

// RemoveLast removes and returns the final command. ok is false when the
// queue was already empty.
func (q *Queue) RemoveLast() (c Command, ok bool) {
	n := len(q.items)
	if n == 0 {
		return nil, false
	}
	c = q.items[n-1]
	q.items[n-1] = nil
	q.items = q.items[:n-1]
	return c, true
}

// Clear empties the queue.
func (q *Queue) Clear() {
	clear(q.items)
	q.items = q.items[:0]
}

// MoveUp swaps the command at index with its predecessor.
func (q *Queue) MoveUp(index int) {
	if index <= 0 || index >= len(q.items) {
		return
	}
	q.items[index-1], q.items[index] = q.items[index], q.items[index-1]
}

// MoveDown swaps the command at index with its successor.
func (q *Queue) MoveDown(index int) {
	if index < 0 || index >= len(q.items)-1 {
		return
	}
	q.items[index], q.items[index+1] = q.items[index+1], q.items[index]
}

// At returns the command at index.
func (q *Queue) At(index int) (Command, bool) {
	if index < 0 || index >= len(q.items) {
		return nil, false
	}
	return q.items[index], true
}

// Snapshot returns a copy of the current order. Later queue mutation does not
// affect a snapshot already taken.
func (q *Queue) Snapshot() []Command {
	if len(q.items) == 0 {
		return nil
	}
	dup := make([]Command, len(q.items))
	copy(dup, q.items)
	return dup
}
