// Package command models the operator's motion plan: the Move and Turn
// commands, the kind-scoped id allocator, and the ordered Queue that a
// Session owns.
//
// Commands are values and never change after creation. The queue only
// rearranges positions: Append, RemoveLast, Clear, and the adjacent swaps
// MoveUp/MoveDown. Requests that cannot apply (removing from an empty queue,
// moving the first entry up) do nothing and report nothing, so callers can
// forward UI events without checking bounds first.
//
// Ids have the form <prefix><n>: "m" for moves, "t" for turns. Each kind has
// its own counter starting at 1; counters never rewind, even after removal
// or Clear, so an id is unique for the life of a Session.
package command
