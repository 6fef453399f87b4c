// Package logtail reads the tail of the pathpilot log file and splits zap
// console lines into fields the UI can style.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// proportional to the window rather than the file. A missing file is not an
// error: the log pane simply starts empty.
//
// Parse understands the tab separated layout written by the console encoder:
//
//	2026-10-19T14:32:15.123Z	INFO	dispatch	robot/dispatch.go:88	command sent	{"index": 0, "id": "m1"}
//
// and the JSON encoder's one-object-per-line form. Anything else is returned
// as a plain message so nothing is dropped from the pane.
package logtail
