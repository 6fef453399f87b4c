// Package robot implements the robot control protocol: the JSON wire codec,
// the HTTP client for the control and pose endpoints, the sequential
// Dispatcher, and the on-demand PosePoller.
//
// # Wire format
//
// Commands are POSTed one JSON object per request:
//
//	{"cmd":"move","d":"0.2","dir":1,"id":"m1"}
//	{"cmd":"turn","a":"90","id":"t1"}
//
// Move payloads never carry "a"; turn payloads never carry "d" or "dir".
// Distance and angle travel as the text the operator typed.
//
// The pose endpoint answers
//
//	{"H":"pose_12","pose":{"x":1.5,"y":-0.3}}
//
// where H is an opaque correlation token that is only logged. x and y may be
// JSON numbers or numeric strings. A body without "pose", or with x/y that do
// not parse, is ErrMalformedPose.
//
// # Dispatch
//
// A run walks a queue snapshot in order with one request in flight:
//
//	idle ──begin──> sending ──complete──> sent
//	                   │
//	                   ├──fail──> aborted   (transport error, or HTTP error under AbortOnHTTPError)
//	                   └──halt──> stopped   (Stop channel closed between commands)
//
// An empty snapshot never leaves idle and reports OutcomeEmpty. A failed
// command is not retried and later commands are never sent.
//
// # Failures
//
// Network failures are typed: *TransportError (no response), *HTTPError
// (4xx/5xx) and *PollError for pose reads. KindOf classifies any of them and
// Summary renders the operator-facing message.
package robot
