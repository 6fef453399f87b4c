// Package sim serves a simulated robot that speaks the pathpilot control and
// pose protocol. It integrates each accepted command into a dead-reckoned
// pose so operators can rehearse a sequence without hardware.
//
// Routes:
//
//	GET  /api/pose    current pose, {"H":"pose_<n>","pose":{"x":..,"y":..}}
//	POST /api/{name}  one command body, answered {"H":<id>,"status":"success"}
//	GET  /metrics     Prometheus counters for the simulator
//	GET  /healthz     liveness
package sim
