// Package session is the composition root for a correction run. It wires a
// mapped engine config, the determinism wrapper, metrics sinks and the trace
// writer into a live Session, replays recorded traces through the same
// path, and checks replay results against stored baselines.
//
// Dependency rule: session may import every other cursor package; none of
// them import session.
package session
