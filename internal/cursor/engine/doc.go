// Package engine owns the deterministic cursor transform core.
//
// Responsibilities: the per-tick data model (InputSample, TransformContext,
// TargetInfo, TransformResult), the ordered stage set (smoothing, magnetism,
// edge resistance, overshoot), the Pipeline that runs them, and the Wrapper
// that folds every tick into a running determinism hash and forwards
// telemetry to a Sink.
//
// Dependency rule: engine imports nothing else from this module. Trace
// persistence, profile mapping and metrics sinks live in sibling packages
// and depend on engine, never the other way round.
//
// Nothing in this package blocks, sleeps, or performs I/O. A Pipeline and
// its Wrapper are owned by one goroutine; run one Wrapper per session.
package engine
