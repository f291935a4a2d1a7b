// Package metrics provides engine.Sink implementations: an in-memory
// Collector, a LogSink that reports events through monitoring.Logf, a Multi
// fan-out, and gonum-backed summaries of per-tick correction.
//
// Dependency rule: metrics depends on engine and monitoring only. Sinks are
// called synchronously on the tick goroutine and must not block.
package metrics
