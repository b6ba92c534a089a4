// Package metrics provides the metrics snapshot store consumed by decision
// rules and the recorders that receive boundary and switch notifications
// from the engine: an in-memory history, a SQLite event log and Prometheus
// collectors.
package metrics
