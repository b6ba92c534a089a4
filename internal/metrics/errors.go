package metrics

import "errors"

var (
	// ErrNoMetrics is returned when no sample has been recorded for a category.
	ErrNoMetrics = errors.New("no metrics recorded")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)
