package metrics

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/Eyevinn/moqabr/internal/abr"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// Boundary kinds stored in boundary_events.kind.
const (
	KindQuality   = "quality"
	KindBandwidth = "bandwidth"
)

const (
	writeTimeout = 5 * time.Second
	// fixed width so that recorded_at sorts chronologically as text
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Event is one row of the recorded history. Switch events carry From and To;
// boundary events carry Kind, Min and Max.
type Event struct {
	SessionID string
	Category  abr.Category
	At        time.Time
	Kind      string // "quality", "bandwidth" or "switch"
	Min       *float64
	Max       *float64
	From      int
	To        int
}

// SQLiteRecorder appends boundary and switch notifications to a SQLite
// database, tagged with a per-process session identifier.
type SQLiteRecorder struct {
	db        *sql.DB
	path      string
	sessionID string
	logger    *slog.Logger
}

// OpenSQLiteRecorder opens or creates the database at path.
func OpenSQLiteRecorder(ctx context.Context, path string, logger *slog.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	r := &SQLiteRecorder{
		db:        db,
		path:      path,
		sessionID: uuid.NewString(),
		logger:    logger,
	}
	if err := r.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// SessionID returns the identifier attached to every row written by r.
func (r *SQLiteRecorder) SessionID() string {
	return r.sessionID
}

// Close closes the underlying database connection.
func (r *SQLiteRecorder) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *SQLiteRecorder) initSchema(ctx context.Context) error {
	var tableExists int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return r.createSchema(ctx)
	}

	var version int
	err = r.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database %s has version %d, expected %d",
			ErrSchemaMismatch, r.path, version, schemaVersion)
	}
	return nil
}

func (r *SQLiteRecorder) createSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// AddRepresentationBoundaries records a quality boundary change.
func (r *SQLiteRecorder) AddRepresentationBoundaries(category abr.Category, at time.Time, bounds abr.QualityBounds) {
	r.insertBoundary(category, KindQuality, at, intToFloat(bounds.Min), intToFloat(bounds.Max))
}

// AddBandwidthBoundaries records a bandwidth boundary change.
func (r *SQLiteRecorder) AddBandwidthBoundaries(category abr.Category, at time.Time, bounds abr.BandwidthBounds) {
	r.insertBoundary(category, KindBandwidth, at, bounds.Min, bounds.Max)
}

// AddRepresentationSwitch records a quality switch.
func (r *SQLiteRecorder) AddRepresentationSwitch(category abr.Category, at time.Time, from, to int) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO switch_events (session_id, category, recorded_at, from_quality, to_quality)
        VALUES (?, ?, ?, ?, ?)`,
		r.sessionID, string(category), formatTime(at), from, to)
	if err != nil {
		r.logger.Error("record switch", "category", category, "error", err)
	}
}

func (r *SQLiteRecorder) insertBoundary(category abr.Category, kind string, at time.Time, lo, hi *float64) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO boundary_events (session_id, category, kind, recorded_at, min_value, max_value)
        VALUES (?, ?, ?, ?, ?, ?)`,
		r.sessionID, string(category), kind, formatTime(at), nullableFloat(lo), nullableFloat(hi))
	if err != nil {
		r.logger.Error("record boundaries", "category", category, "kind", kind, "error", err)
	}
}

// HistoryFilter narrows History. Empty fields match everything.
type HistoryFilter struct {
	SessionID string
	Category  abr.Category
	Limit     int
}

// History returns boundary and switch events ordered by time, oldest first.
func (r *SQLiteRecorder) History(ctx context.Context, filter HistoryFilter) ([]Event, error) {
	query := `SELECT id, session_id, category, kind, recorded_at, min_value, max_value, 0, 0
        FROM boundary_events WHERE (? = '' OR session_id = ?) AND (? = '' OR category = ?)
        UNION ALL
        SELECT id, session_id, category, 'switch', recorded_at, NULL, NULL, from_quality, to_quality
        FROM switch_events WHERE (? = '' OR session_id = ?) AND (? = '' OR category = ?)
        ORDER BY recorded_at, id`
	cat := string(filter.Category)
	args := []any{
		filter.SessionID, filter.SessionID, cat, cat,
		filter.SessionID, filter.SessionID, cat, cat,
	}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			id       int64
			ev       Event
			category string
			at       string
			lo, hi   sql.NullFloat64
		)
		if err := rows.Scan(&id, &ev.SessionID, &category, &ev.Kind, &at, &lo, &hi, &ev.From, &ev.To); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		ev.Category = abr.Category(category)
		if ev.At, err = time.Parse(timeLayout, at); err != nil {
			return nil, fmt.Errorf("parse recorded_at %q: %w", at, err)
		}
		if lo.Valid {
			ev.Min = &lo.Float64
		}
		if hi.Valid {
			ev.Max = &hi.Float64
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return events, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func intToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
