// Package history records analysed SQL sources in a persistent store so that
// earlier runs can be listed and inspected again.
package history

import (
	"context"
	"time"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/foundation/stormsql"
	"github.com/msto63/stormsql/internal/history/store"
	"github.com/msto63/stormsql/pkg/core/config"
)

// Origins of recorded analyses
const (
	OriginCLI   = "cli"
	OriginREPL  = "repl"
	OriginGRPC  = "grpc"
	OriginWatch = "watch"
	OriginTUI   = "tui"
)

// Recorder writes analyses to a store. A nil *Recorder records nothing,
// so callers can hold one unconditionally.
type Recorder struct {
	store  store.Store
	logger *mdwlog.Logger
}

// NewRecorder wraps an existing store
func NewRecorder(s store.Store, logger *mdwlog.Logger) *Recorder {
	if logger == nil {
		logger = mdwlog.NewNop()
	}
	return &Recorder{store: s, logger: logger.WithField("component", "history")}
}

// Open opens the SQLite store configured in the [history] section and prunes
// entries past the retention period. It returns nil when history is disabled.
func Open(ctx context.Context, cfg config.HistoryConfig, logger *mdwlog.Logger) (*Recorder, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	s, err := store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.Path})
	if err != nil {
		return nil, err
	}

	r := NewRecorder(s, logger)
	if cfg.Retention.Duration > 0 {
		if _, err := r.Prune(ctx, cfg.Retention.Duration); err != nil {
			r.logger.WarnWithErr("history prune failed", err)
		}
	}
	return r, nil
}

// Prune deletes entries older than age and logs how long it took
func (r *Recorder) Prune(ctx context.Context, age time.Duration) (int64, error) {
	if r == nil {
		return 0, nil
	}
	timer := r.logger.StartTimer("history prune")
	n, err := r.store.Prune(ctx, age)
	timer.WithField("removed", n).StopWithError(err)
	return n, err
}

// Store returns the underlying store
func (r *Recorder) Store() store.Store {
	if r == nil {
		return nil
	}
	return r.store
}

// Record stores the outcome of an analysis. Storage failures are logged
// and returned; they never change the analysis result.
func (r *Recorder) Record(ctx context.Context, origin, operation, requestID string, analysis *stormsql.Analysis) (*store.Entry, error) {
	if r == nil || analysis == nil {
		return nil, nil
	}

	entry := EntryFor(origin, operation, analysis)
	entry.RequestID = requestID

	if err := r.store.Record(ctx, entry); err != nil {
		r.logger.WarnWithErr("failed to record history", err, mdwlog.Fields{"origin": origin})
		return nil, err
	}
	return entry, nil
}

// Close closes the underlying store
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	return r.store.Close()
}

// EntryFor converts an analysis into a history entry
func EntryFor(origin, operation string, analysis *stormsql.Analysis) *store.Entry {
	entry := &store.Entry{
		Timestamp:  time.Now().UTC(),
		Origin:     origin,
		Operation:  operation,
		Status:     store.StatusOK,
		Source:     analysis.Source,
		Formatted:  analysis.Reconstructed,
		TokenCount: len(analysis.Tokens),
		Statements: len(analysis.Statements),
		DurationMS: float64(analysis.Duration.Nanoseconds()) / 1e6,
	}

	if err := analysis.Err(); err != nil {
		entry.Status = store.StatusError
		entry.ErrorCode = mdwerror.GetCode(err).String()
		entry.ErrorMessage = err.Error()
		if coded, ok := err.(*mdwerror.Error); ok {
			entry.Metadata = coded.Details()
		}
	}
	return entry
}
