// Package service implements the SQL front-end operations offered by the
// daemon, independent of the transport.
package service

import (
	"context"
	"sync"
	"time"

	mdwerror "github.com/msto63/stormsql/foundation/core/error"
	mdwlog "github.com/msto63/stormsql/foundation/core/log"
	"github.com/msto63/stormsql/foundation/stormsql"
	"github.com/msto63/stormsql/foundation/stormsql/lexer"
	"github.com/msto63/stormsql/internal/history"
	"github.com/msto63/stormsql/internal/history/store"
	"github.com/msto63/stormsql/pkg/core/cache"
)

// Operation names, also used as history operations
const (
	OpLex    = "lex"
	OpParse  = "parse"
	OpFormat = "format"
	OpCheck  = "check"
)

// CanarySource is analysed by the health check
const CanarySource = "SELECT 1;"

// Service runs front-end requests
type Service struct {
	withComments    *stormsql.Engine
	withoutComments *stormsql.Engine
	recorder        *history.Recorder
	formatted       *cache.Cache[string]
	logger          *mdwlog.Logger
	origin          string

	mu        sync.Mutex
	requests  map[string]int64
	failures  map[string]int64
	startTime time.Time
}

// Config holds configuration for the front-end service
type Config struct {
	MaxSourceBytes int
	// Recorder receives every analysis; nil disables history
	Recorder *history.Recorder
	// Origin is stored with history entries
	Origin string
	// FormatCache holds Format results keyed by source; MaxItems < 0
	// disables it
	FormatCache cache.Config
	Logger      *mdwlog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MaxSourceBytes: stormsql.DefaultMaxSourceBytes,
		Origin:         history.OriginGRPC,
		FormatCache:    cache.DefaultConfig(),
	}
}

// NewService creates a new front-end service
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = mdwlog.NewNop()
	}
	if cfg.Origin == "" {
		cfg.Origin = history.OriginGRPC
	}

	engineOpts := stormsql.Options{Logger: logger, MaxSourceBytes: cfg.MaxSourceBytes}
	withComments := engineOpts
	withComments.IncludeComments = true

	var formatted *cache.Cache[string]
	if cfg.FormatCache.MaxItems >= 0 {
		formatted = cache.New[string](cfg.FormatCache)
	}

	return &Service{
		withComments:    stormsql.New(withComments),
		withoutComments: stormsql.New(engineOpts),
		recorder:        cfg.Recorder,
		formatted:       formatted,
		logger:          logger.WithField("component", "frontend"),
		origin:          cfg.Origin,
		requests:        make(map[string]int64),
		failures:        make(map[string]int64),
		startTime:       time.Now(),
	}
}

func (s *Service) engine(includeComments bool) *stormsql.Engine {
	if includeComments {
		return s.withComments
	}
	return s.withoutComments
}

func (s *Service) count(op string, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[op]++
	if failed {
		s.failures[op]++
	}
}

// Lex tokenizes source. Lexer diagnostics are part of the result.
func (s *Service) Lex(ctx context.Context, source string, includeComments bool) (lexer.Result, error) {
	if err := ctx.Err(); err != nil {
		return lexer.Result{}, err
	}

	result, err := s.engine(includeComments).Lex(source)
	s.count(OpLex, err != nil || !result.OK())
	return result, err
}

// Parse analyses source. Lex and parse failures are part of the analysis.
func (s *Service) Parse(ctx context.Context, requestID, source string) (*stormsql.Analysis, error) {
	return s.analyze(ctx, OpParse, requestID, source, false)
}

// Check analyses source keeping comments in the token stream and the
// reconstruction.
func (s *Service) Check(ctx context.Context, requestID, source string) (*stormsql.Analysis, error) {
	return s.analyze(ctx, OpCheck, requestID, source, true)
}

// Format returns the canonical reconstruction of source. Unlike the other
// operations a lex failure is returned as an error. Cached results are
// not recorded in the history again.
func (s *Service) Format(ctx context.Context, requestID, source string) (string, error) {
	key := cache.Key(OpFormat, source)
	if s.formatted != nil {
		if text, ok := s.formatted.Get(key); ok {
			s.count(OpFormat, false)
			return text, nil
		}
	}

	analysis, err := s.analyze(ctx, OpFormat, requestID, source, true)
	if err != nil {
		return "", err
	}
	if len(analysis.LexErrors) > 0 {
		return "", analysis.Err()
	}

	if s.formatted != nil {
		s.formatted.Set(key, analysis.Reconstructed)
	}
	return analysis.Reconstructed, nil
}

func (s *Service) analyze(ctx context.Context, op, requestID, source string, includeComments bool) (*stormsql.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	analysis, err := s.engine(includeComments).Analyze(source)
	if err != nil {
		s.count(op, true)
		return nil, err
	}
	s.count(op, !analysis.OK())

	if _, err := s.recorder.Record(ctx, s.origin, op, requestID, analysis); err != nil {
		s.logger.WithRequestID(requestID).Debug("analysis not recorded", mdwlog.Fields{"operation": op})
	}
	return analysis, nil
}

// History lists recorded analyses
func (s *Service) History(ctx context.Context, filter store.Filter) ([]*store.Entry, error) {
	st := s.recorder.Store()
	if st == nil {
		return nil, mdwerror.New("history is disabled").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation("history")
	}
	return st.Query(ctx, filter)
}

// HealthCheck runs the canary statement through every stage
func (s *Service) HealthCheck(ctx context.Context) error {
	analysis, err := s.withComments.Analyze(CanarySource)
	if err != nil {
		return err
	}
	if err := analysis.Err(); err != nil {
		return mdwerror.Wrap(err, "canary analysis failed").WithCode(mdwerror.CodeInternal)
	}
	return ctx.Err()
}

// Stats reports request counters
type Stats struct {
	Uptime         time.Duration    `json:"uptime"`
	Requests       map[string]int64 `json:"requests"`
	Failures       map[string]int64 `json:"failures"`
	FormatCacheHit int64            `json:"format_cache_hits"`
}

// Stats returns a snapshot of the request counters
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Uptime:   time.Since(s.startTime),
		Requests: make(map[string]int64, len(s.requests)),
		Failures: make(map[string]int64, len(s.failures)),
	}
	for k, v := range s.requests {
		stats.Requests[k] = v
	}
	for k, v := range s.failures {
		stats.Failures[k] = v
	}
	if s.formatted != nil {
		stats.FormatCacheHit, _, _ = s.formatted.Stats()
	}
	return stats
}

// Close releases the history store
func (s *Service) Close() error {
	if s.formatted != nil {
		s.formatted.Close()
	}
	return s.recorder.Close()
}
