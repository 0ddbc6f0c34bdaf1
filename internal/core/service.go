package core

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/JonMunkholm/buildprops/internal/logging"
	"github.com/JonMunkholm/buildprops/internal/store"
	"github.com/JonMunkholm/buildprops/internal/table"
	"github.com/google/uuid"
)

// ErrInvalidBody marks a request payload that could not be decoded.
var ErrInvalidBody = errors.New("invalid request body")

// PropertySource is the storage the service reads and writes.
// Satisfied by *store.Store.
type PropertySource interface {
	ListProperties(ctx context.Context, job string) ([]store.Property, error)
	ListJobs(ctx context.Context) ([]string, error)
	RecordBatch(ctx context.Context, props []store.NewProperty) ([]uuid.UUID, error)
}

// Service builds property tables and records new properties.
type Service struct {
	props   PropertySource
	opts    table.Options
	limiter *BuildLimiter
}

// NewService creates a Service. opts is used for every table it builds.
func NewService(props PropertySource, opts table.Options) *Service {
	return &Service{props: props, opts: opts}
}

// WithBuildLimiter bounds concurrent BuildTable calls with l.
func (s *Service) WithBuildLimiter(l *BuildLimiter) *Service {
	s.limiter = l
	return s
}

// WaitForBuilds blocks until in-flight table builds finish or ctx is done.
func (s *Service) WaitForBuilds(ctx context.Context) error {
	if s.limiter == nil {
		return nil
	}
	return s.limiter.WaitForDrain(ctx)
}

// Jobs returns the names of all jobs with recorded properties.
func (s *Service) Jobs(ctx context.Context) ([]string, error) {
	return s.props.ListJobs(ctx)
}

// Views returns all registered views.
func (s *Service) Views() []ViewDefinition {
	return All()
}

// BuildTable materializes the view of a job's properties: one row per build,
// one column per property name accepted by the view pattern.
//
// Each call builds a fresh table, so tables are never shared between requests.
func (s *Service) BuildTable(ctx context.Context, job, viewKey string) (*table.Table, error) {
	def, ok := Get(viewKey)
	if !ok {
		return nil, fmt.Errorf("build table %s/%s: %w", job, viewKey, ErrViewNotFound)
	}

	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			return nil, fmt.Errorf("build table %s/%s: %w", job, viewKey, err)
		}
		defer s.limiter.Release()
	}

	props, err := s.props.ListProperties(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("build table %s/%s: %w", job, viewKey, err)
	}

	t := table.New(def.Title, def.Regexp(), s.opts)
	skipped := 0
	for _, p := range props {
		if pattern := t.Pattern(); pattern != nil && !pattern.MatchString(p.Name) {
			skipped++
			continue
		}
		if err := t.AddRawData(p.Build, p.Name, p.Value); err != nil {
			return nil, fmt.Errorf("build table %s/%s: %w", job, viewKey, err)
		}
	}
	t.ProcessRaw()

	logging.FromContext(ctx).Debug("table built",
		"job", job,
		"view", viewKey,
		"properties", len(props),
		"skipped", skipped,
		"rows", len(t.Rows()),
		"columns", len(t.Headers()),
	)
	return t, nil
}

// RecordProperties stores the properties of one build as a single batch:
// on error nothing is recorded. String values in RFC 3339 form are stored
// as timestamps. Returns the number recorded.
func (s *Service) RecordProperties(ctx context.Context, job, build string, props map[string]any) (int, error) {
	if job == "" || build == "" {
		return 0, fmt.Errorf("record properties (job %q, build %q): %w", job, build, table.ErrInvalidArgument)
	}

	batch := make([]store.NewProperty, 0, len(props))
	for _, name := range slices.Sorted(maps.Keys(props)) {
		batch = append(batch, store.NewProperty{
			Job:   job,
			Build: build,
			Name:  name,
			Value: parseValue(props[name]),
		})
	}

	ids, err := s.props.RecordBatch(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("record properties for %s/%s: %w", job, build, err)
	}
	recorded := len(ids)

	reporter := ReporterFromContext(ctx)
	logging.WithFields(ctx, "job", job, "build", build).Info("properties recorded",
		"count", recorded,
		"reporter_ip", reporter.IP,
		"reporter_agent", reporter.UserAgent,
	)
	return recorded, nil
}

// parseValue promotes RFC 3339 strings to time.Time.
func parseValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return s
}
