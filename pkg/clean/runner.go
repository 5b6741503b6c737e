package clean

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/scrubdata/scrub/pkg/cache"
	"github.com/scrubdata/scrub/pkg/errors"
	"github.com/scrubdata/scrub/pkg/frame"
	"github.com/scrubdata/scrub/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different datasets: every Execute works on its own copy.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, logging is discarded.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete cleaning pipeline on a working copy of ds and
// returns the cleaned dataset with its run report. The caller's dataset is
// never mutated. Whole runs are memoized: equal dataset content with equal
// option axes is served from the cache unless opts.Refresh is set.
//
// Configuration is validated before any data is touched; an invalid
// option aborts the run with a CodeInvalidOption error.
func (r *Runner) Execute(ctx context.Context, ds *frame.Frame, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	logger := opts.Logger

	// Compute cache key from dataset content and the option axes.
	var cacheKey string
	if data, err := frame.MarshalFrame(ds); err == nil {
		cacheKey = r.Keyer.CleanKey(cache.Hash(data), opts.CleanKeyOpts())
	}

	if cacheKey != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "clean")
				cached.CacheHit = true
				logger.Info("served cleaned dataset from cache", "run_id", cached.RunID)
				return &cached, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "clean")
	}

	work := ds.Clone()
	result := &Result{
		Frame:  work,
		RunID:  uuid.NewString(),
		Labels: make(map[string]*LabelMapping),
	}
	logger.Info("started cleaning", "run_id", result.RunID, "rows", work.Len(), "columns", work.Width())

	// Missing-value handling. The categorical pass runs first when it
	// imputes while the numeric pass deletes, so imputation rescues rows
	// whose only gaps are categorical; every other combination runs the
	// numeric pass first.
	if opts.categoricalFirst() {
		r.runStage(ctx, StageMissingCategorical, work, result, logger, func() []Outcome {
			return missingCategorical(work, opts, logger)
		})
		r.runStage(ctx, StageMissingNumeric, work, result, logger, func() []Outcome {
			return missingNumeric(work, opts, logger)
		})
	} else {
		r.runStage(ctx, StageMissingNumeric, work, result, logger, func() []Outcome {
			return missingNumeric(work, opts, logger)
		})
		r.runStage(ctx, StageMissingCategorical, work, result, logger, func() []Outcome {
			return missingCategorical(work, opts, logger)
		})
	}

	r.runStage(ctx, StageOutliers, work, result, logger, func() []Outcome {
		return handleOutliers(work, opts, logger)
	})
	r.runStage(ctx, StageDatetime, work, result, logger, func() []Outcome {
		return extractDatetime(work, opts, logger)
	})
	r.runStage(ctx, StageEncode, work, result, logger, func() []Outcome {
		return encodeCategorical(work, opts, result.Labels, logger)
	})
	r.runStage(ctx, StageNormalize, work, result, logger, func() []Outcome {
		return normalizeTypes(work, opts, logger)
	})

	logger.Info("cleaning completed", "run_id", result.RunID, "rows", work.Len(), "columns", work.Width())

	// A refresh run still stores its result so it replaces the stale entry.
	if cacheKey != "" {
		if data, err := json.Marshal(result); err == nil {
			if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLClean); err == nil {
				observability.Cache().OnCacheSet(ctx, "clean", len(data))
			}
		}
	}
	return result, nil
}

// runStage executes one pipeline stage, times it, and records the stage
// report. Stage boundaries are reported to the observability hooks.
func (r *Runner) runStage(ctx context.Context, stage string, work *frame.Frame, result *Result, logger *log.Logger, fn func() []Outcome) {
	rowsBefore := work.Len()
	observability.Stage().OnStageStart(ctx, stage, rowsBefore)
	logger.Info("stage started", "stage", stage, "rows", rowsBefore)

	start := time.Now()
	outcomes := fn()
	duration := time.Since(start)

	for _, o := range outcomes {
		observability.Stage().OnColumnOutcome(ctx, stage, o.Column, o.Action)
	}
	observability.Stage().OnStageComplete(ctx, stage, work.Len(), duration, nil)
	logger.Info("stage completed", "stage", stage, "rows", work.Len(),
		"duration", duration.Round(time.Microsecond))

	result.Report.Stages = append(result.Report.Stages, StageReport{
		Stage:      stage,
		RowsBefore: rowsBefore,
		RowsAfter:  work.Len(),
		Duration:   duration,
		Outcomes:   outcomes,
	})
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Clean runs the pipeline without a cache, building the log sinks the
// options describe: an optional console sink on stderr and an optional
// overwrite-mode log file. Each invocation gets its own logger, so
// concurrent runs do not interleave their output.
func Clean(ctx context.Context, ds *frame.Frame, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	if opts.Logger == nil {
		var sinks []io.Writer
		if opts.ConsoleLogEnabled() {
			sinks = append(sinks, os.Stderr)
		}
		if opts.FileLogEnabled() {
			f, err := os.Create(opts.LogFile)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeIOWrite, err, "create log file %s", opts.LogFile)
			}
			defer f.Close()
			sinks = append(sinks, f)
		}
		w := io.Writer(io.Discard)
		if len(sinks) > 0 {
			w = io.MultiWriter(sinks...)
		}
		opts.Logger = log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           log.DebugLevel,
		})
	}

	return NewRunner(nil, nil, opts.Logger).Execute(ctx, ds, opts)
}
