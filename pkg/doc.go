// Package pkg provides the core libraries for scrub tabular data cleaning.
//
// # Overview
//
// Scrub takes messy tabular data and returns an analysis-ready dataset:
// missing values imputed, outliers handled, timestamps decomposed, and
// categorical columns encoded. The pkg directory is organized into five
// main areas:
//
//  1. [frame] - Columnar dataset model (typed columns, missing values)
//  2. [clean] - The cleaning pipeline (stages, options, runner)
//  3. [io] - Import/export (CSV, JSON)
//  4. [cache] - Result memoization (file, Redis)
//  5. [observability] - Stage, cache, and HTTP hooks (Prometheus)
//
// # Architecture
//
// The typical data flow through scrub:
//
//	CSV/JSON input
//	         ↓
//	    [io] package (parse + dtype inference)
//	         ↓
//	    [frame] package (typed columnar dataset)
//	         ↓
//	    [clean] package (missing → outliers → datetime → encode → round)
//	         ↓
//	    CSV/JSON output + report
//
// # Quick Start
//
// Import a dataset and run the pipeline with defaults:
//
//	import (
//	    "context"
//	    "github.com/scrubdata/scrub/pkg/clean"
//	    "github.com/scrubdata/scrub/pkg/io"
//	)
//
//	// 1. Import
//	ds, _ := io.ImportCSV("data.csv")
//
//	// 2. Clean
//	result, _ := clean.Clean(context.Background(), ds, clean.Options{})
//
//	// 3. Export
//	_ = io.ExportCSV(result.Frame, "data.cleaned.csv")
//
// # Main Packages
//
// [frame] - Columnar dataset with int64, float64, string, and timestamp
// columns. Missing values are explicit; integer columns promote to float
// when a gap appears, mirroring the usual dataframe convention.
//
// [clean] - The six-stage pipeline: categorical missing values, numeric
// missing values (mean, median, mode, KNN, delete), IQR outlier handling
// (winsorize or delete), datetime component extraction, categorical
// encoding (one-hot or label), and numeric normalization. Options select
// a strategy per stage; the Report records every action taken.
//
// [io] - CSV and JSON import with automatic dtype inference, and export
// that preserves column order and missing-value markers.
//
// [cache] - Content-addressed result memoization keyed on the dataset and
// options. FileCache for the CLI, RedisCache for the server, NullCache to
// disable.
//
// [observability] - Pluggable hooks for stage timings, cache traffic, and
// HTTP requests, with a Prometheus implementation.
//
// [errors] - Coded errors shared across the module. Codes group failures
// by concern (options, columns, IO, cache) for user-facing messages and
// HTTP status mapping.
//
// [buildinfo] - Build-time version information set via ldflags.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/clean/...    # Specific package
//	go test -run Example       # Examples only
//
// [frame]: https://pkg.go.dev/github.com/scrubdata/scrub/pkg/frame
// [clean]: https://pkg.go.dev/github.com/scrubdata/scrub/pkg/clean
// [io]: https://pkg.go.dev/github.com/scrubdata/scrub/pkg/io
// [cache]: https://pkg.go.dev/github.com/scrubdata/scrub/pkg/cache
// [observability]: https://pkg.go.dev/github.com/scrubdata/scrub/pkg/observability
// [errors]: https://pkg.go.dev/github.com/scrubdata/scrub/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/scrubdata/scrub/pkg/buildinfo
package pkg
