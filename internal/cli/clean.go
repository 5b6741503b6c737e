package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scrubdata/scrub/pkg/clean"
	"github.com/scrubdata/scrub/pkg/frame"
	scrubio "github.com/scrubdata/scrub/pkg/io"
)

// pickSentinel selects the interactive column picker when passed to
// --encode-targets.
const pickSentinel = "pick"

// cleanCommand creates the clean command, the main entry point of the tool.
func (c *CLI) cleanCommand() *cobra.Command {
	var (
		output     string
		configPath string
		reportPath string
		cacheSpec  string
		refresh    bool
		noFileLog  bool
		consoleLog bool

		numeric       string
		categorical   string
		neighbors     int
		outliers      string
		outlierFactor float64
		datetime      string
		encode        string
		targets       []string
		oneHotLimit   int
		round         int
		logFile       string
	)

	cmd := &cobra.Command{
		Use:   "clean [input]",
		Short: "Clean a CSV or JSON dataset",
		Long: `Clean a tabular dataset: impute or delete missing values, handle
outliers, extract datetime features, encode categoricals, and normalize
numeric types. The input format is detected from the file extension
(.csv or .json) and the cleaned dataset is written in the same format.

A TOML config file can preset any option; command-line flags take
precedence over the file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := clean.Options{}
			if configPath != "" {
				fc, err := loadConfig(configPath)
				if err != nil {
					return err
				}
				if err := fc.apply(&opts); err != nil {
					return err
				}
			}

			// Flags override the config file.
			flagSet := cmd.Flags()
			if flagSet.Changed("numeric") {
				opts.Numeric = clean.NumericStrategy(numeric)
			}
			if flagSet.Changed("categorical") {
				opts.Categorical = clean.CategoricalStrategy(categorical)
			}
			if flagSet.Changed("neighbors") {
				opts.Neighbors = neighbors
			}
			if flagSet.Changed("outliers") {
				opts.Outliers = clean.OutlierStrategy(outliers)
			}
			if flagSet.Changed("outlier-factor") {
				opts.OutlierFactor = outlierFactor
			}
			if flagSet.Changed("datetime") {
				g, err := clean.ParseGranularity(datetime)
				if err != nil {
					return err
				}
				opts.Datetime = g
			}
			if flagSet.Changed("encode") {
				opts.Encoding.Policy = clean.EncodingPolicy(encode)
			}
			if flagSet.Changed("onehot-limit") {
				opts.OneHotLimit = oneHotLimit
			}
			if flagSet.Changed("round") {
				opts.RoundDecimals = round
			}
			if flagSet.Changed("log-file") {
				opts.LogFile = logFile
			}
			if noFileLog {
				off := false
				opts.FileLog = &off
			}
			if consoleLog {
				on := true
				opts.ConsoleLog = &on
			}
			opts.Refresh = refresh

			return c.runClean(cmd.Context(), args[0], output, opts, targets, reportPath, cacheSpec)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.cleaned.<ext>)")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML config file presetting any option")
	cmd.Flags().StringVar(&reportPath, "report", "", "write the run report as JSON to this file")
	cmd.Flags().StringVar(&cacheSpec, "cache", "", "result cache: directory path, redis:// URL, or 'off'")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")

	cmd.Flags().StringVar(&numeric, "numeric", string(clean.NumericKNN), "numeric missing values: knn, mean, median, mode, delete, disabled")
	cmd.Flags().StringVar(&categorical, "categorical", string(clean.CategoricalMode), "categorical missing values: mode, delete, disabled")
	cmd.Flags().IntVar(&neighbors, "neighbors", clean.DefaultNeighbors, "neighbor count for knn imputation")
	cmd.Flags().StringVar(&outliers, "outliers", string(clean.OutlierWinz), "outlier handling: winz, delete, disabled")
	cmd.Flags().Float64Var(&outlierFactor, "outlier-factor", clean.DefaultOutlierFactor, "IQR multiplier for outlier bounds")
	cmd.Flags().StringVar(&datetime, "datetime", "s", "datetime granularity: D, M, Y, h, m, s, or off")
	cmd.Flags().StringVar(&encode, "encode", string(clean.EncodeAuto), "categorical encoding: auto, onehot, label, disabled")
	cmd.Flags().StringSliceVar(&targets, "encode-targets", nil, "columns to encode (name or index), or 'pick' for interactive selection")
	cmd.Flags().IntVar(&oneHotLimit, "onehot-limit", clean.DefaultOneHotLimit, "indicator-column count that triggers a warning")
	cmd.Flags().IntVar(&round, "round", clean.DefaultRoundDecimals, "decimals kept when rounding float columns")
	cmd.Flags().StringVar(&logFile, "log-file", clean.DefaultLogFile, "run log destination")
	cmd.Flags().BoolVar(&noFileLog, "no-file-log", false, "disable the run log file")
	cmd.Flags().BoolVar(&consoleLog, "console-log", false, "mirror the run log to stderr")

	return cmd
}

// runClean imports the dataset, resolves encoding targets, runs the
// pipeline and writes the outputs.
func (c *CLI) runClean(ctx context.Context, input, output string, opts clean.Options, targets []string, reportPath, cacheSpec string) error {
	ds, err := importDataset(input)
	if err != nil {
		return err
	}

	opts.Encoding.Targets, err = resolveTargets(ds, opts, targets)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cacheSpec)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Cleaning %s...", filepath.Base(input)))
	spinner.Start()

	result, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		spinner.StopWithError("Cleaning failed")
		return err
	}
	spinner.Stop()

	if output == "" {
		output = defaultOutput(input)
	}
	if err := exportDataset(result.Frame, output); err != nil {
		return err
	}

	printSuccess("Cleaned %s", filepath.Base(input))
	printStats(result.Frame.Len(), result.Frame.Width(), result.CacheHit)
	printFile(output)

	for _, stage := range result.Report.Stages {
		for _, o := range stage.Outcomes {
			if o.Action == clean.ActionSkip && o.Reason != "" {
				subject := o.Column
				if subject == "" {
					subject = stage.Stage
				}
				printWarning("%s: %s", subject, o.Reason)
			}
		}
	}

	if reportPath != "" {
		if err := writeReport(result, reportPath); err != nil {
			return err
		}
		printFile(reportPath)
	}
	return nil
}

// resolveTargets converts the --encode-targets values into column
// references, launching the interactive picker for the pick sentinel.
func resolveTargets(ds *frame.Frame, opts clean.Options, targets []string) ([]clean.ColumnRef, error) {
	if len(targets) == 0 {
		return opts.Encoding.Targets, nil
	}
	refs := make([]clean.ColumnRef, 0, len(targets))
	for _, t := range targets {
		if t == pickSentinel {
			picked, err := pickColumns(ds.NonNumericNames())
			if err != nil {
				return nil, err
			}
			for _, name := range picked {
				refs = append(refs, clean.ColumnName(name))
			}
			continue
		}
		refs = append(refs, clean.ParseColumnRef(t))
	}
	return refs, nil
}

// importDataset reads a dataset, detecting the format from the extension.
func importDataset(path string) (*frame.Frame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return scrubio.ImportCSV(path)
	case ".json":
		return scrubio.ImportJSON(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (expected .csv or .json)", filepath.Ext(path))
	}
}

// exportDataset writes a dataset, detecting the format from the extension.
func exportDataset(ds *frame.Frame, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return scrubio.ExportCSV(ds, path)
	case ".json":
		return scrubio.ExportJSON(ds, path)
	default:
		return fmt.Errorf("unsupported output format %q (expected .csv or .json)", filepath.Ext(path))
	}
}

// defaultOutput derives the output path: data.csv becomes data.cleaned.csv.
func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".cleaned" + ext
}

// writeReport dumps the run report (stages, outcomes, label mappings) as JSON.
func writeReport(result *clean.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		RunID  string                         `json:"run_id"`
		Cached bool                           `json:"cached"`
		Report clean.Report                   `json:"report"`
		Labels map[string]*clean.LabelMapping `json:"labels,omitempty"`
	}{
		RunID:  result.RunID,
		Cached: result.CacheHit,
		Report: result.Report,
		Labels: result.Labels,
	})
}
