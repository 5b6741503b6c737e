package cli

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/scrubdata/scrub/pkg/clean"
)

// fileConfig is the TOML configuration file schema. Every field is
// optional; absent fields keep their pipeline defaults, and command-line
// flags override whatever the file sets.
//
//	numeric = "mean"
//	outliers = "delete"
//	outlier_factor = 3.0
//	encode = "label"
//	encode_targets = ["city", 2]
//	datetime = "M"
type fileConfig struct {
	Numeric       string            `toml:"numeric"`
	Categorical   string            `toml:"categorical"`
	Neighbors     *int              `toml:"neighbors"`
	Outliers      string            `toml:"outliers"`
	OutlierFactor *float64          `toml:"outlier_factor"`
	Datetime      string            `toml:"datetime"`
	Encode        string            `toml:"encode"`
	EncodeTargets []clean.ColumnRef `toml:"encode_targets"`
	OneHotLimit   *int              `toml:"onehot_limit"`
	Round         *int              `toml:"round"`
	LogFile       string            `toml:"log_file"`
	FileLog       *bool             `toml:"file_log"`
	ConsoleLog    *bool             `toml:"console_log"`
}

// loadConfig reads and decodes a TOML configuration file. Unknown keys
// are rejected so typos surface instead of silently keeping defaults.
func loadConfig(path string) (fileConfig, error) {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fileConfig{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fileConfig{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return fc, nil
}

// apply copies the file's settings onto opts. Validation happens later in
// the pipeline; this only translates the textual forms.
func (fc fileConfig) apply(opts *clean.Options) error {
	if fc.Numeric != "" {
		opts.Numeric = clean.NumericStrategy(fc.Numeric)
	}
	if fc.Categorical != "" {
		opts.Categorical = clean.CategoricalStrategy(fc.Categorical)
	}
	if fc.Neighbors != nil {
		opts.Neighbors = *fc.Neighbors
	}
	if fc.Outliers != "" {
		opts.Outliers = clean.OutlierStrategy(fc.Outliers)
	}
	if fc.OutlierFactor != nil {
		opts.OutlierFactor = *fc.OutlierFactor
	}
	if fc.Datetime != "" {
		g, err := clean.ParseGranularity(fc.Datetime)
		if err != nil {
			return err
		}
		opts.Datetime = g
	}
	if fc.Encode != "" {
		opts.Encoding.Policy = clean.EncodingPolicy(fc.Encode)
	}
	if len(fc.EncodeTargets) > 0 {
		opts.Encoding.Targets = fc.EncodeTargets
	}
	if fc.OneHotLimit != nil {
		opts.OneHotLimit = *fc.OneHotLimit
	}
	if fc.Round != nil {
		opts.RoundDecimals = *fc.Round
	}
	if fc.LogFile != "" {
		opts.LogFile = fc.LogFile
	}
	if fc.FileLog != nil {
		opts.FileLog = fc.FileLog
	}
	if fc.ConsoleLog != nil {
		opts.ConsoleLog = fc.ConsoleLog
	}
	return nil
}
