package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrubdata/scrub/pkg/clean"
)

// writeConfig drops a TOML file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scrub.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
numeric = "median"
categorical = "mode"
neighbors = 5
outliers = "delete"
outlier_factor = 3.0
datetime = "M"
encode = "label"
encode_targets = ["city", 2]
onehot_limit = 12
round = 4
log_file = "custom.log"
file_log = false
console_log = true
`)

	fc, err := loadConfig(path)
	require.NoError(t, err)

	var opts clean.Options
	require.NoError(t, fc.apply(&opts))

	assert.Equal(t, clean.NumericMedian, opts.Numeric)
	assert.Equal(t, clean.CategoricalMode, opts.Categorical)
	assert.Equal(t, 5, opts.Neighbors)
	assert.Equal(t, clean.OutlierDelete, opts.Outliers)
	assert.Equal(t, 3.0, opts.OutlierFactor)
	assert.Equal(t, clean.GranularityMonth, opts.Datetime)
	assert.Equal(t, clean.EncodeLabel, opts.Encoding.Policy)
	assert.Equal(t, []clean.ColumnRef{clean.ColumnName("city"), clean.ColumnIndex(2)}, opts.Encoding.Targets)
	assert.Equal(t, 12, opts.OneHotLimit)
	assert.Equal(t, 4, opts.RoundDecimals)
	assert.Equal(t, "custom.log", opts.LogFile)
	require.NotNil(t, opts.FileLog)
	assert.False(t, *opts.FileLog)
	require.NotNil(t, opts.ConsoleLog)
	assert.True(t, *opts.ConsoleLog)
}

func TestLoadConfigEmptyKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "")

	fc, err := loadConfig(path)
	require.NoError(t, err)

	var opts clean.Options
	require.NoError(t, fc.apply(&opts))

	// apply must not touch anything when the file is empty
	assert.Equal(t, clean.Options{}, opts)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfig(t, `numerics = "mean"`)

	_, err := loadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
	assert.Contains(t, err.Error(), "numerics")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestApplyBadGranularity(t *testing.T) {
	path := writeConfig(t, `datetime = "weekly"`)

	fc, err := loadConfig(path)
	require.NoError(t, err)

	var opts clean.Options
	require.Error(t, fc.apply(&opts))
}
