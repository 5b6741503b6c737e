package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scrubdata/scrub/pkg/clean"
	"github.com/scrubdata/scrub/pkg/frame"
)

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"data.csv", "data.cleaned.csv"},
		{"data.json", "data.cleaned.json"},
		{"dir/data.csv", "dir/data.cleaned.csv"},
		{"noext", "noext.cleaned"},
	}
	for _, tt := range tests {
		if got := defaultOutput(tt.input); got != tt.want {
			t.Errorf("defaultOutput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestImportDatasetUnsupportedFormat(t *testing.T) {
	_, err := importDataset("data.xlsx")
	if err == nil || !strings.Contains(err.Error(), "unsupported input format") {
		t.Errorf("importDataset(xlsx) err = %v", err)
	}
}

func TestExportDatasetUnsupportedFormat(t *testing.T) {
	ds, err := frame.New(frame.Ints("a", 1))
	if err != nil {
		t.Fatal(err)
	}
	if err := exportDataset(ds, "out.parquet"); err == nil {
		t.Error("exportDataset(parquet) should fail")
	}
}

func TestResolveTargets(t *testing.T) {
	ds, err := frame.New(
		frame.Ints("id", 1, 2),
		frame.Strings("city", "oslo", "bergen"),
	)
	if err != nil {
		t.Fatal(err)
	}

	refs, err := resolveTargets(ds, clean.Options{}, []string{"city", "0"})
	if err != nil {
		t.Fatal(err)
	}
	want := []clean.ColumnRef{clean.ColumnName("city"), clean.ColumnIndex(0)}
	if len(refs) != len(want) {
		t.Fatalf("resolveTargets = %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("refs[%d] = %v, want %v", i, refs[i], want[i])
		}
	}
}

func TestResolveTargetsEmptyKeepsConfigured(t *testing.T) {
	ds, err := frame.New(frame.Strings("city", "oslo"))
	if err != nil {
		t.Fatal(err)
	}

	opts := clean.Options{}
	opts.Encoding.Targets = []clean.ColumnRef{clean.ColumnName("city")}

	refs, err := resolveTargets(ds, opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 1 || refs[0] != clean.ColumnName("city") {
		t.Errorf("configured targets lost: %v", refs)
	}
}

// runCommand executes the root command with args against a fresh CLI.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestCleanCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	output := filepath.Join(dir, "out.csv")
	if err := os.WriteFile(input, []byte("id,score\n1,2.5\n2,\n3,4.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runCommand(t, "clean", input,
		"-o", output,
		"--cache", "off",
		"--no-file-log",
		"--numeric", "mean",
		"--datetime", "off",
		"--encode", "disabled",
	)
	if err != nil {
		t.Fatalf("clean command failed: %v", err)
	}

	got, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	want := "id,score\n1,2.5\n2,3.5\n3,4.5\n"
	if string(got) != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestCleanCommandFlagOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	output := filepath.Join(dir, "out.csv")
	config := filepath.Join(dir, "scrub.toml")
	if err := os.WriteFile(input, []byte("id,score\n1,2.5\n2,\n3,4.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(config, []byte(`numeric = "delete"`), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runCommand(t, "clean", input,
		"-o", output,
		"--config", config,
		"--cache", "off",
		"--no-file-log",
		"--numeric", "mean",
		"--datetime", "off",
		"--encode", "disabled",
	)
	if err != nil {
		t.Fatalf("clean command failed: %v", err)
	}

	ds, err := importDataset(output)
	if err != nil {
		t.Fatal(err)
	}
	// The flag's mean imputation wins over the config's delete: the
	// row with the gap survives.
	if ds.Len() != 3 {
		t.Errorf("rows = %d, want 3 (mean flag should override delete config)", ds.Len())
	}
}

func TestCleanCommandWritesReport(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	report := filepath.Join(dir, "report.json")
	if err := os.WriteFile(input, []byte("id,score\n1,2.5\n2,\n3,4.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runCommand(t, "clean", input,
		"-o", filepath.Join(dir, "out.csv"),
		"--cache", "off",
		"--no-file-log",
		"--report", report,
	)
	if err != nil {
		t.Fatalf("clean command failed: %v", err)
	}

	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"run_id"`, `"report"`, `"stages"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report missing %s:\n%s", want, data)
		}
	}
}

func TestCleanCommandBadConfig(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "data.csv")
	config := filepath.Join(dir, "scrub.toml")
	if err := os.WriteFile(input, []byte("id\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(config, []byte(`numerics = "mean"`), 0o644); err != nil {
		t.Fatal(err)
	}

	err := runCommand(t, "clean", input, "--config", config, "--cache", "off", "--no-file-log")
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("expected unknown key error, got %v", err)
	}
}
