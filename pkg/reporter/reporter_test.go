package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohyperdown/pkg/reporter"
	"github.com/yaklabco/gohyperdown/pkg/runner"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "unknown format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatTable, true},
		{reporter.FormatJSON, true},
		{reporter.Format("sarif"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "table reporter", format: reporter.FormatTable},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rep, err := reporter.New(reporter.Options{Writer: &bytes.Buffer{}, Format: tt.format})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func sampleResult(base string) *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:     filepath.Join(base, "a.md"),
				Output:   filepath.Join(base, "a.html"),
				BytesIn:  10,
				BytesOut: 24,
				Written:  true,
				Duration: 3 * time.Millisecond,
			},
			{
				Path:     filepath.Join(base, "b.md"),
				Output:   filepath.Join(base, "b.html"),
				BytesIn:  5,
				BytesOut: 12,
			},
			{
				Path:  filepath.Join(base, "c.md"),
				Error: errors.New("boom"),
			},
		},
		Stats: runner.Stats{
			FilesDiscovered: 3,
			FilesRendered:   2,
			FilesWritten:    1,
			FilesUnchanged:  1,
			FilesErrored:    1,
			BytesIn:         15,
			BytesOut:        36,
		},
	}
}

func report(t *testing.T, opts reporter.Options, result *runner.Result) (string, int) {
	t.Helper()

	var buf bytes.Buffer
	opts.Writer = &buf
	opts.Color = "never"

	rep, err := reporter.New(opts)
	require.NoError(t, err)

	failed, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	return buf.String(), failed
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	base := t.TempDir()

	t.Run("one line", func(t *testing.T) {
		t.Parallel()

		out, failed := report(t, reporter.Options{Format: reporter.FormatText}, sampleResult(base))
		assert.Equal(t, 1, failed)
		assert.Equal(t, "Rendered 2 files (1 unchanged), 1 failed\n", out)
	})

	t.Run("verbose", func(t *testing.T) {
		t.Parallel()

		out, failed := report(t, reporter.Options{
			Format:     reporter.FormatText,
			Verbose:    true,
			WorkingDir: base,
		}, sampleResult(base))
		assert.Equal(t, 1, failed)
		assert.Contains(t, out, "a.md -> a.html  rendered")
		assert.Contains(t, out, "b.md -> b.html  unchanged")
		assert.Contains(t, out, "c.md  error  boom")
		assert.Contains(t, out, "Render failed for some files")
		assert.NotContains(t, out, base)
	})

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()

		out, failed := report(t, reporter.Options{}, nil)
		assert.Zero(t, failed)
		assert.Equal(t, "No files to render\n", out)
	})
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	out, failed := report(t, reporter.Options{Format: reporter.FormatTable, WorkingDir: base}, sampleResult(base))

	assert.Equal(t, 1, failed)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Contains(t, lines[0], "SOURCE")
	assert.Contains(t, out, "a.md")
	assert.Equal(t, "Rendered 2 files (1 unchanged), 1 failed", lines[len(lines)-1])
}

func TestTableReporter_Empty(t *testing.T) {
	t.Parallel()

	out, failed := report(t, reporter.Options{Format: reporter.FormatTable}, &runner.Result{})
	assert.Zero(t, failed)
	assert.Equal(t, "No files to render\n", out)
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	out, failed := report(t, reporter.Options{Format: reporter.FormatJSON}, sampleResult(base))
	assert.Equal(t, 1, failed)

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "1.0.0", decoded.Version)
	require.Len(t, decoded.Files, 3)

	assert.Equal(t, filepath.Join(base, "a.md"), decoded.Files[0].Path)
	assert.Equal(t, filepath.Join(base, "a.html"), decoded.Files[0].Output)
	assert.True(t, decoded.Files[0].Written)
	assert.Equal(t, 24, decoded.Files[0].BytesOut)
	assert.EqualValues(t, 3, decoded.Files[0].DurationMS)

	assert.False(t, decoded.Files[1].Written)
	assert.Empty(t, decoded.Files[1].Error)

	assert.Equal(t, "boom", decoded.Files[2].Error)
	assert.Empty(t, decoded.Files[2].Output)

	assert.Equal(t, reporter.JSONSummary{
		FilesDiscovered: 3,
		FilesRendered:   2,
		FilesWritten:    1,
		FilesUnchanged:  1,
		FilesErrored:    1,
		BytesIn:         15,
		BytesOut:        36,
	}, decoded.Summary)
}

func TestJSONReporter_Compact(t *testing.T) {
	t.Parallel()

	out, _ := report(t, reporter.Options{Format: reporter.FormatJSON, Compact: true}, nil)
	assert.Equal(t, `{"version":"1.0.0","files":[],"summary":{"filesDiscovered":0,"filesRendered":0,"filesWritten":0,"filesUnchanged":0,"filesErrored":0,"bytesIn":0,"bytesOut":0,"durationMs":0}}`+"\n", out)
}
