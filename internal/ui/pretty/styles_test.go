package pretty_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohyperdown/internal/ui/pretty"
)

func TestNewStyles_ColorDisabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(false)
	require.NotNil(t, styles)

	assert.Equal(t, "test", styles.Bold.Render("test"))
	assert.Equal(t, "test", styles.Error.Render("test"))
	assert.Equal(t, "test", styles.TableErrorRow.Render("test"))
}

func TestNewStyles_ColorEnabled(t *testing.T) {
	t.Parallel()

	styles := pretty.NewStyles(true)
	require.NotNil(t, styles)

	// Lipgloss may drop ANSI codes when not on a TTY, so only check the
	// text survives.
	for _, style := range []string{
		styles.Error.Render("x"),
		styles.Warning.Render("x"),
		styles.FilePath.Render("x"),
		styles.Arrow.Render("x"),
		styles.SummaryTitle.Render("x"),
		styles.Success.Render("x"),
		styles.Failure.Render("x"),
		styles.TableHeader.Render("x"),
		styles.TableWrittenRow.Render("x"),
		styles.TableUnchangedRow.Render("x"),
		styles.TableLegend.Render("x"),
		styles.Dim.Render("x"),
	} {
		assert.Contains(t, style, "x")
	}
}

func TestIsColorEnabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.True(t, pretty.IsColorEnabled("always", &buf))
	assert.False(t, pretty.IsColorEnabled("never", os.Stdout))
	assert.False(t, pretty.IsColorEnabled("auto", &buf), "a buffer is not a TTY")
	assert.False(t, pretty.IsColorEnabled("", &buf))
	assert.False(t, pretty.IsColorEnabled("unknown", &buf))
}

func TestIsColorEnabled_NoColorEnv(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.False(t, pretty.IsColorEnabled("auto", os.Stdout))
	assert.True(t, pretty.IsColorEnabled("always", os.Stdout))
}
