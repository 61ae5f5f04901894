package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp_Root(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "gohyperdown converts HyperDown")
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "Commands:")
	for _, name := range []string{"render", "init", "config", "css", "version"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "--color string")
	assert.Contains(t, out, `(default "auto")`)
}

func TestHelp_Render(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "", "render", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "Examples:")
	assert.Contains(t, out, "-H, --html")
	assert.Contains(t, out, "-l, --line")
	assert.Contains(t, out, "--max-depth int")
	assert.Contains(t, out, "(default 64)")
	assert.Contains(t, out, `(default "github")`)
	assert.Contains(t, out, "--ignore strings")
	assert.Contains(t, out, "Global Flags:")
	assert.Contains(t, out, "--no-config")
	assert.NotContains(t, out, "(default false)")
}
