package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gohyperdown/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies slices", func(t *testing.T) {
		t.Parallel()

		original := config.NewConfig()
		original.ExtraWhitelist = []string{"mark"}
		original.Ignore = []string{"*.md", "vendor/**"}
		original.Jobs = 4

		clone := original.Clone()
		require.NotNil(t, clone)
		assert.NotSame(t, original, clone)
		assert.Equal(t, original, clone)

		clone.Ignore[0] = "changed"
		clone.ExtraWhitelist[0] = "kbd"
		assert.Equal(t, "*.md", original.Ignore[0])
		assert.Equal(t, "mark", original.ExtraWhitelist[0])
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var cfg *config.Config
		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.AllowRawHTML = true
		cfg.Highlight.Enabled = true
		cfg.Jobs = 3

		data, err := cfg.ToYAML()
		require.NoError(t, err)
		assert.Contains(t, string(data), "allow_raw_html: true")
		assert.NotContains(t, string(data), "jobs")

		back, err := config.FromYAML(data)
		require.NoError(t, err)
		cfg.Jobs = 0
		assert.Equal(t, cfg, back)
	})

	t.Run("header", func(t *testing.T) {
		t.Parallel()

		data, err := config.NewConfig().ToYAMLWithHeader("# head")
		require.NoError(t, err)
		assert.Regexp(t, `^# head\n\nallow_raw_html`, string(data))
	})
}

func TestOverlay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		data  string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "empty keeps defaults",
			data: "",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, config.NewConfig(), cfg)
			},
		},
		{
			name: "explicit false overrides default",
			data: "math: false\n",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.False(t, cfg.Math)
				assert.Equal(t, config.DefaultMaxDepth, cfg.MaxDepth)
			},
		},
		{
			name: "nested keys keep siblings",
			data: "highlight:\n  enabled: true\n",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.True(t, cfg.Highlight.Enabled)
				assert.Equal(t, config.DefaultHighlightStyle, cfg.Highlight.Style)
			},
		},
		{
			name: "lists replace",
			data: "extra_whitelist: [kbd]\nignore: [\"drafts/**\"]\n",
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, []string{"kbd"}, cfg.ExtraWhitelist)
				assert.Equal(t, []string{"drafts/**"}, cfg.Ignore)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			require.NoError(t, cfg.Overlay([]byte(tt.data)))
			tt.check(t, cfg)
		})
	}
}

func TestFromYAML_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.FromYAML([]byte("max_depth: [not, a, number]"))
	require.Error(t, err)
}

func TestGenerateTemplate(t *testing.T) {
	t.Parallel()

	t.Run("full template parses to defaults", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Full: true})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)

		want := config.NewConfig()
		want.ExtraWhitelist = []string{}
		want.Ignore = []string{"vendor/**", "node_modules/**", ".git/**"}
		assert.Equal(t, want, cfg)
	})

	t.Run("minimal template is all comments", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{})
		require.NoError(t, err)

		cfg, err := config.FromYAML(data)
		require.NoError(t, err)
		assert.Equal(t, config.NewConfig(), cfg)
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		data, err := config.GenerateTemplate(config.TemplateOptions{Format: "json"})
		require.NoError(t, err)

		var values map[string]any
		require.NoError(t, json.Unmarshal(data, &values))
		assert.Equal(t, true, values["math"])
		assert.InDelta(t, 64, values["max_depth"], 0)
	})
}
