package configloader

import (
	"fmt"
	"os"

	"github.com/yaklabco/gohyperdown/pkg/config"
)

// Override mutates a configuration after all files and the environment
// have been applied.
type Override func(cfg *config.Config)

// overlayFile decodes the YAML file at path over cfg. Keys the file does
// not mention keep their current values, so a later layer can switch off
// a default-on setting by writing false.
func overlayFile(cfg *config.Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := cfg.Overlay(content); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func applyOverrides(cfg *config.Config, overrides []Override) {
	for _, override := range overrides {
		if override != nil {
			override(cfg)
		}
	}
}
