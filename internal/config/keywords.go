package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"penaudit/internal/detect"
)

// LoadKeywords returns the detector pattern tables: the built-in defaults,
// extended by the project's TOML overlay when one exists. Overlay entries
// are additive; they never remove built-in patterns.
func LoadKeywords(projectDir, keywordsFile string) (*detect.Keywords, error) {
	base := detect.DefaultKeywords()
	if keywordsFile == "" {
		return base, nil
	}

	path := keywordsFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectDir, keywordsFile)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return base, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read keywords overlay: %w", err)
	}

	var overlay detect.Keywords
	if err := toml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("invalid keywords overlay %s: %w", path, err)
	}
	return base.Merge(&overlay), nil
}
