package generator

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mukesh1352/navcart/internal/domain"
)

// WriteLayout serializes the layout as YAML to path, creating parent directories.
func WriteLayout(layout domain.Layout, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return domain.SaveLayout(path, layout)
}

// EncodeLayout writes the layout as YAML to w.
func EncodeLayout(w io.Writer, layout domain.Layout) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(layout); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return encoder.Close()
}
