package render

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// LoadLayout reads a YAML layout file. Keys that are absent keep their
// DefaultLayout values.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout decodes YAML layout settings over DefaultLayout.
func ParseLayout(data []byte) (Layout, error) {
	layout := DefaultLayout()
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	if layout.Margin < 0 || layout.TitleSize < 0 || layout.BodySize < 0 || layout.LineHeight < 0 || layout.TitleGap < 0 {
		return Layout{}, fmt.Errorf("parse layout: sizes must not be negative")
	}
	return layout, nil
}
