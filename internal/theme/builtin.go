package theme

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/themes.yaml
var builtinThemesYAML []byte

// File is the on-disk theme file format: a list of descriptors. Custom
// theme packs loaded at startup use the same shape as the embedded
// defaults.
type File struct {
	Themes []Descriptor `yaml:"themes"`
}

// ParseFile parses and validates a theme file. All descriptors must be
// valid; a single malformed theme rejects the whole file so a partial
// registry never reaches the generator.
func ParseFile(data []byte) ([]Descriptor, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("theme: cannot parse theme file: %w", err)
	}
	if len(f.Themes) == 0 {
		return nil, fmt.Errorf("theme: theme file declares no themes")
	}
	for _, d := range f.Themes {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Themes, nil
}

func init() {
	themes, err := ParseFile(builtinThemesYAML)
	if err != nil {
		panic(fmt.Sprintf("theme: embedded defaults are broken: %v", err))
	}
	for _, d := range themes {
		MustRegister(d)
	}
}
