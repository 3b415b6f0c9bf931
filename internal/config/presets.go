package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"dartscorer/internal/game"
	"dartscorer/internal/modes"
)

var ErrUnknownPreset = errors.New("unknown preset")

// Preset is a named game and option set, e.g.
//
//	x01-501-do:
//	  game: x01
//	  options: {startScore: 501, doubleOut: true}
type Preset struct {
	Name        string       `yaml:"-" json:"name"`
	Game        game.GameID  `yaml:"game" json:"game"`
	Description string       `yaml:"description,omitempty" json:"description,omitempty"`
	Options     game.Options `yaml:"options" json:"options"`
}

type Presets map[string]Preset

// LoadPresets reads a YAML preset file. An empty path or a missing file
// yields no presets.
func LoadPresets(path string) (Presets, error) {
	if path == "" {
		return Presets{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Presets{}, nil
		}
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	var ps Presets
	if err := yaml.Unmarshal(b, &ps); err != nil {
		return nil, fmt.Errorf("parsing presets: %w", err)
	}
	if ps == nil {
		ps = Presets{}
	}
	for name, p := range ps {
		if _, err := modes.Lookup(p.Game); err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		p.Name = name
		ps[name] = p
	}
	return ps, nil
}

func (ps Presets) Get(name string) (Preset, error) {
	p, ok := ps[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return p, nil
}

// Names lists preset names in sorted order.
func (ps Presets) Names() []string {
	names := make([]string, 0, len(ps))
	for n := range ps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
