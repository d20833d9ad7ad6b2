// Package theme defines the static theme registry for world generation.
// A theme bundles an ordered table of terrain classes with placement and
// effect descriptors. Themes are validated when registered and read-only
// at runtime, so generation never has to defend against a malformed table
// mid-grid.
package theme

import (
	"fmt"
	"strings"
)

// TerrainClass describes one terrain category of a theme. The table is
// ordered: the world generator's classifier maps noise buckets to entries
// by position.
type TerrainClass struct {
	ID            int     `yaml:"id"`
	Name          string  `yaml:"name"`
	Walkable      bool    `yaml:"walkable"`
	ResourceYield float64 `yaml:"resource_yield"`
	ColorKey      string  `yaml:"color"`
}

// NodeSpec describes a placement pass entry: how many nodes of this kind
// the generator should try to place and what they are worth.
type NodeSpec struct {
	Name  string  `yaml:"name"`
	Count int     `yaml:"count"`
	Yield float64 `yaml:"yield"`
}

// EffectDescriptor describes a particle or overlay effect the rendering
// layer may attach. The simulation core only carries these through; it
// never interprets them.
type EffectDescriptor struct {
	Name    string  `yaml:"name"`
	Kind    string  `yaml:"kind"` // "particle" or "overlay"
	Color   string  `yaml:"color"`
	Density float64 `yaml:"density"`
}

// Descriptor is a complete theme definition.
type Descriptor struct {
	Name          string             `yaml:"name"`
	Terrains      []TerrainClass     `yaml:"terrains"`
	ResourceNodes []NodeSpec         `yaml:"resource_nodes"`
	Hazards       []NodeSpec         `yaml:"hazards"`
	Decorations   []NodeSpec         `yaml:"decorations"`
	Effects       []EffectDescriptor `yaml:"effects"`
}

// Validate checks a descriptor for configuration errors. An invalid theme
// is rejected at registration time, never partway through generation.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("theme: descriptor has empty name")
	}
	if len(d.Terrains) == 0 {
		return fmt.Errorf("theme %s: terrain table is empty", d.Name)
	}
	for i, tc := range d.Terrains {
		if tc.ID != i {
			return fmt.Errorf("theme %s: terrain %q has id %d, want %d (ids must match table order)", d.Name, tc.Name, tc.ID, i)
		}
		if strings.TrimSpace(tc.Name) == "" {
			return fmt.Errorf("theme %s: terrain %d has empty name", d.Name, i)
		}
		if tc.ResourceYield < 0 {
			return fmt.Errorf("theme %s: terrain %q has negative resource yield", d.Name, tc.Name)
		}
	}
	for _, n := range append(append(append([]NodeSpec{}, d.ResourceNodes...), d.Hazards...), d.Decorations...) {
		if strings.TrimSpace(n.Name) == "" {
			return fmt.Errorf("theme %s: placement entry has empty name", d.Name)
		}
		if n.Count < 0 {
			return fmt.Errorf("theme %s: placement %q has negative count", d.Name, n.Name)
		}
	}
	for _, e := range d.Effects {
		if e.Kind != "particle" && e.Kind != "overlay" {
			return fmt.Errorf("theme %s: effect %q has unknown kind %q", d.Name, e.Name, e.Kind)
		}
	}
	return nil
}

// Terrain returns the terrain class at index i, clamped to the table
// bounds. Callers that already validated their index can use
// d.Terrains[i] directly; the classifier goes through Terrain so themes
// with fewer entries than noise buckets stay safe.
func (d Descriptor) Terrain(i int) TerrainClass {
	if i < 0 {
		i = 0
	}
	if i >= len(d.Terrains) {
		i = len(d.Terrains) - 1
	}
	return d.Terrains[i]
}
