package domain

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Aisle is a node declaration in a facility layout file.
type Aisle struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// Connection is a weighted link between two aisles in a layout file.
type Connection struct {
	From          string  `yaml:"from"`
	To            string  `yaml:"to"`
	Distance      float64 `yaml:"distance"`
	Bidirectional bool    `yaml:"bidirectional,omitempty"`
}

// Layout is the on-disk description of a facility's aisle map.
type Layout struct {
	Facility    string       `yaml:"facility,omitempty"`
	Aisles      []Aisle      `yaml:"aisles"`
	Connections []Connection `yaml:"connections"`
}

// DirectedEdges expands bidirectional connections into two directed edges.
func (l Layout) DirectedEdges() []Edge {
	edges := make([]Edge, 0, len(l.Connections)*2)
	for _, c := range l.Connections {
		edges = append(edges, Edge{Source: c.From, Target: c.To, Weight: c.Distance})
		if c.Bidirectional {
			edges = append(edges, Edge{Source: c.To, Target: c.From, Weight: c.Distance})
		}
	}
	return edges
}

// Validate checks that every connection references a declared aisle and carries
// a non-negative distance.
func (l Layout) Validate() error {
	known := make(map[string]struct{}, len(l.Aisles))
	for _, a := range l.Aisles {
		if a.ID == "" {
			return errors.New("aisle id is required")
		}
		if _, dup := known[a.ID]; dup {
			return fmt.Errorf("duplicate aisle %q", a.ID)
		}
		known[a.ID] = struct{}{}
	}
	for i, c := range l.Connections {
		if _, ok := known[c.From]; !ok {
			return fmt.Errorf("connection %d: unknown aisle %q", i, c.From)
		}
		if _, ok := known[c.To]; !ok {
			return fmt.Errorf("connection %d: unknown aisle %q", i, c.To)
		}
		if c.Distance < 0 {
			return fmt.Errorf("connection %d: negative distance %v", i, c.Distance)
		}
	}
	return nil
}

// LoadLayout reads a YAML layout file.
func LoadLayout(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	var layout Layout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return Layout{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return layout, nil
}

// SaveLayout writes the layout as YAML.
func SaveLayout(path string, layout Layout) error {
	data, err := yaml.Marshal(layout)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
