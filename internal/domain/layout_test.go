package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLayout = `
facility: ground-floor
aisles:
  - id: Entrance
  - id: A1
    name: Produce
  - id: A2
    name: Dairy
  - id: Exit
connections:
  - from: Entrance
    to: A1
    distance: 3
    bidirectional: true
  - from: A1
    to: A2
    distance: 2.5
  - from: A2
    to: Exit
    distance: 1
`

func TestLoadLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleLayout), 0o600))

	layout, err := LoadLayout(path)
	require.NoError(t, err)
	assert.Equal(t, "ground-floor", layout.Facility)
	assert.Len(t, layout.Aisles, 4)
	assert.Len(t, layout.Connections, 3)
	require.NoError(t, layout.Validate())

	assert.Equal(t, []Edge{
		{Source: "Entrance", Target: "A1", Weight: 3},
		{Source: "A1", Target: "Entrance", Weight: 3},
		{Source: "A1", Target: "A2", Weight: 2.5},
		{Source: "A2", Target: "Exit", Weight: 1},
	}, layout.DirectedEdges())
}

func TestLoadLayout_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadLayout(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("aisles: [\n"), 0o600))
	_, err = LoadLayout(bad)
	assert.ErrorContains(t, err, "decode")
}

func TestLayoutValidate(t *testing.T) {
	base := func() Layout {
		return Layout{
			Aisles:      []Aisle{{ID: "A"}, {ID: "B"}},
			Connections: []Connection{{From: "A", To: "B", Distance: 1}},
		}
	}

	cases := map[string]struct {
		mutate func(*Layout)
		want   string
	}{
		"empty id":        {func(l *Layout) { l.Aisles[0].ID = "" }, "aisle id is required"},
		"duplicate aisle": {func(l *Layout) { l.Aisles[1].ID = "A" }, `duplicate aisle "A"`},
		"unknown from":    {func(l *Layout) { l.Connections[0].From = "Z" }, `unknown aisle "Z"`},
		"unknown to":      {func(l *Layout) { l.Connections[0].To = "Z" }, `unknown aisle "Z"`},
		"negative":        {func(l *Layout) { l.Connections[0].Distance = -2 }, "negative distance"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			layout := base()
			tc.mutate(&layout)
			assert.ErrorContains(t, layout.Validate(), tc.want)
		})
	}

	assert.NoError(t, base().Validate())
}

func TestSaveLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	layout := Layout{
		Facility:    "f",
		Aisles:      []Aisle{{ID: "A", Name: "Produce"}, {ID: "B"}},
		Connections: []Connection{{From: "A", To: "B", Distance: 4, Bidirectional: true}},
	}

	require.NoError(t, SaveLayout(path, layout))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bidirectional: true")
	assert.NotContains(t, string(data), `name: ""`)
}
