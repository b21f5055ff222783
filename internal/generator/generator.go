package generator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/mukesh1352/navcart/internal/domain"
)

// Well-known node ids every generated layout contains.
const (
	EntranceID  = "Entrance"
	CheckoutsID = "Checkouts"
	ExitID      = "Exit"
)

var departments = []string{
	"Produce", "Dairy", "Bakery", "Meat", "Seafood", "Frozen", "Snacks", "Beverages",
	"Pantry", "Cereal", "Baby", "Pet", "Household", "Cleaning", "Health", "Beauty",
	"Deli", "Wine", "Floral", "Pharmacy",
}

// Generator produces synthetic aisle grids.
//
// Aisles form a Rows x Cols grid. Links along a row and down the first
// column are always walkable both ways; other column links may be one-way,
// so every aisle stays reachable from the entrance and can reach checkout.
// The entrance opens onto the first aisle, every aisle in the last row leads
// to the checkouts, and the checkouts lead to the exit.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Rows <= 0 {
		cfg.Rows = def.Rows
	}
	if cfg.Cols <= 0 {
		cfg.Cols = def.Cols
	}
	if cfg.MinDistance <= 0 {
		cfg.MinDistance = def.MinDistance
	}
	if cfg.MaxDistance < cfg.MinDistance {
		cfg.MaxDistance = cfg.MinDistance
	}
	cfg.OneWayChance = min(max(cfg.OneWayChance, 0), 1)
	if cfg.Facility == "" {
		cfg.Facility = def.Facility
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Config returns the effective configuration after defaults.
func (g *Generator) Config() Config { return g.cfg }

// Generate builds a layout. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (domain.Layout, error) {
	rows, cols := g.cfg.Rows, g.cfg.Cols
	layout := domain.Layout{
		Facility:    g.cfg.Facility,
		Aisles:      make([]domain.Aisle, 0, rows*cols+3),
		Connections: make([]domain.Connection, 0, 2*rows*cols+cols+2),
	}

	layout.Aisles = append(layout.Aisles, domain.Aisle{ID: EntranceID, Name: EntranceID})
	for r := range rows {
		if err := ctx.Err(); err != nil {
			return domain.Layout{}, err
		}
		for c := range cols {
			layout.Aisles = append(layout.Aisles, domain.Aisle{
				ID:   AisleID(r, c),
				Name: departmentName(r*cols + c),
			})
		}
	}
	layout.Aisles = append(layout.Aisles,
		domain.Aisle{ID: CheckoutsID, Name: CheckoutsID},
		domain.Aisle{ID: ExitID, Name: ExitID},
	)

	link := func(from, to string, bidirectional bool) {
		layout.Connections = append(layout.Connections, domain.Connection{
			From:          from,
			To:            to,
			Distance:      g.distance(),
			Bidirectional: bidirectional,
		})
	}

	link(EntranceID, AisleID(0, 0), true)
	for r := range rows {
		if err := ctx.Err(); err != nil {
			return domain.Layout{}, err
		}
		for c := range cols {
			if c+1 < cols {
				link(AisleID(r, c), AisleID(r, c+1), true)
			}
			if r+1 >= rows {
				continue
			}
			if c == 0 || g.rand.Float64() >= g.cfg.OneWayChance {
				link(AisleID(r, c), AisleID(r+1, c), true)
				continue
			}
			if g.rand.Intn(2) == 0 {
				link(AisleID(r, c), AisleID(r+1, c), false)
			} else {
				link(AisleID(r+1, c), AisleID(r, c), false)
			}
		}
	}
	for c := range cols {
		link(AisleID(rows-1, c), CheckoutsID, false)
	}
	link(CheckoutsID, ExitID, false)

	return layout, nil
}

// AisleID names the aisle at grid position (row, col).
func AisleID(row, col int) string {
	return fmt.Sprintf("R%02dC%02d", row+1, col+1)
}

func (g *Generator) distance() float64 {
	d := g.cfg.MinDistance + g.rand.Float64()*(g.cfg.MaxDistance-g.cfg.MinDistance)
	return math.Round(d*10) / 10
}

func departmentName(i int) string {
	name := departments[i%len(departments)]
	if round := i / len(departments); round > 0 {
		name = fmt.Sprintf("%s %d", name, round+1)
	}
	return name
}
