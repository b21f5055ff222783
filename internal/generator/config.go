package generator

// Config drives the synthetic layout generator.
type Config struct {
	Facility     string
	Rows         int
	Cols         int
	MinDistance  float64
	MaxDistance  float64
	OneWayChance float64
	Seed         int64
}

// DefaultConfig returns a small supermarket floor.
func DefaultConfig() Config {
	return Config{
		Facility:     "demo-store",
		Rows:         4,
		Cols:         6,
		MinDistance:  1,
		MaxDistance:  5,
		OneWayChance: 0.15,
		Seed:         42,
	}
}
