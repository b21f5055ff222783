package pathfind

import (
	"log/slog"
	"math"
	"strings"

	"github.com/mukesh1352/navcart/internal/domain"
)

// DefaultWeight is the unit cost substituted when a record carries no weight.
const DefaultWeight = 1.0

// BuildOptions tunes how raw records become a snapshot.
type BuildOptions struct {
	// DefaultWeight replaces absent weights. Nil means the unit cost
	// DefaultWeight; negative or non-finite values fall back to 0.
	DefaultWeight *float64
}

// BuildReport summarises what happened to the records of one build.
type BuildReport struct {
	Records     int
	Accepted    int
	Skipped     int
	Defaulted   int
	Clamped     int
	Overwritten int
}

// Builder turns raw connectivity records into snapshots.
type Builder struct {
	logger        *slog.Logger
	defaultWeight float64
}

// NewBuilder returns a Builder. A nil logger discards build diagnostics.
func NewBuilder(logger *slog.Logger, opts BuildOptions) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	weight := DefaultWeight
	if opts.DefaultWeight != nil {
		weight = *opts.DefaultWeight
	}
	if weight < 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		weight = 0
	}
	return &Builder{logger: logger, defaultWeight: weight}
}

// Build assembles a snapshot from records. It never fails: malformed records
// are skipped and negative weights are clamped to zero, both reported in the
// returned BuildReport. Later records for the same ordered pair overwrite
// earlier ones.
func (b *Builder) Build(records []domain.RawEdge) (*Snapshot, BuildReport) {
	snap := newSnapshot(len(records))
	report := BuildReport{Records: len(records)}

	for i, rec := range records {
		if isBlank(rec.SourceID) || isBlank(rec.TargetID) {
			report.Skipped++
			b.logger.Debug("skipping record with missing endpoint",
				"index", i, "source", rec.SourceID, "target", rec.TargetID)
			continue
		}

		weight := b.defaultWeight
		switch {
		case rec.Weight == nil:
			report.Defaulted++
		case math.IsNaN(*rec.Weight) || math.IsInf(*rec.Weight, 0):
			report.Skipped++
			b.logger.Debug("skipping record with non-finite weight",
				"index", i, "source", rec.SourceID, "target", rec.TargetID)
			continue
		case *rec.Weight < 0:
			report.Clamped++
			weight = 0
			b.logger.Warn("negative edge weight clamped to zero",
				"source", rec.SourceID, "target", rec.TargetID, "weight", *rec.Weight)
		default:
			weight = *rec.Weight
		}

		from := snap.addNode(rec.SourceID, rec.SourceLabel)
		to := snap.addNode(rec.TargetID, rec.TargetLabel)
		if snap.setEdge(from, to, weight) {
			report.Overwritten++
		}
		report.Accepted++
	}

	if report.Skipped > 0 || report.Clamped > 0 {
		b.logger.Warn("graph built with data issues",
			"records", report.Records,
			"skipped", report.Skipped,
			"clamped", report.Clamped)
	}
	return snap, report
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
