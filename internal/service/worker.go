package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mukesh1352/navcart/internal/domain"
)

const (
	defaultWorkers   = 4
	defaultBatchSize = 200
)

// TaskError accumulates multiple errors produced during bulk loading.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString(" ")
		b.WriteString(err.Error())
		b.WriteString(";")
	}
	return b.String()
}

func (e *TaskError) Unwrap() []error { return e.Errors }

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// LayoutWriter is the storage contract required for seeding.
type LayoutWriter interface {
	UpsertAisles(ctx context.Context, aisles []domain.Aisle) error
	UpsertConnections(ctx context.Context, edges []domain.Edge) error
}

// LoadReport counts what a layout load wrote.
type LoadReport struct {
	Aisles      int
	Connections int
	Batches     int
}

// BulkLoader writes facility layouts to the store in batches using a worker pool.
type BulkLoader struct {
	repo      LayoutWriter
	workers   int
	batchSize int
	logger    *slog.Logger
}

// NewBulkLoader creates a BulkLoader. Non-positive workers or batchSize use defaults.
func NewBulkLoader(repo LayoutWriter, workers, batchSize int, logger *slog.Logger) *BulkLoader {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BulkLoader{
		repo:      repo,
		workers:   workers,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Load validates layout and writes all aisles, then all directed connections.
// Connections are only written once every aisle batch succeeded.
func (bl *BulkLoader) Load(ctx context.Context, layout domain.Layout) (LoadReport, error) {
	if err := layout.Validate(); err != nil {
		return LoadReport{}, fmt.Errorf("invalid layout: %w", err)
	}

	var report LoadReport

	aisleBatches := chunk(layout.Aisles, bl.batchSize)
	written, err := bl.run(ctx, len(aisleBatches), func(idx int) error {
		if err := bl.repo.UpsertAisles(ctx, aisleBatches[idx]); err != nil {
			return fmt.Errorf("aisle batch %d: %w", idx, err)
		}
		return nil
	})
	report.Batches += written
	if err != nil {
		return report, err
	}
	report.Aisles = len(layout.Aisles)

	edges := layout.DirectedEdges()
	edgeBatches := chunk(edges, bl.batchSize)
	written, err = bl.run(ctx, len(edgeBatches), func(idx int) error {
		if err := bl.repo.UpsertConnections(ctx, edgeBatches[idx]); err != nil {
			return fmt.Errorf("connection batch %d: %w", idx, err)
		}
		return nil
	})
	report.Batches += written
	if err != nil {
		return report, err
	}
	report.Connections = len(edges)

	bl.logger.Info("layout loaded",
		"facility", layout.Facility,
		"aisles", report.Aisles,
		"connections", report.Connections,
		"batches", report.Batches,
	)
	return report, nil
}

// run fans indexes 0..total-1 out to the worker pool and returns how many
// tasks succeeded. Cancellation wins over task errors.
func (bl *BulkLoader) run(ctx context.Context, total int, workerFn func(idx int) error) (int, error) {
	if total == 0 {
		return 0, nil
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var succeeded atomic.Int64
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				errCh <- err
				continue
			}
			succeeded.Add(1)
		}
	}

	for range min(bl.workers, total) {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := range total {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return int(succeeded.Load()), err
	}

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return int(succeeded.Load()), err
		}
		taskErr.append(err)
	}
	return int(succeeded.Load()), taskErr.asError()
}

func chunk[T any](items []T, size int) [][]T {
	return slices.Collect(slices.Chunk(items, size))
}
