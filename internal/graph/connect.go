package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultConnectTimeout = 5 * time.Second
	defaultConnectBackoff = 500 * time.Millisecond
	maxConnectBackoff     = 10 * time.Second
)

// Dialer creates an unverified client from options.
type Dialer func(opts Options) (Client, error)

// Connect dials the store and blocks until it answers a connectivity check,
// retrying with exponential backoff up to opts.ConnectAttempts times. The
// client is closed again if it never becomes reachable. A nil dial uses the
// Neo4j driver.
func Connect(ctx context.Context, logger *slog.Logger, opts Options, dial Dialer) (Client, error) {
	if dial == nil {
		dial = NewNeo4jClient
	}
	client, err := dial(opts)
	if err != nil {
		return nil, err
	}
	if err := WaitForConnectivity(ctx, logger, client, opts); err != nil {
		_ = client.Close(context.Background())
		return nil, err
	}
	return client, nil
}

// WaitForConnectivity runs bounded connectivity checks against client. Only
// startup uses this; per-query failures are reported immediately instead.
func WaitForConnectivity(ctx context.Context, logger *slog.Logger, client Client, opts Options) error {
	attempts := max(opts.ConnectAttempts, 1)
	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = defaultConnectBackoff
	if opts.ConnectBackoff > 0 {
		policy.InitialInterval = opts.ConnectBackoff
	}
	policy.MaxInterval = maxConnectBackoff
	policy.MaxElapsedTime = 0

	attempt := 0
	check := func() error {
		attempt++
		checkCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return client.VerifyConnectivity(checkCtx)
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("graph store not reachable, retrying",
			"attempt", attempt,
			"max_attempts", attempts,
			"retry_in", wait.String(),
			"error", err,
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), ctx)
	if err := backoff.RetryNotify(check, b, notify); err != nil {
		return fmt.Errorf("verify graph connectivity after %d attempt(s): %w", attempt, err)
	}

	logger.Info("connected to graph store", "uri", opts.URI, "database", opts.Database, "attempts", attempt)
	return nil
}
