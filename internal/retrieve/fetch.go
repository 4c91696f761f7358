// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve fetches GenBank records in batches with bounded retry,
// filters them by length, and drives the retrieval pipeline end to end.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/s28672/pbio/pkg/types"
)

const (
	defaultMaxAttempts = 3
	defaultBatchSize   = 3
	defaultUnit        = time.Second
)

// ErrRetriesExhausted matches any *ExhaustedError via errors.Is.
var ErrRetriesExhausted = errors.New("fetch retries exhausted")

// ExhaustedError reports that every fetch attempt failed.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("fetch failed after %d attempts: %v", e.Attempts, e.Last)
}

// Unwrap exposes both the sentinel and the last attempt's cause.
func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.Last}
}

// Fetcher retrieves the records for one batch of ids.
type Fetcher interface {
	Fetch(ctx context.Context, ids []string) ([]types.SequenceRecord, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, ids []string) ([]types.SequenceRecord, error)

// Fetch calls f(ctx, ids).
func (f FetcherFunc) Fetch(ctx context.Context, ids []string) ([]types.SequenceRecord, error) {
	return f(ctx, ids)
}

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryPolicy controls FetchWithRetry. Zero fields take the defaults:
// 3 attempts, batches of 3, a one-second unit, and the real Sleep.
type RetryPolicy struct {
	MaxAttempts int
	BatchSize   int
	Unit        time.Duration
	Sleep       SleepFunc
}

// PolicyFromConfig builds a policy from the retry section of the config.
func PolicyFromConfig(cfg types.RetryConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: cfg.MaxAttempts,
		BatchSize:   cfg.BatchSize,
		Unit:        cfg.Unit,
	}.withDefaults()
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.BatchSize <= 0 {
		p.BatchSize = defaultBatchSize
	}
	if p.Unit <= 0 {
		p.Unit = defaultUnit
	}
	if p.Sleep == nil {
		p.Sleep = Sleep
	}
	return p
}

// backoff is the wait before attempt k (0-indexed): 2k units.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	return time.Duration(2*attempt) * p.Unit
}

// FetchResult is the outcome of a successful FetchWithRetry.
type FetchResult struct {
	Records  []types.SequenceRecord
	Attempts int
	Batches  int
}

// FetchWithRetry fetches ids in order, BatchSize at a time, pausing one
// unit between batches. A failed batch discards everything gathered in that
// attempt; the next attempt starts over from the first batch after waiting
// 2k units. The records returned always come from a single attempt.
//
// Each failed attempt is reported on w. When all attempts fail the result
// is empty and the error is an *ExhaustedError. Context cancellation stops
// the loop and returns ctx.Err(). An empty id list returns at once without
// calling f or sleeping.
func FetchWithRetry(ctx context.Context, f Fetcher, ids []string, p RetryPolicy, w io.Writer) (FetchResult, error) {
	p = p.withDefaults()
	if len(ids) == 0 {
		return FetchResult{}, nil
	}

	size := min(p.BatchSize, len(ids))

	var last error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := p.Sleep(ctx, p.backoff(attempt)); err != nil {
				return FetchResult{Attempts: attempt}, err
			}
		}

		records, batches, err := fetchBatches(ctx, f, ids, size, p)
		if err == nil {
			return FetchResult{Records: records, Attempts: attempt + 1, Batches: batches}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return FetchResult{Attempts: attempt + 1}, ctxErr
		}

		last = err
		fmt.Fprintf(w, "Fetch attempt %d failed: %v\n", attempt+1, err)
	}

	return FetchResult{Attempts: p.MaxAttempts}, &ExhaustedError{Attempts: p.MaxAttempts, Last: last}
}

// fetchBatches runs one attempt over the whole id list.
func fetchBatches(ctx context.Context, f Fetcher, ids []string, size int, p RetryPolicy) ([]types.SequenceRecord, int, error) {
	var (
		records []types.SequenceRecord
		batches int
	)
	for start := 0; start < len(ids); start += size {
		if start > 0 {
			if err := p.Sleep(ctx, p.Unit); err != nil {
				return nil, batches, err
			}
		}
		end := min(start+size, len(ids))

		got, err := f.Fetch(ctx, ids[start:end])
		if err != nil {
			return nil, batches, fmt.Errorf("batch %d (%d ids): %w", batches+1, end-start, err)
		}
		records = append(records, got...)
		batches++
	}
	return records, batches, nil
}
