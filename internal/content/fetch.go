package content

import (
	"context"
	"fmt"
	"time"
)

type fetchResult struct {
	snap Snapshot
	err  error
}

// FetchWithin reads path with a deadline, even against a store that ignores
// its context. Running out of time is an error wrapping
// context.DeadlineExceeded.
func FetchWithin(ctx context.Context, store Store, path string, timeout time.Duration) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		snap, err := store.FetchOnce(ctx, path)
		done <- fetchResult{snap: snap, err: err}
	}()

	select {
	case r := <-done:
		return r.snap, r.err
	case <-ctx.Done():
		return Snapshot{}, fmt.Errorf("fetch %s: %w", path, ctx.Err())
	}
}
