package imagecache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Stats counts the outcome of a preload run.
type Stats struct {
	Loaded int
	Failed int
}

// PreloadEssential loads paths with up to workers concurrent reads and
// blocks until all are done. Per-image failures are counted, not returned;
// the only error is a cancelled context.
func (c *Cache) PreloadEssential(ctx context.Context, paths []string, workers int) (Stats, error) {
	return c.loadAll(ctx, paths, workers, "preload failed")
}

// PreloadBackground loads paths in batches of batchSize, each batch in
// parallel, sleeping pause between batches so foreground renders get the
// I/O. It stops early when ctx is cancelled and is meant to run in its own
// goroutine.
func (c *Cache) PreloadBackground(ctx context.Context, paths []string, batchSize int, pause time.Duration) Stats {
	if batchSize < 1 {
		batchSize = 1
	}
	var st Stats
	for start := 0; start < len(paths); start += batchSize {
		end := min(start+batchSize, len(paths))
		batch := make([]string, 0, end-start)
		for _, p := range paths[start:end] {
			if !c.Has(p) {
				batch = append(batch, p)
			}
		}

		bs, err := c.loadAll(ctx, batch, batchSize, "background preload failed")
		st.Loaded += bs.Loaded
		st.Failed += bs.Failed
		if err != nil {
			return st
		}
		if end == len(paths) {
			break
		}
		select {
		case <-ctx.Done():
			return st
		case <-time.After(pause):
		}
	}
	c.log.Debug("background preload done", "loaded", st.Loaded, "failed", st.Failed, "cached", c.Len())
	return st
}

// loadAll loads paths with at most limit loads in flight.
func (c *Cache) loadAll(ctx context.Context, paths []string, limit int, failMsg string) (Stats, error) {
	if limit < 1 {
		limit = 1
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	var loaded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, p := range paths {
		g.Go(func() error {
			if _, err := c.Load(gctx, p); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.log.Debug(failMsg, "path", p, "err", err)
				failed.Add(1)
				return nil
			}
			loaded.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return Stats{Loaded: int(loaded.Load()), Failed: int(failed.Load())}, err
}
