package bench

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"
)

// Progress is invoked once per completed request, in completion order.
// n is the 1-based completion index, total the batch size.
type Progress func(n, total int, r Result)

// Runner fans one request per prompt out under a fixed concurrency cap and
// collects results as they complete.
//
// The admission gate is a weighted semaphore: every worker goroutine is
// launched at submission time, but only cap workers may hold a slot — and
// therefore be on the network — simultaneously. Slots are released by defer
// on every exit path. The gate is the only state shared between workers; the
// result collection is appended to solely by the draining loop.
type Runner struct {
	client *Client
	cap    int64
	logger *slog.Logger
}

// NewRunner returns a Runner that executes requests through client with at
// most parallel requests in flight. A parallel of zero is treated as one.
func NewRunner(client *Client, parallel uint, logger *slog.Logger) *Runner {
	if parallel == 0 {
		parallel = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Runner{
		client: client,
		cap:    int64(parallel),
		logger: logger,
	}
}

// Run executes one request per prompt and blocks until all have completed.
// Results are returned in completion order, which is unconstrained; no
// request is ever cancelled or retried once dispatched. The returned duration
// is the batch wall-clock time, submission start through last drain.
func (r *Runner) Run(ctx context.Context, prompts []string, onProgress Progress) ([]Result, time.Duration) {
	gate := semaphore.NewWeighted(r.cap)
	completions := make(chan Result)

	start := time.Now()

	for _, prompt := range prompts {
		go func() {
			if err := gate.Acquire(ctx, 1); err != nil {
				// Context cancelled while waiting for a slot. The
				// request never dispatched; report it as failed so the
				// drain loop still sees exactly one result per prompt.
				completions <- Result{Prompt: prompt, Status: StatusError, Error: err.Error()}
				return
			}
			defer gate.Release(1)

			completions <- r.client.Send(ctx, prompt)
		}()
	}

	r.logger.Debug("batch submitted", "requests", len(prompts), "parallel", r.cap)

	results := make([]Result, 0, len(prompts))
	for range prompts {
		res := <-completions
		results = append(results, res)

		if onProgress != nil {
			onProgress(len(results), len(prompts), res)
		}
	}

	wall := time.Since(start)
	r.logger.Debug("batch drained", "results", len(results), "wall", wall)

	return results, wall
}
