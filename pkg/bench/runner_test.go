package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tokenbench/tokenbench/pkg/openai"
)

// concurrencyTracker counts in-flight handler invocations and remembers the
// high-water mark.
type concurrencyTracker struct {
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (t *concurrencyTracker) enter() {
	n := t.inFlight.Add(1)
	for {
		peak := t.peak.Load()
		if n <= peak || t.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}

func (t *concurrencyTracker) exit() {
	t.inFlight.Add(-1)
}

func numberedPrompts(n int) []string {
	prompts := make([]string, n)
	for i := range prompts {
		prompts[i] = fmt.Sprintf("prompt-%d", i)
	}
	return prompts
}

var _ = Describe("Runner", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("produces exactly one result per prompt", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(openai.ChatResponse{
				Usage: &openai.Usage{CompletionTokens: 1},
			})
		}))
		defer srv.Close()

		runner := NewRunner(newTestClient(srv, false), 4, nil)
		results, wall := runner.Run(ctx, numberedPrompts(20), nil)

		Expect(results).To(HaveLen(20))
		Expect(wall).To(BeNumerically(">", 0))

		seen := map[string]bool{}
		for _, r := range results {
			Expect(r.Status).To(Equal(StatusOK))
			seen[r.Prompt] = true
		}
		// Completion order is unconstrained but every prompt completes once.
		Expect(seen).To(HaveLen(20))
	})

	It("never exceeds the concurrency cap", func() {
		tracker := &concurrencyTracker{}

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			tracker.enter()
			defer tracker.exit()

			time.Sleep(20 * time.Millisecond)
			_ = json.NewEncoder(w).Encode(openai.ChatResponse{
				Usage: &openai.Usage{CompletionTokens: 1},
			})
		}))
		defer srv.Close()

		runner := NewRunner(newTestClient(srv, false), 3, nil)
		results, _ := runner.Run(ctx, numberedPrompts(12), nil)

		Expect(results).To(HaveLen(12))
		Expect(tracker.peak.Load()).To(BeNumerically("<=", 3))
		Expect(tracker.peak.Load()).To(BeNumerically(">", 1))
	})

	It("contains per-request failures without aborting the batch", func() {
		var counter atomic.Int64

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if counter.Add(1)%2 == 0 {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, "overloaded")
				return
			}
			_ = json.NewEncoder(w).Encode(openai.ChatResponse{
				Usage: &openai.Usage{CompletionTokens: 2},
			})
		}))
		defer srv.Close()

		runner := NewRunner(newTestClient(srv, false), 2, nil)
		results, _ := runner.Run(ctx, numberedPrompts(10), nil)

		Expect(results).To(HaveLen(10))

		var okCount, errCount int
		for _, r := range results {
			switch r.Status {
			case StatusOK:
				okCount++
			case StatusError:
				errCount++
				Expect(r.Error).To(Equal("HTTP 500: overloaded"))
			}
		}
		Expect(okCount).To(Equal(5))
		Expect(errCount).To(Equal(5))
	})

	It("reports progress in completion order with 1-based indices", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(openai.ChatResponse{})
		}))
		defer srv.Close()

		// The progress callback is invoked from the single draining
		// goroutine, so plain appends are safe here.
		var indices []int

		runner := NewRunner(newTestClient(srv, false), 4, nil)
		results, _ := runner.Run(ctx, numberedPrompts(8), func(n, total int, _ Result) {
			Expect(total).To(Equal(8))
			indices = append(indices, n)
		})

		Expect(results).To(HaveLen(8))
		Expect(indices).To(Equal([]int{1, 2, 3, 4, 5, 6, 7, 8}))
	})

	It("treats a zero cap as serial execution", func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(openai.ChatResponse{})
		}))
		defer srv.Close()

		runner := NewRunner(newTestClient(srv, false), 0, nil)
		results, _ := runner.Run(ctx, numberedPrompts(3), nil)

		Expect(results).To(HaveLen(3))
	})
})
