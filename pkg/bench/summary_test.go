package bench

import (
	"math/rand/v2"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func okResult(tps float64, tokens int, ttft time.Duration) Result {
	return Result{
		Status:           StatusOK,
		CompletionTokens: tokens,
		TokensPerSecond:  tps,
		TTFT:             ttft,
	}
}

var _ = Describe("Summarize", func() {
	It("computes aggregate and per-request statistics", func() {
		results := []Result{
			okResult(10, 100, 50*time.Millisecond),
			okResult(30, 300, 150*time.Millisecond),
			okResult(20, 200, 0),
			{Status: StatusError, Error: "HTTP 500: overloaded"},
		}

		s := Summarize(results, 10*time.Second)
		Expect(s).NotTo(BeNil())

		Expect(s.OK).To(Equal(3))
		Expect(s.Errors).To(Equal(1))
		Expect(s.CompletionTokens).To(Equal(600))
		Expect(s.AggregateTPS).To(BeNumerically("~", 60.0, 1e-9))
		Expect(s.AvgTPS).To(BeNumerically("~", 20.0, 1e-9))
		Expect(s.Fastest).To(Equal(30.0))
		Expect(s.Slowest).To(Equal(10.0))

		// Only the two results with a recorded TTFT participate.
		Expect(s.HasTTFT).To(BeTrue())
		Expect(s.AvgTTFT).To(Equal(100 * time.Millisecond))
	})

	It("uses the lower-median convention for even-length sets", func() {
		results := []Result{
			okResult(10, 1, 0),
			okResult(20, 1, 0),
			okResult(30, 1, 0),
			okResult(40, 1, 0),
		}

		s := Summarize(results, time.Second)
		Expect(s).NotTo(BeNil())
		Expect(s.MedianTPS).To(Equal(30.0))
	})

	It("is insensitive to completion order", func() {
		results := []Result{
			okResult(42.5, 85, 30*time.Millisecond),
			okResult(7.1, 14, 90*time.Millisecond),
			okResult(99.9, 200, 10*time.Millisecond),
			okResult(18.4, 37, 0),
			{Status: StatusError, Error: "timeout"},
		}

		want := Summarize(results, 3*time.Second)
		Expect(want).NotTo(BeNil())

		for range 10 {
			shuffled := make([]Result, len(results))
			copy(shuffled, results)
			rand.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})

			Expect(Summarize(shuffled, 3*time.Second)).To(Equal(want))
		}
	})

	It("returns nil when every request failed", func() {
		results := []Result{
			{Status: StatusError, Error: "HTTP 500: overloaded"},
			{Status: StatusError, Error: "connection refused"},
		}

		Expect(Summarize(results, time.Second)).To(BeNil())
	})

	It("returns nil for an empty result set", func() {
		Expect(Summarize(nil, time.Second)).To(BeNil())
	})

	It("omits TTFT when no result recorded one", func() {
		s := Summarize([]Result{okResult(5, 10, 0)}, time.Second)
		Expect(s).NotTo(BeNil())
		Expect(s.HasTTFT).To(BeFalse())
		Expect(s.AvgTTFT).To(BeZero())
	})

	It("handles a zero wall time without dividing by zero", func() {
		s := Summarize([]Result{okResult(5, 10, 0)}, 0)
		Expect(s).NotTo(BeNil())
		Expect(s.AggregateTPS).To(BeZero())
	})
})
