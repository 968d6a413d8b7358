package bench

import (
	"sort"
	"time"
)

// Summary holds the aggregate statistics for one completed batch. It is
// recomputed whole from the final result set, never partially updated.
type Summary struct {
	// Wall is the batch wall-clock time measured by the runner.
	Wall time.Duration

	// OK and Errors partition the result set.
	OK     int
	Errors int

	// PromptTokens and CompletionTokens are totals over successful requests.
	PromptTokens     int
	CompletionTokens int

	// AggregateTPS is total completion tokens divided by wall time: the
	// throughput experienced externally, distinct from the per-request mean.
	AggregateTPS float64

	// AvgTPS, MedianTPS, Fastest and Slowest are per-request
	// tokens-per-second statistics over successful requests. The median uses
	// the lower-median convention: element len/2 of the ascending sort, with
	// no interpolation.
	AvgTPS    float64
	MedianTPS float64
	Fastest   float64
	Slowest   float64

	// AvgTTFT is the mean time-to-first-token over the successful requests
	// that recorded one. HasTTFT is false when none did (e.g. a
	// non-streaming batch), in which case AvgTTFT is meaningless.
	AvgTTFT time.Duration
	HasTTFT bool
}

// Summarize computes a Summary from the final result set and the measured
// batch wall time. It is a pure function: deterministic for a given input and
// insensitive to the completion order of results, since only sums and order
// statistics are computed.
//
// When no request succeeded Summarize returns nil — there are no statistics
// to compute, and callers report the all-failed outcome instead.
func Summarize(results []Result, wall time.Duration) *Summary {
	ok := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Status == StatusOK {
			ok = append(ok, r)
		}
	}

	if len(ok) == 0 {
		return nil
	}

	s := &Summary{
		Wall:   wall,
		OK:     len(ok),
		Errors: len(results) - len(ok),
	}

	tps := make([]float64, 0, len(ok))
	var ttftSum time.Duration
	var ttftCount int

	for _, r := range ok {
		s.PromptTokens += r.PromptTokens
		s.CompletionTokens += r.CompletionTokens
		tps = append(tps, r.TokensPerSecond)

		if r.TTFT > 0 {
			ttftSum += r.TTFT
			ttftCount++
		}
	}

	if wall > 0 {
		s.AggregateTPS = float64(s.CompletionTokens) / wall.Seconds()
	}

	sort.Float64s(tps)
	s.MedianTPS = tps[len(tps)/2]
	s.Slowest = tps[0]
	s.Fastest = tps[len(tps)-1]

	var sum float64
	for _, v := range tps {
		sum += v
	}
	s.AvgTPS = sum / float64(len(tps))

	if ttftCount > 0 {
		s.AvgTTFT = ttftSum / time.Duration(ttftCount)
		s.HasTTFT = true
	}

	return s
}
