// Package bench implements the core of the tokenbench load generator: a
// chat-completion client, a streamed-response consumer, a bounded-concurrency
// runner, and a pure result aggregator.
package bench

import "time"

// Status is the terminal outcome of a single request.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Result is the record produced for one submitted prompt. A Result is fully
// populated by the time Client.Send returns and is never mutated afterwards;
// the runner only appends completed Results to its collection.
//
// Exactly one of the two shapes holds: StatusOK with the timing and token
// fields populated, or StatusError with Error populated.
type Result struct {
	// Prompt is the input text, retained for error correlation.
	Prompt string

	// Status is set exactly once, at the end of the request.
	Status Status

	// TTFT is the time-to-first-token: dispatch to first non-empty content
	// fragment. Zero means no fragment was observed (errors, non-streamed
	// requests, or streams that produced no content).
	TTFT time.Duration

	// TotalTime is the wall-clock duration of the request, send through
	// final byte (or through the failure point).
	TotalTime time.Duration

	// PromptTokens and CompletionTokens come from the server's usage block
	// when reported; for streamed responses without one, CompletionTokens
	// falls back to a characters/4 estimate.
	PromptTokens     int
	CompletionTokens int

	// TokensPerSecond is CompletionTokens / TotalTime, zero when either is.
	TokensPerSecond float64

	// Error holds "HTTP <status>: <body>" for protocol failures or the
	// transport error text. Empty unless Status is StatusError.
	Error string
}
