package bench

import (
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/tokenbench/tokenbench/pkg/openai"
	"github.com/tokenbench/tokenbench/pkg/sse"
)

const (
	// doneSentinel is the payload that terminates an OpenAI SSE stream.
	doneSentinel = "[DONE]"

	// charsPerToken is the fallback estimate used when the server never
	// reports a usage block. Roughly four characters per token for English
	// text. This is a crude approximation, not a tokenizer.
	charsPerToken = 4
)

// streamStats is the accumulator for one streamed response.
type streamStats struct {
	// firstToken is the arrival time of the first non-empty content
	// fragment. Zero if the stream produced no content.
	firstToken time.Time

	// text accumulates the content fragments, used only for the fallback
	// token estimate.
	text strings.Builder

	// usage holds the latest server-reported usage block, if any.
	usage *openai.Usage
}

// completionTokens returns the server-reported completion count when a usage
// block arrived, otherwise the characters/4 estimate (minimum one token).
func (s *streamStats) completionTokens() int {
	if s.usage != nil && s.usage.CompletionTokens > 0 {
		return s.usage.CompletionTokens
	}

	est := s.text.Len() / charsPerToken
	if est < 1 {
		est = 1
	}
	return est
}

// promptTokens returns the server-reported prompt count, zero if none arrived.
func (s *streamStats) promptTokens() int {
	if s.usage == nil {
		return 0
	}
	return s.usage.PromptTokens
}

// consumeStream folds the SSE events of a streamed chat completion into a
// streamStats. It returns only when the stream is exhausted or terminated by
// the [DONE] sentinel; partial state is never exposed to callers.
//
// Undecodable data payloads are skipped, not surfaced: one corrupt chunk must
// not fail a request that is otherwise streaming correctly. A non-nil error
// means the transport itself failed mid-stream.
func consumeStream(body io.Reader) (*streamStats, error) {
	stats := &streamStats{}
	reader := sse.NewReader(body)

	for {
		ev, err := reader.Next()
		if err != nil {
			return nil, err
		}
		if ev == nil {
			return stats, nil
		}

		if ev.Data == doneSentinel {
			return stats, nil
		}

		var chunk openai.StreamChunk
		if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
			// Malformed chunk: skip and keep consuming.
			continue
		}

		if fragment := chunk.ContentText(); fragment != "" {
			if stats.firstToken.IsZero() {
				stats.firstToken = time.Now()
			}
			stats.text.WriteString(fragment)
		}

		// Server-reported counts are authoritative; the last usage block
		// seen wins.
		if chunk.Usage != nil {
			stats.usage = chunk.Usage
		}
	}
}
