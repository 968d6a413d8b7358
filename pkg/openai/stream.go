package openai

// StreamChunk is a single SSE-delivered chunk of a streamed chat completion.
// Most chunks carry an incremental content delta; the final chunk may carry
// a usage block instead (or in addition, depending on the server).
type StreamChunk struct {
	ID      string        `json:"id"`
	Object  string        `json:"object"`
	Created int64         `json:"created"`
	Model   string        `json:"model"`
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"`
}

// ChunkChoice is one completion alternative within a stream chunk.
type ChunkChoice struct {
	Index        int     `json:"index"`
	Delta        Delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

// Delta is the incremental message fragment within a chunk. Content is a
// pointer because servers emit both absent and explicit-null content on
// role-only and finish chunks.
type Delta struct {
	Role    string  `json:"role,omitempty"`
	Content *string `json:"content"`
}

// ContentText returns the chunk's first-choice content fragment, treating a
// missing choice or absent/null content as the empty string.
func (c *StreamChunk) ContentText() string {
	if len(c.Choices) == 0 {
		return ""
	}

	delta := c.Choices[0].Delta
	if delta.Content == nil {
		return ""
	}

	return *delta.Content
}
