// Package openai defines the wire types for the OpenAI Chat Completions API
// (/v1/chat/completions), covering the single request shape the benchmark
// issues and the streamed and unary response shapes it consumes.
package openai

// ChatRequest is the request body for a chat completion. The benchmark
// always sends exactly this shape: one user message, a token cap, a
// temperature, and the streaming flag.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UserMessage builds the one-message conversation the benchmark sends.
func UserMessage(prompt string) []Message {
	return []Message{{Role: "user", Content: prompt}}
}
