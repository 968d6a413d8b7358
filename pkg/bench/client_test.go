package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tokenbench/tokenbench/pkg/openai"
)

// newTestClient points a Client with default generation settings at srv.
func newTestClient(srv *httptest.Server, stream bool) *Client {
	return NewClient(ClientConfig{
		BaseURL:     srv.URL,
		Model:       "test-model",
		MaxTokens:   64,
		Temperature: 0.7,
		Stream:      stream,
		Timeout:     5 * time.Second,
	})
}

var _ = Describe("Client", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("Send", func() {
		Context("request shape", func() {
			It("posts the fixed chat-completion body with auth headers", func() {
				var gotPath, gotAuth, gotContentType string
				var gotReq openai.ChatRequest

				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gotPath = r.URL.Path
					gotAuth = r.Header.Get("Authorization")
					gotContentType = r.Header.Get("Content-Type")
					Expect(json.NewDecoder(r.Body).Decode(&gotReq)).To(Succeed())

					_ = json.NewEncoder(w).Encode(openai.ChatResponse{
						Usage: &openai.Usage{PromptTokens: 3, CompletionTokens: 7},
					})
				}))
				defer srv.Close()

				client := NewClient(ClientConfig{
					BaseURL:     srv.URL + "/", // trailing slash must not double up
					APIKey:      "sekret",
					Model:       "test-model",
					MaxTokens:   64,
					Temperature: 0.7,
					Timeout:     5 * time.Second,
				})

				res := client.Send(ctx, "hello there")

				Expect(gotPath).To(Equal("/v1/chat/completions"))
				Expect(gotAuth).To(Equal("Bearer sekret"))
				Expect(gotContentType).To(Equal("application/json"))
				Expect(gotReq.Model).To(Equal("test-model"))
				Expect(gotReq.Messages).To(HaveLen(1))
				Expect(gotReq.Messages[0].Role).To(Equal("user"))
				Expect(gotReq.Messages[0].Content).To(Equal("hello there"))
				Expect(gotReq.MaxTokens).To(Equal(64))
				Expect(gotReq.Stream).To(BeFalse())

				Expect(res.Status).To(Equal(StatusOK))
			})

			It("omits the Authorization header without an API key", func() {
				var gotAuth string

				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					gotAuth = r.Header.Get("Authorization")
					_ = json.NewEncoder(w).Encode(openai.ChatResponse{})
				}))
				defer srv.Close()

				newTestClient(srv, false).Send(ctx, "hi")
				Expect(gotAuth).To(BeEmpty())
			})
		})

		Context("non-streaming", func() {
			It("takes token counts from the usage block and derives throughput", func() {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					_ = json.NewEncoder(w).Encode(openai.ChatResponse{
						Usage: &openai.Usage{PromptTokens: 9, CompletionTokens: 40},
					})
				}))
				defer srv.Close()

				res := newTestClient(srv, false).Send(ctx, "prompt")

				Expect(res.Status).To(Equal(StatusOK))
				Expect(res.PromptTokens).To(Equal(9))
				Expect(res.CompletionTokens).To(Equal(40))
				Expect(res.TotalTime).To(BeNumerically(">", 0))
				Expect(res.TokensPerSecond).To(BeNumerically(">", 0))
				Expect(res.TTFT).To(BeZero())
				Expect(res.Error).To(BeEmpty())
			})

			It("captures a body decode failure as a transport error", func() {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					fmt.Fprint(w, "definitely not json")
				}))
				defer srv.Close()

				res := newTestClient(srv, false).Send(ctx, "prompt")

				Expect(res.Status).To(Equal(StatusError))
				Expect(res.Error).NotTo(BeEmpty())
				Expect(res.TokensPerSecond).To(BeZero())
			})
		})

		Context("streaming", func() {
			It("records TTFT and usage-backed token counts", func() {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.Header().Set("Content-Type", "text/event-stream")
					fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
					fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" world\"}}]}\n\n")
					fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{}}],\"usage\":{\"prompt_tokens\":4,\"completion_tokens\":5}}\n\n")
					fmt.Fprint(w, "data: [DONE]\n\n")
				}))
				defer srv.Close()

				res := newTestClient(srv, true).Send(ctx, "prompt")

				Expect(res.Status).To(Equal(StatusOK))
				Expect(res.PromptTokens).To(Equal(4))
				Expect(res.CompletionTokens).To(Equal(5))
				Expect(res.TTFT).To(BeNumerically(">", 0))
				Expect(res.TTFT).To(BeNumerically("<=", res.TotalTime))
				Expect(res.TokensPerSecond).To(BeNumerically(">", 0))
			})

			It("estimates tokens when the stream has no usage block", func() {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					// 17 characters total -> estimate of 4.
					fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"0123456789abcdefg\"}}]}\n\n")
					fmt.Fprint(w, "data: [DONE]\n\n")
				}))
				defer srv.Close()

				res := newTestClient(srv, true).Send(ctx, "prompt")

				Expect(res.Status).To(Equal(StatusOK))
				Expect(res.CompletionTokens).To(Equal(4))
				Expect(res.PromptTokens).To(BeZero())
			})

			It("leaves TTFT unset when no content fragment ever arrives", func() {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\",\"content\":null}}]}\n\n")
					fmt.Fprint(w, "data: [DONE]\n\n")
				}))
				defer srv.Close()

				res := newTestClient(srv, true).Send(ctx, "prompt")

				Expect(res.Status).To(Equal(StatusOK))
				Expect(res.TTFT).To(BeZero())
			})
		})

		Context("failures", func() {
			It("maps a non-200 response to an HTTP error result", func() {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusInternalServerError)
					fmt.Fprint(w, "overloaded")
				}))
				defer srv.Close()

				res := newTestClient(srv, true).Send(ctx, "prompt")

				Expect(res.Status).To(Equal(StatusError))
				Expect(res.Error).To(Equal("HTTP 500: overloaded"))
				Expect(res.TokensPerSecond).To(BeZero())
				Expect(res.TotalTime).To(BeNumerically(">", 0))
				Expect(res.Prompt).To(Equal("prompt"))
			})

			It("captures connection errors with elapsed time recorded", func() {
				srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
				srv.Close() // refuse all connections

				res := newTestClient(srv, true).Send(ctx, "prompt")

				Expect(res.Status).To(Equal(StatusError))
				Expect(res.Error).NotTo(BeEmpty())
				Expect(res.CompletionTokens).To(BeZero())
			})

			It("treats a timeout as a transport error, not a distinct category", func() {
				srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					time.Sleep(200 * time.Millisecond)
					_ = json.NewEncoder(w).Encode(openai.ChatResponse{})
				}))
				defer srv.Close()

				client := NewClient(ClientConfig{
					BaseURL: srv.URL,
					Model:   "test-model",
					Timeout: 20 * time.Millisecond,
				})

				res := client.Send(ctx, "prompt")

				Expect(res.Status).To(Equal(StatusError))
				Expect(res.Error).NotTo(BeEmpty())
			})
		})
	})
})
