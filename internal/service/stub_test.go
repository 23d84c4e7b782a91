package service

import (
	"context"
	"sync"

	"ai-dashboard-be/pkg/llm"
)

// Shared fakes for the service tests.

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// stubLLM routes each provider method to an optional func; unset methods
// return empty results. Call counters let tests assert how many model
// invocations a path costs.
type stubLLM struct {
	mu sync.Mutex

	chatFn     func(ctx context.Context, history []llm.Message) (string, error)
	chatTools  func(ctx context.Context, history []llm.Message, tools []llm.Tool) (*llm.ChatResult, error)
	streamFn   func(ctx context.Context, history []llm.Message, tools []llm.Tool, onDelta func(llm.StreamDelta) error) error
	generateFn func(ctx context.Context, prompt string) (string, error)

	chatCalls     int
	chatToolCalls int
	streamCalls   int
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	s.mu.Lock()
	s.chatCalls++
	s.mu.Unlock()
	if s.chatFn == nil {
		return "", nil
	}
	return s.chatFn(ctx, history)
}

func (s *stubLLM) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.Tool, _ ...llm.Option) (*llm.ChatResult, error) {
	s.mu.Lock()
	s.chatToolCalls++
	s.mu.Unlock()
	if s.chatTools == nil {
		return &llm.ChatResult{}, nil
	}
	return s.chatTools(ctx, history, tools)
}

func (s *stubLLM) ChatStream(ctx context.Context, history []llm.Message, tools []llm.Tool, onDelta func(llm.StreamDelta) error, _ ...llm.Option) error {
	s.mu.Lock()
	s.streamCalls++
	s.mu.Unlock()
	if s.streamFn == nil {
		return nil
	}
	return s.streamFn(ctx, history, tools, onDelta)
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, _ ...llm.Option) (string, error) {
	if s.generateFn == nil {
		return "", nil
	}
	return s.generateFn(ctx, prompt)
}

func (s *stubLLM) calls() (chat, chatTools, stream int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chatCalls, s.chatToolCalls, s.streamCalls
}

// recordingClient captures everything a session sends to the browser.
type recordingClient struct {
	mu   sync.Mutex
	sent []interface{}
}

func (c *recordingClient) SendJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, v)
	return nil
}

func (c *recordingClient) messages() []interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]interface{}, len(c.sent))
	copy(out, c.sent)
	return out
}
