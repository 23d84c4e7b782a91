package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Tool is a provider-agnostic function-calling schema entry.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]interface{} // JSON Schema
}

// ToolCall is one completed function invocation extracted from a response.
type ToolCall struct {
	Index     int
	Id        string
	Name      string
	Arguments string // raw JSON text as emitted by the model
}

// StreamDelta is a single streamed fragment: either a piece of text or a
// partial tool call. Tool-call fragments arrive keyed by index; a single
// call's name and argument text may span many deltas and must be
// concatenated in arrival order per index.
type StreamDelta struct {
	Text     string
	ToolCall *ToolCallFragment
}

type ToolCallFragment struct {
	Index     int
	Id        string
	Name      string
	Arguments string
}

// ChatResult is the outcome of a non-streamed chat call.
type ChatResult struct {
	Content   string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	// Temperature is a pointer so an explicit 0 (deterministic sampling)
	// is distinguishable from "not set, use the provider default".
	Temperature *float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatWithTools sends a chat history plus a tool schema and returns the
	// full response including any tool calls, without streaming.
	ChatWithTools(ctx context.Context, history []Message, tools []Tool, options ...Option) (*ChatResult, error)

	// ChatStream streams the response, invoking onDelta for every text or
	// tool-call fragment in arrival order. A non-nil error from onDelta
	// aborts the stream and is returned as-is.
	ChatStream(ctx context.Context, history []Message, tools []Tool, onDelta func(StreamDelta) error, options ...Option) error

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
