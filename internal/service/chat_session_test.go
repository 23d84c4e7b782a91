package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-dashboard-be/internal/dto"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/internal/repository/memory"
	"ai-dashboard-be/pkg/cache"
	"ai-dashboard-be/pkg/llm"
	"ai-dashboard-be/pkg/modegen"
)

func newTestChatSession(t *testing.T, stub *stubLLM) (*ChatSession, *recordingClient) {
	t.Helper()
	var log logger.ILogger = nopLogger{}
	store := memory.NewModeStore(filepath.Join(t.TempDir(), "modes.json"), log)
	detector := NewModeSwitchDetector(stub, store, modegen.NewGenerator(stub, log), log)
	responses := cache.NewResponseCache(50, 5*time.Minute)
	client := &recordingClient{}
	return NewChatSession(client, stub, detector, store, responses, 42, log), client
}

func envelopeTypes(msgs []interface{}) []string {
	var out []string
	for _, m := range msgs {
		out = append(out, m.(dto.Envelope).Type)
	}
	return out
}

func decodePayload(t *testing.T, m interface{}, into interface{}) {
	t.Helper()
	env := m.(dto.Envelope)
	if err := json.Unmarshal(env.Payload, into); err != nil {
		t.Fatalf("payload decode: %v", err)
	}
}

func TestHandleMessageModeSwitchTurn(t *testing.T) {
	stub := classifierStub(`{"industry": "banking", "company_name": "Wells Fargo"}`, "")
	s, client := newTestChatSession(t, stub)

	s.HandleMessage(context.Background(), "Presto, you're Wells Fargo")

	types := envelopeTypes(client.messages())
	want := []string{
		dto.EnvelopeModeGenerating,
		dto.EnvelopeModeSwitch,
		dto.EnvelopeChatStart,
		dto.EnvelopeChatChunk,
		dto.EnvelopeChatChunk,
	}
	if len(types) != len(want) {
		t.Fatalf("envelope sequence = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("envelope[%d] = %q, want %q (full: %v)", i, types[i], want[i], types)
		}
	}

	var sw dto.ModeSwitchPayload
	decodePayload(t, client.messages()[1], &sw)
	if sw.Mode.Id != "banking" || sw.Mode.CompanyName != "Wells Fargo" {
		t.Errorf("mode payload = %+v", sw.Mode)
	}
	if sw.Persona["name"] == nil {
		t.Error("persona must accompany the mode payload")
	}

	var welcome dto.ChatChunkPayload
	decodePayload(t, client.messages()[3], &welcome)
	if !strings.Contains(welcome.Text, "Presto-Change-O!") || !strings.Contains(welcome.Text, "Banking") {
		t.Errorf("welcome chunk = %q", welcome.Text)
	}
	var done dto.ChatChunkPayload
	decodePayload(t, client.messages()[4], &done)
	if !done.Done {
		t.Error("terminal chunk must carry done:true")
	}

	// The switch turn itself never reaches the completion model.
	if _, _, stream := stub.calls(); stream != 0 {
		t.Errorf("stream called %d times on a switch turn", stream)
	}
}

func TestHandleMessageStreamsResponseWithToolCall(t *testing.T) {
	stub := &stubLLM{
		streamFn: func(_ context.Context, history []llm.Message, _ []llm.Tool, onDelta func(llm.StreamDelta) error) error {
			if history[0].Role != "system" {
				t.Errorf("first message role = %q", history[0].Role)
			}
			for _, d := range []llm.StreamDelta{
				{Text: "Here is "},
				{Text: "your chart."},
				{ToolCall: &llm.ToolCallFragment{Index: 0, Id: "call_1", Name: "show_chart"}},
				{ToolCall: &llm.ToolCallFragment{Index: 0, Arguments: `{"chart_type":"bar",`}},
				{ToolCall: &llm.ToolCallFragment{Index: 0, Arguments: `"title":"Spending","data":[]}`}},
			} {
				if err := onDelta(d); err != nil {
					return err
				}
			}
			return nil
		},
	}
	s, client := newTestChatSession(t, stub)

	s.HandleMessage(context.Background(), "chart my spending")

	types := envelopeTypes(client.messages())
	want := []string{
		dto.EnvelopeChatStart,
		dto.EnvelopeChatChunk,
		dto.EnvelopeChatChunk,
		dto.EnvelopeToolResult,
		dto.EnvelopeChatChunk,
	}
	for i := range want {
		if i >= len(types) || types[i] != want[i] {
			t.Fatalf("envelope sequence = %v, want %v", types, want)
		}
	}

	var tr dto.ToolResultPayload
	decodePayload(t, client.messages()[3], &tr)
	if tr.Tool != "show_chart" || tr.Result["title"] != "Spending" {
		t.Errorf("tool result = %+v", tr)
	}

	// History carries both turns for the next request.
	if s.history.Len() != 2 {
		t.Errorf("history len = %d, want 2", s.history.Len())
	}
}

func TestHandleMessageCacheHitSkipsModel(t *testing.T) {
	stub := &stubLLM{
		streamFn: func(_ context.Context, _ []llm.Message, _ []llm.Tool, onDelta func(llm.StreamDelta) error) error {
			return onDelta(llm.StreamDelta{Text: "Your balance is $4,200."})
		},
	}
	s, client := newTestChatSession(t, stub)

	s.HandleMessage(context.Background(), "What's my balance?")
	firstCount := len(client.messages())

	// Different punctuation, same normalized key.
	s.HandleMessage(context.Background(), "whats my balance")

	if _, _, stream := stub.calls(); stream != 1 {
		t.Fatalf("stream called %d times, want 1 (second turn must replay)", stream)
	}

	replay := client.messages()[firstCount:]
	types := envelopeTypes(replay)
	want := []string{dto.EnvelopeChatStart, dto.EnvelopeChatChunk, dto.EnvelopeChatChunk}
	if len(types) != len(want) {
		t.Fatalf("replay sequence = %v", types)
	}
	var chunk dto.ChatChunkPayload
	decodePayload(t, replay[1], &chunk)
	if chunk.Text != "Your balance is $4,200." {
		t.Errorf("replayed text = %q", chunk.Text)
	}
}

func TestHandleMessageLLMErrorEmitsChatError(t *testing.T) {
	stub := &stubLLM{
		streamFn: func(context.Context, []llm.Message, []llm.Tool, func(llm.StreamDelta) error) error {
			return errors.New("upstream timeout")
		},
	}
	s, client := newTestChatSession(t, stub)

	s.HandleMessage(context.Background(), "hello")

	types := envelopeTypes(client.messages())
	if types[len(types)-1] != dto.EnvelopeChatError {
		t.Fatalf("envelope sequence = %v, want trailing chat_error", types)
	}
	var payload dto.ChatErrorPayload
	decodePayload(t, client.messages()[len(client.messages())-1], &payload)
	if payload.Error != "upstream timeout" {
		t.Errorf("error payload = %q", payload.Error)
	}
}

func TestHandleMessageWakeWithoutSwitchCancelsLoading(t *testing.T) {
	stub := classifierStub(`{"industry": "none", "company_name": null}`, "")
	stub.streamFn = func(_ context.Context, _ []llm.Message, _ []llm.Tool, onDelta func(llm.StreamDelta) error) error {
		return onDelta(llm.StreamDelta{Text: "Presto is a fun word!"})
	}
	s, client := newTestChatSession(t, stub)

	s.HandleMessage(context.Background(), "presto sounds magical, right?")

	types := envelopeTypes(client.messages())
	if types[0] != dto.EnvelopeModeGenerating || types[1] != dto.EnvelopeModeGeneratingCancel {
		t.Fatalf("loading signals missing: %v", types)
	}
	// The turn still gets a normal answer.
	if types[len(types)-1] != dto.EnvelopeChatChunk {
		t.Fatalf("sequence = %v", types)
	}
	if _, _, stream := stub.calls(); stream != 1 {
		t.Errorf("stream calls = %d, want 1", stream)
	}
}

func TestHandleMessageRecoversConcatenatedArguments(t *testing.T) {
	fused := `{"chart_type":"pie","title":"Mix","data":[]}{"metrics":[{"label":"Total","value":7}]}`
	stub := &stubLLM{
		streamFn: func(_ context.Context, _ []llm.Message, _ []llm.Tool, onDelta func(llm.StreamDelta) error) error {
			return onDelta(llm.StreamDelta{ToolCall: &llm.ToolCallFragment{
				Index: 0, Name: "show_chart", Arguments: fused,
			}})
		},
	}
	s, client := newTestChatSession(t, stub)

	s.HandleMessage(context.Background(), "show me everything")

	var tools []string
	for _, m := range client.messages() {
		env := m.(dto.Envelope)
		if env.Type != dto.EnvelopeToolResult {
			continue
		}
		var tr dto.ToolResultPayload
		decodePayload(t, m, &tr)
		tools = append(tools, tr.Tool)
	}
	if len(tools) != 2 || tools[0] != "show_chart" || tools[1] != "show_metrics" {
		t.Errorf("recovered tools = %v", tools)
	}
}
