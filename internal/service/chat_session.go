package service

import (
	"context"
	"fmt"
	"strings"

	"ai-dashboard-be/internal/constant"
	"ai-dashboard-be/internal/dto"
	"ai-dashboard-be/internal/entity"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/internal/repository/memory"
	"ai-dashboard-be/pkg/cache"
	"ai-dashboard-be/pkg/llm"
	"ai-dashboard-be/pkg/tools"
)

// ChatSession drives one text websocket connection: mode-switch detection,
// response-cache replay, streamed completion with tool calls. One session
// per connection; all state here is connection-local, so no locking.
type ChatSession struct {
	client    ClientSender
	provider  llm.LLMProvider
	detector  *ModeSwitchDetector
	store     *memory.ModeStore
	responses *cache.ResponseCache
	history   *History
	mode      *entity.Mode
	seed      int64
	logger    logger.ILogger

	onModeSwitch func(payload dto.ModeSwitchPayload)
}

func NewChatSession(client ClientSender, provider llm.LLMProvider, detector *ModeSwitchDetector, store *memory.ModeStore, responses *cache.ResponseCache, seed int64, log logger.ILogger) *ChatSession {
	return &ChatSession{
		client:    client,
		provider:  provider,
		detector:  detector,
		store:     store,
		responses: responses,
		history:   NewHistory(),
		mode:      store.CurrentMode(),
		seed:      seed,
		logger:    log,
	}
}

// CurrentMode exposes the session's active mode, including any
// company-name override that only lives on this session.
func (s *ChatSession) CurrentMode() *entity.Mode {
	return s.mode
}

// SetModeSwitchListener registers a callback fired after this session
// activates a new mode, so the switch can be fanned out to other
// connections.
func (s *ChatSession) SetModeSwitchListener(fn func(payload dto.ModeSwitchPayload)) {
	s.onModeSwitch = fn
}

// HandleMessage processes one inbound chat turn end to end.
func (s *ChatSession) HandleMessage(ctx context.Context, text string) {
	if s.handleModeSwitch(ctx, text) {
		return
	}

	if s.replayCached(text) {
		return
	}

	s.history.Append(constant.ChatMessageRoleUser, text)
	s.streamResponse(ctx, text)
}

// handleModeSwitch runs detection and, on a switch, emits the mode payload
// plus a synthesized welcome. Returns true when the turn is consumed.
func (s *ChatSession) handleModeSwitch(ctx context.Context, text string) bool {
	wake := ContainsWakeWord(text)
	if wake {
		// Shown immediately to hide classification latency; a richer
		// payload follows if generation actually starts.
		s.send(dto.NewEnvelope(dto.EnvelopeModeGenerating, dto.ModeGeneratingPayload{}))
	}

	mode, switched := s.detector.Detect(ctx, text,
		func(industry string) {
			s.send(dto.NewEnvelope(dto.EnvelopeModeGenerating, dto.ModeGeneratingPayload{Industry: industry}))
		},
		nil)
	if !switched {
		if wake {
			s.send(dto.NewEnvelope(dto.EnvelopeModeGeneratingCancel, struct{}{}))
		}
		return false
	}

	s.mode = mode
	s.history.Clear()
	persona := s.store.GeneratePersona(mode.Id, s.seed)

	payload := dto.ModeSwitchPayload{
		Mode:    dto.NewModePayload(mode),
		Persona: persona,
	}
	s.send(dto.NewEnvelope(dto.EnvelopeModeSwitch, payload))
	if s.onModeSwitch != nil {
		s.onModeSwitch(payload)
	}

	welcome := fmt.Sprintf(constant.WelcomeMessageFormat, mode.Name)
	s.send(dto.NewEnvelope(dto.EnvelopeChatStart, struct{}{}))
	s.send(dto.NewEnvelope(dto.EnvelopeChatChunk, dto.ChatChunkPayload{Text: welcome}))
	s.send(dto.NewEnvelope(dto.EnvelopeChatChunk, dto.ChatChunkPayload{Done: true}))
	s.history.Append(constant.ChatMessageRoleAssistant, welcome)
	return true
}

// replayCached serves the turn from the response cache when possible.
func (s *ChatSession) replayCached(text string) bool {
	entry, ok := s.responses.Get(s.mode.Id, text)
	if !ok {
		return false
	}

	s.send(dto.NewEnvelope(dto.EnvelopeChatStart, struct{}{}))
	if entry.Text != "" {
		s.send(dto.NewEnvelope(dto.EnvelopeChatChunk, dto.ChatChunkPayload{Text: entry.Text}))
	}
	for _, tr := range entry.ToolResults {
		s.send(dto.NewEnvelope(dto.EnvelopeToolResult, dto.ToolResultPayload{Tool: tr.Tool, Result: tr.Result}))
	}
	s.send(dto.NewEnvelope(dto.EnvelopeChatChunk, dto.ChatChunkPayload{Done: true}))

	s.history.Append(constant.ChatMessageRoleUser, text)
	if entry.Text != "" {
		s.history.Append(constant.ChatMessageRoleAssistant, entry.Text)
	}
	s.logger.Debug("ChatSession", "Cache hit", map[string]interface{}{"mode": s.mode.Id})
	return true
}

func (s *ChatSession) streamResponse(ctx context.Context, text string) {
	persona := s.store.GeneratePersona(s.mode.Id, s.seed)
	messages := make([]llm.Message, 0, s.history.Len()+1)
	messages = append(messages, llm.Message{
		Role:    constant.ChatMessageRoleSystem,
		Content: BuildSystemPrompt(s.mode, persona),
	})
	messages = append(messages, s.history.Messages()...)

	s.send(dto.NewEnvelope(dto.EnvelopeChatStart, struct{}{}))

	var full strings.Builder
	acc := newToolCallAccumulator()
	err := s.provider.ChatStream(ctx, messages, tools.ChatDefinitions(), func(delta llm.StreamDelta) error {
		if delta.Text != "" {
			full.WriteString(delta.Text)
			s.send(dto.NewEnvelope(dto.EnvelopeChatChunk, dto.ChatChunkPayload{Text: delta.Text}))
		}
		if delta.ToolCall != nil {
			acc.Add(delta.ToolCall)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ChatSession", "LLM stream failed", map[string]interface{}{
			"mode": s.mode.Id, "error": err.Error(),
		})
		s.send(dto.NewEnvelope(dto.EnvelopeChatError, dto.ChatErrorPayload{Error: err.Error()}))
		return
	}

	if full.Len() > 0 {
		s.history.Append(constant.ChatMessageRoleAssistant, full.String())
	}

	toolResults := s.executeToolCalls(acc.Completed())
	s.responses.Add(s.mode.Id, text, cache.Entry{Text: full.String(), ToolResults: toolResults})

	s.send(dto.NewEnvelope(dto.EnvelopeChatChunk, dto.ChatChunkPayload{Done: true}))
}

// executeToolCalls runs each accumulated call, recovering concatenated
// argument objects when plain parsing fails. Recovery failures are logged
// and swallowed, never surfaced as turn errors.
func (s *ChatSession) executeToolCalls(calls []llm.ToolCall) []cache.ToolResult {
	var results []cache.ToolResult
	for _, call := range calls {
		args, err := tools.ParseArguments(call.Arguments)
		if err == nil {
			results = append(results, s.dispatchTool(call.Name, args))
			continue
		}

		recovered := tools.RecoverConcatenated(call.Arguments, call.Name)
		if len(recovered) == 0 {
			s.logger.Warn("ChatSession", "Dropped unrecoverable tool call", map[string]interface{}{
				"tool": call.Name, "error": err.Error(),
			})
			continue
		}
		s.logger.Info("ChatSession", "Recovered concatenated tool arguments", map[string]interface{}{
			"tool": call.Name, "objects": len(recovered),
		})
		for _, rc := range recovered {
			results = append(results, s.dispatchTool(rc.Tool, rc.Arguments))
		}
	}
	return results
}

func (s *ChatSession) dispatchTool(name string, args map[string]interface{}) cache.ToolResult {
	result := tools.Execute(name, args)
	s.send(dto.NewEnvelope(dto.EnvelopeToolResult, dto.ToolResultPayload{Tool: name, Result: result}))
	return cache.ToolResult{Tool: name, Result: result}
}

func (s *ChatSession) send(v interface{}) {
	if err := s.client.SendJSON(v); err != nil {
		s.logger.Warn("ChatSession", "Client send failed", map[string]interface{}{"error": err.Error()})
	}
}
