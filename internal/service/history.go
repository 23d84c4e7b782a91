package service

import (
	"ai-dashboard-be/internal/constant"
	"ai-dashboard-be/pkg/llm"
)

// History is a rolling, size-bounded conversation transcript. Owned by a
// single session, so it needs no locking; FIFO-evicted at the cap.
type History struct {
	max     int
	entries []llm.Message
}

func NewHistory() *History {
	return &History{max: constant.ConversationHistoryLimit}
}

func (h *History) Append(role, content string) {
	h.entries = append(h.entries, llm.Message{Role: role, Content: content})
	if len(h.entries) > h.max {
		h.entries = h.entries[1:]
	}
}

// AppendAssistantDelta coalesces streamed fragments into one logical
// assistant turn: if the last entry is an assistant turn the delta is
// appended to it, otherwise a new turn is started.
func (h *History) AppendAssistantDelta(delta string) {
	if n := len(h.entries); n > 0 && h.entries[n-1].Role == constant.ChatMessageRoleAssistant {
		h.entries[n-1].Content += delta
		return
	}
	h.Append(constant.ChatMessageRoleAssistant, delta)
}

func (h *History) Clear() {
	h.entries = nil
}

func (h *History) Len() int {
	return len(h.entries)
}

// Messages returns a copy so callers can build request payloads without
// aliasing the live history.
func (h *History) Messages() []llm.Message {
	out := make([]llm.Message, len(h.entries))
	copy(out, h.entries)
	return out
}
