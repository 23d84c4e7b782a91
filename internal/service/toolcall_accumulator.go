package service

import (
	"sort"

	"ai-dashboard-be/pkg/llm"
)

// toolCallAccumulator reassembles streamed tool calls. One call's id,
// name and argument text may arrive spread across many deltas tagged with
// the same index; fragments are concatenated per index in arrival order.
type toolCallAccumulator struct {
	calls map[int]*llm.ToolCall
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{calls: make(map[int]*llm.ToolCall)}
}

func (a *toolCallAccumulator) Add(fragment *llm.ToolCallFragment) {
	call, ok := a.calls[fragment.Index]
	if !ok {
		call = &llm.ToolCall{Index: fragment.Index}
		a.calls[fragment.Index] = call
	}
	if fragment.Id != "" {
		call.Id = fragment.Id
	}
	if fragment.Name != "" {
		call.Name += fragment.Name
	}
	call.Arguments += fragment.Arguments
}

// Completed returns the assembled calls ordered by stream index.
func (a *toolCallAccumulator) Completed() []llm.ToolCall {
	out := make([]llm.ToolCall, 0, len(a.calls))
	for _, c := range a.calls {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
