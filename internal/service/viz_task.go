package service

import (
	"context"
	"fmt"
	"sync"

	"ai-dashboard-be/internal/constant"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/pkg/llm"
	"ai-dashboard-be/pkg/tools"
)

// Background visualization generation for the voice flow. The realtime
// model only emits a lightweight request; the heavy tool-schema call runs
// here, off the relay loops, so speech is never blocked on it.

// vizPool tracks at most one in-flight task per visualization kind.
// Starting a kind that is already pending cancels the previous task first.
type vizPool struct {
	mu    sync.Mutex
	tasks map[string]*vizTask
}

type vizTask struct {
	cancel context.CancelFunc
}

func newVizPool() *vizPool {
	return &vizPool{tasks: make(map[string]*vizTask)}
}

// Start launches run under a child context registered for kind. The task
// deregisters itself on completion, but only if it is still the pending
// entry; a replacement that arrived meanwhile keeps its slot.
func (p *vizPool) Start(parent context.Context, kind string, run func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(parent)
	task := &vizTask{cancel: cancel}

	p.mu.Lock()
	if prev, ok := p.tasks[kind]; ok {
		prev.cancel()
	}
	p.tasks[kind] = task
	p.mu.Unlock()

	go func() {
		defer func() {
			cancel()
			p.mu.Lock()
			if p.tasks[kind] == task {
				delete(p.tasks, kind)
			}
			p.mu.Unlock()
		}()
		run(ctx)
	}()
}

// CancelAll requests cancellation of every pending task. Idempotent; does
// not wait for the tasks to observe it.
func (p *vizPool) CancelAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range p.tasks {
		t.cancel()
	}
}

func (p *vizPool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tasks)
}

// vizSinks are the side-effect channels of one visualization task: tool
// results go straight to the client, the spoken summary goes through the
// deferred-notification gate.
type vizSinks struct {
	SendToolResult func(tool string, result map[string]interface{})
	Announce       func(summary string)
}

// runVisualizationTask performs one visualization request end to end: a
// single non-streamed tool-schema call, tool execution, result delivery.
// A cancellation observed after the model call prevents every
// client-visible side effect; once a result has been sent, later
// cancellation is a no-op (no rollback).
func runVisualizationTask(ctx context.Context, provider llm.LLMProvider, log logger.ILogger, systemPrompt string, history []llm.Message, visType, description string, sinks vizSinks) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: constant.ChatMessageRoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{
		Role: constant.ChatMessageRoleUser,
		Content: fmt.Sprintf(`The user asked for a %s visualization: "%s". Call the appropriate tool with realistic data matching the request.`,
			visType, description),
	})

	result, err := provider.ChatWithTools(ctx, messages, tools.ChatDefinitions())
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		log.Error("VizTask", "Visualization LLM call failed", map[string]interface{}{
			"vis_type": visType, "error": err.Error(),
		})
		return
	}
	if len(result.ToolCalls) == 0 {
		log.Warn("VizTask", "Model produced no tool call for visualization", map[string]interface{}{
			"vis_type": visType, "description": description,
		})
		return
	}

	for _, call := range result.ToolCalls {
		args, err := tools.ParseArguments(call.Arguments)
		if err != nil {
			log.Error("VizTask", "Unparseable tool arguments", map[string]interface{}{
				"tool": call.Name, "error": err.Error(),
			})
			continue
		}
		sinks.SendToolResult(call.Name, tools.Execute(call.Name, args))
	}

	summary := result.Content
	if summary == "" {
		summary = fmt.Sprintf("The %s you requested is now displayed on the dashboard.", visType)
	}
	sinks.Announce(summary)
}
