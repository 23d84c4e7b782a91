package openai

import (
	"math"
	"testing"

	"ai-dashboard-be/pkg/llm"
)

func TestBuildRequestTemperature(t *testing.T) {
	p := NewOpenAIProvider("key", "model", "")
	history := []llm.Message{{Role: "user", Content: "hi"}}

	req := p.buildRequest(history, nil, nil)
	if req.Temperature != 0 {
		t.Errorf("unset temperature = %v, want the zero value (provider default)", req.Temperature)
	}

	req = p.buildRequest(history, nil, []llm.Option{llm.WithTemperature(0.7)})
	if req.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", req.Temperature)
	}

	// An explicit 0 must survive the request struct's omitempty marshaling.
	req = p.buildRequest(history, nil, []llm.Option{llm.WithTemperature(0)})
	if req.Temperature != math.SmallestNonzeroFloat32 {
		t.Errorf("explicit zero temperature = %v, want the smallest nonzero sentinel", req.Temperature)
	}
}
