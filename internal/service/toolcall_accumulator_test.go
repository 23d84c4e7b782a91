package service

import (
	"testing"

	"ai-dashboard-be/pkg/llm"
)

func TestAccumulatorRoundTrip(t *testing.T) {
	// Fragments of two interleaved calls; per-index concatenation must
	// reproduce each call's argument text byte-for-byte.
	argsA := `{"chart_type":"line","title":"Spending","data":[{"label":"Jan","value":10}]}`
	argsB := `{"metrics":[{"label":"Balance","value":4200,"unit":"$"}]}`

	acc := newToolCallAccumulator()
	acc.Add(&llm.ToolCallFragment{Index: 0, Id: "call_a", Name: "show_chart"})
	acc.Add(&llm.ToolCallFragment{Index: 1, Id: "call_b", Name: "show_metrics"})
	acc.Add(&llm.ToolCallFragment{Index: 0, Arguments: argsA[:20]})
	acc.Add(&llm.ToolCallFragment{Index: 1, Arguments: argsB[:10]})
	acc.Add(&llm.ToolCallFragment{Index: 0, Arguments: argsA[20:45]})
	acc.Add(&llm.ToolCallFragment{Index: 1, Arguments: argsB[10:]})
	acc.Add(&llm.ToolCallFragment{Index: 0, Arguments: argsA[45:]})

	calls := acc.Completed()
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	if calls[0].Index != 0 || calls[1].Index != 1 {
		t.Error("calls not ordered by index")
	}
	if calls[0].Name != "show_chart" || calls[0].Arguments != argsA {
		t.Errorf("call 0 = %q / %q", calls[0].Name, calls[0].Arguments)
	}
	if calls[1].Name != "show_metrics" || calls[1].Arguments != argsB {
		t.Errorf("call 1 = %q / %q", calls[1].Name, calls[1].Arguments)
	}
	if calls[0].Id != "call_a" || calls[1].Id != "call_b" {
		t.Error("ids not captured")
	}
}

func TestAccumulatorSplitName(t *testing.T) {
	acc := newToolCallAccumulator()
	acc.Add(&llm.ToolCallFragment{Index: 0, Name: "show_"})
	acc.Add(&llm.ToolCallFragment{Index: 0, Name: "metrics"})

	calls := acc.Completed()
	if len(calls) != 1 || calls[0].Name != "show_metrics" {
		t.Errorf("got %v", calls)
	}
}

func TestAccumulatorEmpty(t *testing.T) {
	if calls := newToolCallAccumulator().Completed(); len(calls) != 0 {
		t.Errorf("got %v", calls)
	}
}
