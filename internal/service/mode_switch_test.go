package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"ai-dashboard-be/internal/entity"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/internal/repository/memory"
	"ai-dashboard-be/pkg/llm"
	"ai-dashboard-be/pkg/modegen"
)

func newTestDetector(t *testing.T, stub *stubLLM) (*ModeSwitchDetector, *memory.ModeStore) {
	t.Helper()
	var log logger.ILogger = nopLogger{}
	store := memory.NewModeStore(filepath.Join(t.TempDir(), "modes.json"), log)
	gen := modegen.NewGenerator(stub, log)
	return NewModeSwitchDetector(stub, store, gen, log), store
}

// classifierStub answers the intent-classifier system prompt with a fixed
// reply and the mode-generator prompt with genReply.
func classifierStub(classifyReply, genReply string) *stubLLM {
	return &stubLLM{
		chatFn: func(_ context.Context, history []llm.Message) (string, error) {
			if strings.Contains(history[0].Content, "intent classifier") {
				return classifyReply, nil
			}
			return genReply, nil
		},
	}
}

func TestContainsWakeWord(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Presto-Change-O, you're a bank", true},
		{"presto change o make me insurance", true},
		{"PrestoChangeO!", true},
		{"Presto, you're Wells Fargo", true},
		{"what's my checking balance", false},
		{"I love presto pasta", true}, // bare variant trades precision for voice latency
		{"", false},
	}
	for _, c := range cases {
		if got := ContainsWakeWord(c.text); got != c.want {
			t.Errorf("ContainsWakeWord(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestDetectNoWakeWordSkipsClassifier(t *testing.T) {
	stub := classifierStub(`{"industry": "banking", "company_name": null}`, "")
	d, _ := newTestDetector(t, stub)

	mode, switched := d.Detect(context.Background(), "show my recent transactions", nil, nil)
	if switched || mode != nil {
		t.Fatal("plain chat must not switch modes")
	}
	if chat, _, _ := stub.calls(); chat != 0 {
		t.Errorf("classifier invoked %d times without a wake word", chat)
	}
}

func TestDetectClassifierSaysNone(t *testing.T) {
	stub := classifierStub(`{"industry": "none", "company_name": null}`, "")
	d, _ := newTestDetector(t, stub)

	if _, switched := d.Detect(context.Background(), "presto is a nice word", nil, nil); switched {
		t.Error("classifier 'none' must not switch")
	}
}

func TestDetectCompanyOverrideOnBuiltin(t *testing.T) {
	stub := classifierStub(`{"industry": "banking", "company_name": "Wells Fargo"}`, "")
	d, store := newTestDetector(t, stub)

	mode, switched := d.Detect(context.Background(), "Presto, you're Wells Fargo", nil, nil)
	if !switched {
		t.Fatal("expected a switch")
	}
	if mode.Id != "banking" {
		t.Errorf("mode id = %q, want banking", mode.Id)
	}
	if mode.CompanyName != "Wells Fargo" {
		t.Errorf("company = %q, want Wells Fargo", mode.CompanyName)
	}
	if !strings.Contains(mode.SystemPrompt, "Wells Fargo") {
		t.Error("system prompt must mention the override company")
	}

	// The stored bundle must keep its original identity.
	stored, _ := store.GetMode("banking")
	if stored.CompanyName != "Meridian Trust Bank" {
		t.Errorf("stored bundle mutated: company = %q", stored.CompanyName)
	}
	if store.CurrentMode().Id != "banking" {
		t.Errorf("current mode = %q, want banking", store.CurrentMode().Id)
	}
}

func TestDetectFencedClassifierReply(t *testing.T) {
	stub := classifierStub("```json\n{\"industry\": \"insurance\", \"company_name\": null}\n```", "")
	d, _ := newTestDetector(t, stub)

	mode, switched := d.Detect(context.Background(), "Presto-Change-O, insurance please", nil, nil)
	if !switched || mode.Id != "insurance" {
		t.Fatalf("got %v / %v", mode, switched)
	}
}

func TestDetectKeywordFallbackWhenClassifierDown(t *testing.T) {
	stub := &stubLLM{
		chatFn: func(context.Context, []llm.Message) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	d, _ := newTestDetector(t, stub)

	mode, switched := d.Detect(context.Background(), "Presto, you're a health clinic now", nil, nil)
	if !switched || mode.Id != "healthcare" {
		t.Fatalf("keyword fallback failed: %v / %v", mode, switched)
	}
}

func TestDetectGeneratesUnknownIndustry(t *testing.T) {
	genReply := `{
		"industry_name": "Pet Store",
		"industry_id": "pet_store",
		"company_name": "Whisker Works",
		"tagline": "Everything for your best friend",
		"primary_color": "#FF8F00",
		"personality_traits": ["warm", "playful"],
		"tabs": [
			{"id": "dashboard", "label": "Dashboard", "icon": "📊"},
			{"id": "settings", "label": "Settings", "icon": "⚙️"}
		],
		"default_metrics": [{"label": "Orders", "value": "42", "unit": "/day"}],
		"welcome_message": "Welcome!",
		"system_prompt_fragment": "You know pet products."
	}`
	stub := classifierStub(`{"industry": "pet store", "company_name": null}`, genReply)
	d, store := newTestDetector(t, stub)

	var generatingFor string
	mode, switched := d.Detect(context.Background(), "Presto-Change-O, you're a pet store",
		func(industry string) { generatingFor = industry }, nil)
	if !switched {
		t.Fatal("expected a switch")
	}
	if generatingFor != "pet store" {
		t.Errorf("onGenerating industry = %q", generatingFor)
	}
	if mode.Id != "pet_store" || mode.CompanyName != "Whisker Works" {
		t.Errorf("generated mode = %+v", mode)
	}
	if store.CurrentMode().Id != "pet_store" {
		t.Error("generated mode must become current")
	}
	if _, ok := store.GetMode("pet_store"); !ok {
		t.Error("generated mode must be registered for reuse")
	}
}

func TestDetectPlainTextClassifierReply(t *testing.T) {
	genReply := `{
		"industry_name": "Space Tourism",
		"industry_id": "space_tourism",
		"company_name": "Apogee Voyages",
		"tagline": "See the curve of the Earth",
		"primary_color": "#123ABC",
		"personality_traits": ["bold", "precise"],
		"tabs": [
			{"id": "dashboard", "label": "Dashboard", "icon": "📊"},
			{"id": "settings", "label": "Settings", "icon": "⚙️"}
		],
		"default_metrics": [{"label": "Launches", "value": "3", "unit": "/mo"}],
		"welcome_message": "Welcome aboard!",
		"system_prompt_fragment": "You know orbital tourism."
	}`
	stub := classifierStub("space tourism", genReply)
	d, store := newTestDetector(t, stub)

	var generatingFor string
	mode, switched := d.Detect(context.Background(), "Presto, you're a space tourism company",
		func(industry string) { generatingFor = industry }, nil)
	if !switched {
		t.Fatal("a bare-text classifier reply must still drive a switch")
	}
	if generatingFor != "space tourism" {
		t.Errorf("onGenerating industry = %q, want the raw reply text", generatingFor)
	}
	if mode.Id != "space_tourism" {
		t.Errorf("mode id = %q, want space_tourism", mode.Id)
	}
	if store.CurrentMode().Id != "space_tourism" {
		t.Error("generated mode must become current")
	}
}

func TestDetectPlainTextReplyMapsToBuiltin(t *testing.T) {
	stub := classifierStub("Sounds like an insurance request.", "")
	d, _ := newTestDetector(t, stub)

	mode, switched := d.Detect(context.Background(), "Presto, do the claims thing", nil, nil)
	if !switched || mode.Id != "insurance" {
		t.Fatalf("got %v / %v, want the insurance builtin", mode, switched)
	}
}

func TestDetectReusesGeneratedMode(t *testing.T) {
	stub := classifierStub(`{"industry": "pet store", "company_name": null}`, "not json")
	d, store := newTestDetector(t, stub)
	store.SaveGenerated(&entity.Mode{
		Id:           "pet_store",
		Name:         "Pet Store",
		CompanyName:  "Whisker Works",
		SystemPrompt: "You are a pet store assistant.",
	})

	mode, switched := d.Detect(context.Background(), "Presto, pet store again", nil, nil)
	if !switched || mode.Id != "pet_store" {
		t.Fatalf("got %v / %v", mode, switched)
	}
	if chat, _, _ := stub.calls(); chat != 1 {
		t.Errorf("model called %d times, want 1 (classification only, no regeneration)", chat)
	}
}

func TestDetectGenerationFailure(t *testing.T) {
	stub := classifierStub(`{"industry": "space tourism", "company_name": null}`, "definitely not json")
	d, store := newTestDetector(t, stub)

	failed := false
	mode, switched := d.Detect(context.Background(), "Presto, space tourism", nil, func() { failed = true })
	if switched || mode != nil {
		t.Error("failed generation must not switch")
	}
	if !failed {
		t.Error("onGenerationFailed must fire")
	}
	if store.CurrentMode().Id != "banking" {
		t.Error("current mode must be untouched after a failed generation")
	}
}
