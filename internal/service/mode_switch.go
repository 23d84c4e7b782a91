package service

import (
	"context"
	"encoding/json"
	"strings"

	"ai-dashboard-be/internal/constant"
	"ai-dashboard-be/internal/entity"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/internal/repository/memory"
	"ai-dashboard-be/pkg/llm"
	"ai-dashboard-be/pkg/modegen"
)

// ModeSwitchDetector turns "Presto, you're Wells Fargo" into an activated
// mode. Detection is two-stage: a cheap local wake-word check gates an LLM
// intent classification, so ordinary chat never costs a model call. The
// detector never returns an error; every failure path degrades to
// "no switch" and the session keeps its current mode.
type ModeSwitchDetector struct {
	provider  llm.LLMProvider
	store     *memory.ModeStore
	generator *modegen.Generator
	logger    logger.ILogger
}

func NewModeSwitchDetector(provider llm.LLMProvider, store *memory.ModeStore, generator *modegen.Generator, log logger.ILogger) *ModeSwitchDetector {
	return &ModeSwitchDetector{
		provider:  provider,
		store:     store,
		generator: generator,
		logger:    log,
	}
}

type classification struct {
	Industry    string  `json:"industry"`
	CompanyName *string `json:"company_name"`
}

// ContainsWakeWord reports whether text carries a wake-phrase variant.
// Punctuation is stripped first so "Presto-Change-O!" matches.
func ContainsWakeWord(text string) bool {
	normalized := normalizeForWake(text)
	for _, variant := range constant.WakeWordVariants {
		if strings.Contains(normalized, variant) {
			return true
		}
	}
	return false
}

func normalizeForWake(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Detect resolves a user message to a mode switch. onGenerating fires
// before a slow generation call so the caller can show progress;
// onGenerationFailed fires if that generation comes back empty. Both may
// be nil. Returns (nil, false) when no switch should happen.
func (d *ModeSwitchDetector) Detect(ctx context.Context, text string, onGenerating func(industry string), onGenerationFailed func()) (*entity.Mode, bool) {
	if !ContainsWakeWord(text) {
		return nil, false
	}

	industry, company := d.classify(ctx, text)
	if industry == "" || strings.EqualFold(industry, "none") {
		return nil, false
	}

	if id, ok := builtinFamily(industry); ok {
		return d.activate(id, company), true
	}

	// An industry generated earlier in this process (or restored from the
	// snapshot) is reused instead of regenerated.
	if m, ok := d.store.GetMode(slugify(industry)); ok {
		return d.activate(m.Id, company), true
	}

	if onGenerating != nil {
		onGenerating(industry)
	}
	generated := d.generator.Generate(ctx, industry, text, company)
	if generated == nil {
		if onGenerationFailed != nil {
			onGenerationFailed()
		}
		return nil, false
	}
	d.store.SaveGenerated(generated)
	mode, _ := d.store.SetCurrentMode(generated.Id)
	return mode, true
}

// classify asks the model whether the message requests a switch. A
// transport error falls back to keyword-scanning the user text, so voice
// transcripts still switch modes when the classifier model is down. A
// reply that is not JSON is taken verbatim as the industry: some models
// ignore the format instruction and answer with the bare industry name.
func (d *ModeSwitchDetector) classify(ctx context.Context, text string) (industry, company string) {
	reply, err := d.provider.Chat(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.IntentClassifierPrompt},
		{Role: constant.ChatMessageRoleUser, Content: text},
	}, llm.WithTemperature(0))
	if err != nil {
		d.logger.Warn("ModeSwitchDetector", "Intent classification failed, falling back to keywords", map[string]interface{}{
			"error": err.Error(),
		})
		if id, ok := builtinFamily(text); ok {
			return id, ""
		}
		return "", ""
	}

	cleaned := strings.TrimSpace(modegen.StripCodeFences(reply))
	var c classification
	if err := json.Unmarshal([]byte(cleaned), &c); err != nil {
		d.logger.Warn("ModeSwitchDetector", "Non-JSON classifier reply, using it as the industry", map[string]interface{}{
			"reply": reply, "error": err.Error(),
		})
		return cleaned, ""
	}
	if c.CompanyName != nil {
		company = strings.TrimSpace(*c.CompanyName)
		if strings.EqualFold(company, "null") {
			company = ""
		}
	}
	return strings.TrimSpace(c.Industry), company
}

// activate marks the stored mode current; a company override is applied
// to a copy so the stored bundle stays pristine.
func (d *ModeSwitchDetector) activate(id, company string) *entity.Mode {
	mode, ok := d.store.SetCurrentMode(id)
	if !ok {
		return nil
	}
	if company != "" && !strings.EqualFold(company, mode.CompanyName) {
		mode = mode.WithCompanyName(company)
	}
	d.logger.Info("ModeSwitchDetector", "Mode switched", map[string]interface{}{
		"mode": mode.Id, "company": mode.CompanyName,
	})
	return mode
}

// builtinFamily maps an industry phrase onto one of the pre-built modes.
func builtinFamily(industry string) (string, bool) {
	s := strings.ToLower(industry)
	switch {
	case strings.Contains(s, "bank"), strings.Contains(s, "financ"), strings.Contains(s, "credit union"):
		return "banking", true
	case strings.Contains(s, "insur"), strings.Contains(s, "claim"), strings.Contains(s, "policy"):
		return "insurance", true
	case strings.Contains(s, "health"), strings.Contains(s, "medical"), strings.Contains(s, "hospital"),
		strings.Contains(s, "doctor"), strings.Contains(s, "clinic"):
		return "healthcare", true
	}
	return "", false
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
