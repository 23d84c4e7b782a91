package modegen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ai-dashboard-be/internal/entity"
	"ai-dashboard-be/internal/pkg/logger"
	"ai-dashboard-be/pkg/llm"
	"ai-dashboard-be/pkg/tools"
	"ai-dashboard-be/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// Mode generation for arbitrary industries: the LLM makes the creative
// decisions (names, tabs, metrics, one primary color), the palette is then
// derived algorithmically. Generation failures never propagate; callers
// get nil and keep the previous mode active.

const generationSystemPrompt = `You are a mode configuration generator for a multi-industry dashboard app.
Generate a complete configuration for the requested industry.

You MUST respond with valid JSON only. No other text. Use this exact structure:
{
  "industry_name": "Display Name",
  "industry_id": "snake_case_id",
  "company_name": "Company Name",
  "tagline": "Company tagline/slogan",
  "primary_color": "#HexColor",
  "personality_traits": ["trait1", "trait2", "trait3"],
  "tabs": [
    {"id": "dashboard", "label": "Dashboard", "icon": "📊"},
    {"id": "tab2", "label": "Tab 2", "icon": "📋"},
    {"id": "settings", "label": "Settings", "icon": "⚙️"}
  ],
  "default_metrics": [
    {"label": "Metric 1", "value": "$1,234", "unit": null},
    {"label": "Metric 2", "value": "567", "unit": "/day"}
  ],
  "welcome_message": "Welcome message here",
  "system_prompt_fragment": "AI context for this industry"
}

Guidelines:
- company_name: IMPORTANT - If the user specifies a company name (like "H-E-B", "Walmart", "Joe's Tacos"), use EXACTLY that name. Only make up a fictional name if no company name was provided.
- primary_color: Choose a color that represents this industry (hex format, e.g., "#4CAF50"). If it's a real company, try to use their brand color.
- tabs: Include 4-5 relevant tabs. Always include "dashboard" as the first tab and "settings" as the last tab.
- default_metrics: Include exactly 4 key metrics/KPIs relevant to this industry with realistic pre-formatted values.
- personality_traits: 3-5 traits that define how the AI assistant should behave for this industry.
- system_prompt_fragment: Additional context for the AI including industry jargon, common questions, and domain knowledge. 2-3 sentences.
- welcome_message: Friendly greeting when entering this mode. Should feel warm and industry-appropriate.

Be creative but realistic. The dashboard should feel purpose-built for this industry.
Choose colors that have industry associations (e.g., green for eco/health, blue for finance/trust, purple for luxury).`

type generatedConfig struct {
	IndustryName         string            `json:"industry_name" validate:"required"`
	IndustryId           string            `json:"industry_id" validate:"required"`
	CompanyName          string            `json:"company_name"`
	Tagline              string            `json:"tagline"`
	PrimaryColor         string            `json:"primary_color" validate:"required,hexcolor"`
	PersonalityTraits    []string          `json:"personality_traits"`
	Tabs                 []generatedTab    `json:"tabs" validate:"required,min=1,dive"`
	DefaultMetrics       []generatedMetric `json:"default_metrics"`
	WelcomeMessage       string            `json:"welcome_message"`
	SystemPromptFragment string            `json:"system_prompt_fragment"`
}

type generatedTab struct {
	Id    string `json:"id" validate:"required"`
	Label string `json:"label" validate:"required"`
	Icon  string `json:"icon"`
}

type generatedMetric struct {
	Label string      `json:"label"`
	Value interface{} `json:"value"`
	Unit  string      `json:"unit"`
}

type Generator struct {
	provider llm.LLMProvider
	validate *validator.Validate
	logger   logger.ILogger
}

func NewGenerator(provider llm.LLMProvider, log logger.ILogger) *Generator {
	return &Generator{
		provider: provider,
		validate: validator.New(),
		logger:   log,
	}
}

// Generate builds a complete Mode for an arbitrary industry. fullRequest
// is the raw user text (it may carry a company name); companyName is an
// explicitly extracted company, if any. Returns nil on any failure.
func (g *Generator) Generate(ctx context.Context, industry, fullRequest, companyName string) *entity.Mode {
	userPrompt := fullRequest
	if userPrompt == "" {
		userPrompt = fmt.Sprintf("Generate a dashboard configuration for: %s", industry)
	}
	if companyName != "" {
		userPrompt += fmt.Sprintf("\nThe company name is: %s", companyName)
	}

	reply, err := g.provider.Chat(ctx, []llm.Message{
		{Role: "system", Content: generationSystemPrompt},
		{Role: "user", Content: userPrompt},
	})
	if err != nil {
		g.logger.Error("ModeGenerator", "Generation LLM call failed", map[string]interface{}{
			"industry": industry, "error": err.Error(),
		})
		return nil
	}

	var config generatedConfig
	if err := json.Unmarshal([]byte(StripCodeFences(reply)), &config); err != nil {
		g.logger.Error("ModeGenerator", "Failed to parse generated config", map[string]interface{}{
			"industry": industry, "error": err.Error(),
		})
		return nil
	}
	if err := g.validate.Struct(&config); err != nil {
		g.logger.Error("ModeGenerator", "Generated config failed validation", map[string]interface{}{
			"industry": industry, "error": err.Error(),
		})
		return nil
	}

	palette, err := utils.DeriveThemePalette(config.PrimaryColor)
	if err != nil {
		g.logger.Error("ModeGenerator", "Palette derivation failed", map[string]interface{}{
			"primary_color": config.PrimaryColor, "error": err.Error(),
		})
		return nil
	}

	mode := &entity.Mode{
		Id:          config.IndustryId,
		Name:        config.IndustryName,
		CompanyName: config.CompanyName,
		Tagline:     config.Tagline,
		Theme: entity.ModeTheme{
			Primary:    palette.Primary,
			Secondary:  palette.Secondary,
			Background: palette.Background,
			Surface:    palette.Surface,
			Text:       palette.Text,
			TextMuted:  palette.TextMuted,
		},
		SystemPrompt: buildFullSystemPrompt(&config),
	}
	if mode.CompanyName == "" {
		mode.CompanyName = fmt.Sprintf("%s Co.", titleCase(industry))
	}
	if mode.Tagline == "" {
		mode.Tagline = fmt.Sprintf("Your trusted %s partner", strings.ToLower(industry))
	}
	for _, t := range config.Tabs {
		icon := t.Icon
		if icon == "" {
			icon = "📋"
		}
		mode.Tabs = append(mode.Tabs, entity.ModeTab{Id: t.Id, Label: t.Label, Icon: icon})
	}
	for _, m := range config.DefaultMetrics {
		mode.DefaultMetrics = append(mode.DefaultMetrics, entity.ModeMetric{
			Label: m.Label, Value: m.Value, Unit: m.Unit,
		})
	}

	g.logger.Info("ModeGenerator", "Mode generation complete", map[string]interface{}{
		"id": mode.Id, "name": mode.Name, "company": mode.CompanyName,
	})
	return mode
}

// buildFullSystemPrompt combines the generated fragment with personality
// traits and the standard visualization tools context.
func buildFullSystemPrompt(config *generatedConfig) string {
	traits := strings.Join(config.PersonalityTraits, ", ")
	industry := strings.ToLower(config.IndustryName)

	return fmt.Sprintf(`You are a helpful assistant for a %s dashboard. %s

Your personality: %s

Keep responses clear, professional, and concise. Speak naturally like a friendly %s expert.
%s`, industry, config.SystemPromptFragment, traits, industry, tools.ChatToolsContext)
}

// StripCodeFences removes a wrapping markdown code block, if present.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > 0 && strings.HasPrefix(lines[0], "```") {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
