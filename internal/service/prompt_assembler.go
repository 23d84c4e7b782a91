package service

import (
	"fmt"
	"reflect"
	"strings"

	"ai-dashboard-be/internal/entity"
	"ai-dashboard-be/pkg/tools"
)

// Prompt assembly: combine a mode's base prompt with the active persona.
// Pure functions; both sessions and the background tasks call these.

const universalRules = `
Universal rules:
- Never refer to this data as fake, sample, or demo data. Treat it as the customer's real information.
- Be terse. Answer in a sentence or two unless the user asks for detail.
- Never show a value as zero when the profile above has a real value for it.`

// BuildSystemPrompt appends a mode-family-specific profile block to the
// mode's base prompt. An empty persona returns the base prompt unchanged.
func BuildSystemPrompt(mode *entity.Mode, p entity.Persona) string {
	if len(p) == 0 {
		return mode.SystemPrompt
	}

	var block string
	switch mode.Id {
	case "banking":
		block = fmt.Sprintf(`Current Customer Profile:
- Name: %s
- Member Since: %s
- Checking Balance: $%s
- Savings Balance: $%s
- Credit Score: %d

Reference this customer's information naturally in your responses.`,
			personaString(p, "name"),
			personaString(p, "member_since"),
			formatMoney(personaFloat(p, "checking_balance")),
			formatMoney(personaFloat(p, "savings_balance")),
			personaInt(p, "credit_score"))
	case "insurance":
		block = fmt.Sprintf(`Current Customer Profile:
- Name: %s
- Member Since: %s
- Active Policies: %d
- Total Coverage: $%s
- Monthly Premium: $%s

Reference this customer's information naturally in your responses.`,
			personaString(p, "name"),
			personaString(p, "member_since"),
			personaLen(p, "active_policies"),
			formatMoney(personaFloat(p, "total_coverage")),
			formatMoney(personaFloat(p, "monthly_premium")))
	case "healthcare":
		block = fmt.Sprintf(`Current Patient Profile:
- Name: %s
- Member ID: %s
- Primary Care Provider: %s
- Deductible Progress: $%s of $%s
- Active Prescriptions: %d

Reference this patient's information naturally in your responses.`,
			personaString(p, "name"),
			personaString(p, "member_id"),
			personaString(p, "primary_care_provider"),
			formatMoney(personaFloat(p, "deductible_met")),
			formatMoney(personaFloat(p, "deductible")),
			personaLen(p, "active_prescriptions"))
	default:
		block = genericProfileBlock(p)
	}

	return mode.SystemPrompt + "\n\n" + block + "\n" + universalRules
}

// BuildVoicePrompt rewrites the heavy visualization instructions into the
// lightweight voice-tool instruction via marker substitution. A prompt
// without the marker gets the voice block appended instead.
func BuildVoicePrompt(basePrompt string) string {
	if strings.Contains(basePrompt, tools.ChatToolsContext) {
		return strings.Replace(basePrompt, tools.ChatToolsContext, tools.VoiceToolsContext, 1)
	}
	return basePrompt + "\n" + tools.VoiceToolsContext
}

func genericProfileBlock(p entity.Persona) string {
	var b strings.Builder
	b.WriteString("Current Customer Profile:\n")
	// Fixed field order keeps the prompt deterministic for caching.
	for _, key := range []string{"name", "customer_since", "account_value", "recent_activity_count", "loyalty_points", "status", "context_hint"} {
		v, ok := p[key]
		if !ok {
			continue
		}
		label := titleFromKey(key)
		switch val := v.(type) {
		case float64:
			fmt.Fprintf(&b, "- %s: $%s\n", label, formatMoney(val))
		default:
			fmt.Fprintf(&b, "- %s: %v\n", label, val)
		}
	}
	b.WriteString("\nReference this customer's information naturally in your responses.")
	return b.String()
}

func titleFromKey(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatMoney renders 1234567.5 as "1,234,567.50".
func formatMoney(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	out := b.String() + fracPart
	if neg {
		return "-" + out
	}
	return out
}

func personaString(p entity.Persona, key string) string {
	if v, ok := p[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func personaFloat(p entity.Persona, key string) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func personaInt(p entity.Persona, key string) int {
	switch v := p[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// personaLen counts entries in a slice-valued field regardless of whether
// it holds typed structs or decoded JSON.
func personaLen(p entity.Persona, key string) int {
	v, ok := p[key]
	if !ok || v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice {
		return rv.Len()
	}
	return 0
}
