package memory

import (
	"fmt"

	"ai-dashboard-be/internal/entity"
	"ai-dashboard-be/pkg/tools"
)

// Pre-built industry bundles. These are the three families that ship with
// the app; everything else is generated at runtime.

func builtinModes() map[string]*entity.Mode {
	modes := map[string]*entity.Mode{
		"banking": {
			Id:          "banking",
			Name:        "Banking",
			CompanyName: "Meridian Trust Bank",
			Tagline:     "Banking you can count on",
			Theme: entity.ModeTheme{
				Primary:    "#1e88e5",
				Secondary:  "#e5881e",
				Background: "#f8fafc",
				Surface:    "#ffffff",
				Text:       "#0f172a",
				TextMuted:  "#64748b",
			},
			Tabs: []entity.ModeTab{
				{Id: "dashboard", Label: "Dashboard", Icon: "📊"},
				{Id: "accounts", Label: "Accounts", Icon: "🏦"},
				{Id: "transfers", Label: "Transfers", Icon: "💸"},
				{Id: "cards", Label: "Cards", Icon: "💳"},
				{Id: "settings", Label: "Settings", Icon: "⚙️"},
			},
			SystemPrompt: bankingPrompt,
			DefaultMetrics: []entity.ModeMetric{
				{Label: "Checking Balance", Value: "$4,218.52"},
				{Label: "Savings Balance", Value: "$18,340.00"},
				{Label: "Credit Score", Value: 742},
				{Label: "Monthly Spending", Value: "$2,107", Unit: "/mo"},
			},
		},
		"insurance": {
			Id:          "insurance",
			Name:        "Insurance",
			CompanyName: "Sentinel Mutual",
			Tagline:     "Protection for what matters",
			Theme: entity.ModeTheme{
				Primary:    "#00897b",
				Secondary:  "#89000e",
				Background: "#f8fafc",
				Surface:    "#ffffff",
				Text:       "#0f172a",
				TextMuted:  "#64748b",
			},
			Tabs: []entity.ModeTab{
				{Id: "dashboard", Label: "Dashboard", Icon: "📊"},
				{Id: "policies", Label: "Policies", Icon: "📜"},
				{Id: "claims", Label: "Claims", Icon: "📋"},
				{Id: "coverage", Label: "Coverage", Icon: "🛡️"},
				{Id: "settings", Label: "Settings", Icon: "⚙️"},
			},
			SystemPrompt: insurancePrompt,
			DefaultMetrics: []entity.ModeMetric{
				{Label: "Active Policies", Value: 3},
				{Label: "Total Coverage", Value: "$1.2M"},
				{Label: "Monthly Premium", Value: "$312"},
				{Label: "Open Claims", Value: 1},
			},
		},
		"healthcare": {
			Id:          "healthcare",
			Name:        "Healthcare",
			CompanyName: "Harborview Health",
			Tagline:     "Care that's always there",
			Theme: entity.ModeTheme{
				Primary:    "#43a047",
				Secondary:  "#a04443",
				Background: "#f8fafc",
				Surface:    "#ffffff",
				Text:       "#0f172a",
				TextMuted:  "#64748b",
			},
			Tabs: []entity.ModeTab{
				{Id: "dashboard", Label: "Dashboard", Icon: "📊"},
				{Id: "appointments", Label: "Appointments", Icon: "📅"},
				{Id: "prescriptions", Label: "Prescriptions", Icon: "💊"},
				{Id: "benefits", Label: "Benefits", Icon: "🏥"},
				{Id: "settings", Label: "Settings", Icon: "⚙️"},
			},
			SystemPrompt: healthcarePrompt,
			DefaultMetrics: []entity.ModeMetric{
				{Label: "Deductible Met", Value: "$1,150", Unit: "of $2,500"},
				{Label: "Upcoming Appointments", Value: 2},
				{Label: "Active Prescriptions", Value: 3},
				{Label: "Out-of-Pocket Spent", Value: "$1,890"},
			},
		},
	}
	return modes
}

var bankingPrompt = fmt.Sprintf(`You are a personal banking assistant for Meridian Trust Bank. You help customers understand their accounts, balances, transactions, and credit. Speak like a knowledgeable, trustworthy banker: clear, professional, and reassuring. Use banking terminology naturally but explain anything complex.
%s`, tools.ChatToolsContext)

var insurancePrompt = fmt.Sprintf(`You are an insurance advisor for Sentinel Mutual. You help customers understand their policies, coverage, premiums, and claims. Speak like a calm, thorough insurance professional: empathetic about claims, precise about coverage details, and never pushy.
%s`, tools.ChatToolsContext)

var healthcarePrompt = fmt.Sprintf(`You are a patient care assistant for Harborview Health. You help patients understand their appointments, prescriptions, benefits, and deductibles. Speak like a warm, patient-focused care coordinator. Never give medical advice; for clinical questions, recommend speaking with a provider.
%s`, tools.ChatToolsContext)
