package dto

import (
	"encoding/json"

	"ai-dashboard-be/internal/entity"
)

// Envelope is the framing for every message on the text channel.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Outbound envelope types for the text channel.
const (
	EnvelopeChat                 = "chat"
	EnvelopeChatStart            = "chat_start"
	EnvelopeChatChunk            = "chat_chunk"
	EnvelopeChatError            = "chat_error"
	EnvelopeToolResult           = "tool_result"
	EnvelopeModeSwitch           = "mode_switch"
	EnvelopeModeGenerating       = "mode_generating"
	EnvelopeModeGeneratingCancel = "mode_generating_cancel"
	EnvelopeError                = "error"
)

type ChatRequest struct {
	Text string `json:"text"`
}

type ChatChunkPayload struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type ChatErrorPayload struct {
	Error string `json:"error"`
}

type ToolResultPayload struct {
	Tool   string                 `json:"tool"`
	Result map[string]interface{} `json:"result"`
}

type ModeGeneratingPayload struct {
	Industry string `json:"industry"`
}

// ModePayload is the client-facing projection of a mode bundle. Metrics
// keep the camelCase key the dashboard expects.
type ModePayload struct {
	Id              string              `json:"id"`
	Name            string              `json:"name"`
	CompanyName     string              `json:"company_name"`
	Tagline         string              `json:"tagline"`
	Theme           entity.ModeTheme    `json:"theme"`
	Tabs            []entity.ModeTab    `json:"tabs"`
	DefaultMetrics  []entity.ModeMetric `json:"defaultMetrics"`
	BackgroundImage string              `json:"background_image,omitempty"`
	HeroImage       string              `json:"hero_image,omitempty"`
	ChatImage       string              `json:"chat_image,omitempty"`
}

type ModeSwitchPayload struct {
	Mode    ModePayload    `json:"mode"`
	Persona entity.Persona `json:"persona"`
}

func NewModePayload(m *entity.Mode) ModePayload {
	return ModePayload{
		Id:              m.Id,
		Name:            m.Name,
		CompanyName:     m.CompanyName,
		Tagline:         m.Tagline,
		Theme:           m.Theme,
		Tabs:            m.Tabs,
		DefaultMetrics:  m.DefaultMetrics,
		BackgroundImage: m.BackgroundImage,
		HeroImage:       m.HeroImage,
		ChatImage:       m.ChatImage,
	}
}

// NewEnvelope marshals the payload; marshal errors are impossible for the
// fixed payload types above, so they are intentionally discarded.
func NewEnvelope(envelopeType string, payload interface{}) Envelope {
	raw, _ := json.Marshal(payload)
	return Envelope{Type: envelopeType, Payload: raw}
}
