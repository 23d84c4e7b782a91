package dto

// Voice channel frames are flat JSON objects without the payload wrapper,
// except mode events which reuse the text-channel payload shape.

// VoiceInbound covers every frame the browser may send.
type VoiceInbound struct {
	Type  string `json:"type"`
	Data  string `json:"data,omitempty"` // base64 PCM16 for "audio"
	Muted bool   `json:"muted,omitempty"`
}

const (
	VoiceInboundAudio = "audio"
	VoiceInboundMute  = "mute"
	VoiceInboundStop  = "stop"
)

// Outbound voice frame types.
const (
	VoiceTypeStatus                  = "status"
	VoiceTypeSpeechStarted           = "speech_started"
	VoiceTypeSpeechStopped           = "speech_stopped"
	VoiceTypeAudio                   = "audio"
	VoiceTypeTranscript              = "transcript"
	VoiceTypeToolResult              = "tool_result"
	VoiceTypeVisualizationGenerating = "visualization_generating"
	VoiceTypeError                   = "error"

	VoiceStatusConnected    = "connected"
	VoiceStatusDisconnected = "disconnected"
)

type VoiceStatus struct {
	Type   string `json:"type"`
	Status string `json:"status"` // "connected" | "disconnected"
}

type VoiceSpeechEvent struct {
	Type string `json:"type"` // "speech_started" | "speech_stopped"
}

type VoiceAudio struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

type VoiceTranscript struct {
	Type string `json:"type"`
	Role string `json:"role"`
	Text string `json:"text"`
}

type VoiceToolResult struct {
	Type   string                 `json:"type"`
	Tool   string                 `json:"tool"`
	Result map[string]interface{} `json:"result"`
}

type VoiceVisualizationGenerating struct {
	Type        string `json:"type"`
	VisType     string `json:"vis_type"`
	Description string `json:"description"`
}

type VoiceError struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// VoiceModeEvent wraps mode_switch / mode_generating / mode_generating_cancel
// for the voice channel, reusing the text-channel payload shapes.
type VoiceModeEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
