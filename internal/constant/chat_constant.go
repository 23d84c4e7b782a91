package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Rolling history cap, applied to both text and voice transcripts.
	ConversationHistoryLimit = 20

	// WelcomeMessageFormat is streamed as a synthesized response right
	// after a mode switch; %s is the mode display name.
	WelcomeMessageFormat = "Presto-Change-O! I'm now your %s assistant. How can I help you today?"
)

// Wake-word variants accepted by the cheap local check. The full phrase
// survives punctuation stripping ("presto-change-o" → "presto change o");
// the bare "presto" variant keeps voice latency low since transcription
// often drops the tail of the phrase.
var WakeWordVariants = []string{
	"presto change o",
	"prestochangeo",
	"presto",
}
