package realtime

import "encoding/json"

// Typed event union for the realtime transport. Every inbound frame is
// decoded into exactly one of these variants; unrecognized frame types
// surface as Unknown so callers can log rather than guess at fields.

type Event interface {
	isEvent()
}

type SessionCreated struct{}

type SessionUpdated struct{}

// SpeechStarted means server-side VAD detected the user speaking.
type SpeechStarted struct{}

type SpeechStopped struct{}

// InputTranscriptionCompleted carries the user's transcribed utterance.
type InputTranscriptionCompleted struct {
	ItemId     string
	Transcript string
}

// ResponseCreated marks the start of a model turn.
type ResponseCreated struct {
	ResponseId string
}

// ResponseDone marks the end of a model turn (completed or cancelled).
type ResponseDone struct {
	ResponseId string
}

// AudioDelta is a base64 PCM16 chunk of the model's speech.
type AudioDelta struct {
	Delta string
}

// AudioTranscriptDelta is a text fragment of what the model is saying.
type AudioTranscriptDelta struct {
	Delta string
}

// FunctionCallArgumentsDone fires once a tool call's arguments are fully
// streamed.
type FunctionCallArgumentsDone struct {
	CallId    string
	Name      string
	Arguments string
}

type ErrorEvent struct {
	Message string
}

type Unknown struct {
	Type string
}

func (SessionCreated) isEvent()              {}
func (SessionUpdated) isEvent()              {}
func (SpeechStarted) isEvent()               {}
func (SpeechStopped) isEvent()               {}
func (InputTranscriptionCompleted) isEvent() {}
func (ResponseCreated) isEvent()             {}
func (ResponseDone) isEvent()                {}
func (AudioDelta) isEvent()                  {}
func (AudioTranscriptDelta) isEvent()        {}
func (FunctionCallArgumentsDone) isEvent()   {}
func (ErrorEvent) isEvent()                  {}
func (Unknown) isEvent()                     {}

type rawEvent struct {
	Type       string `json:"type"`
	ItemId     string `json:"item_id"`
	Transcript string `json:"transcript"`
	Delta      string `json:"delta"`
	CallId     string `json:"call_id"`
	Name       string `json:"name"`
	Arguments  string `json:"arguments"`
	Response   struct {
		Id string `json:"id"`
	} `json:"response"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ParseEvent decodes one wire frame into its event variant.
func ParseEvent(data []byte) (Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	switch raw.Type {
	case "session.created":
		return SessionCreated{}, nil
	case "session.updated":
		return SessionUpdated{}, nil
	case "input_audio_buffer.speech_started":
		return SpeechStarted{}, nil
	case "input_audio_buffer.speech_stopped":
		return SpeechStopped{}, nil
	case "conversation.item.input_audio_transcription.completed":
		return InputTranscriptionCompleted{ItemId: raw.ItemId, Transcript: raw.Transcript}, nil
	case "response.created":
		return ResponseCreated{ResponseId: raw.Response.Id}, nil
	case "response.done":
		return ResponseDone{ResponseId: raw.Response.Id}, nil
	case "response.audio.delta":
		return AudioDelta{Delta: raw.Delta}, nil
	case "response.audio_transcript.delta":
		return AudioTranscriptDelta{Delta: raw.Delta}, nil
	case "response.function_call_arguments.done":
		return FunctionCallArgumentsDone{CallId: raw.CallId, Name: raw.Name, Arguments: raw.Arguments}, nil
	case "error":
		return ErrorEvent{Message: raw.Error.Message}, nil
	default:
		return Unknown{Type: raw.Type}, nil
	}
}
