package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Client wraps the realtime model's full-duplex event socket. Reads are
// single-consumer (one relay loop); writes are serialized internally since
// barge-in cancels and tool outputs are sent from multiple call sites.
type Client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

// Tool is the realtime wire form of a function schema (flattened, unlike
// chat completions).
type Tool struct {
	Type        string                 `json:"type"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// SessionConfig is the session.update payload. Zero-valued fields are
// omitted so partial updates (e.g. instructions only) are possible.
type SessionConfig struct {
	Modalities              []string           `json:"modalities,omitempty"`
	Voice                   string             `json:"voice,omitempty"`
	InputAudioFormat        string             `json:"input_audio_format,omitempty"`
	OutputAudioFormat       string             `json:"output_audio_format,omitempty"`
	InputAudioTranscription *TranscriptionConf `json:"input_audio_transcription,omitempty"`
	TurnDetection           *TurnDetectionConf `json:"turn_detection,omitempty"`
	Tools                   []Tool             `json:"tools,omitempty"`
	Instructions            string             `json:"instructions,omitempty"`
}

type TranscriptionConf struct {
	Model string `json:"model"`
}

type TurnDetectionConf struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms"`
	SilenceDurationMs int     `json:"silence_duration_ms"`
}

// Dial connects to the realtime endpoint with bearer auth.
func Dial(ctx context.Context, url, apiKey string) (*Client, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+apiKey)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("realtime dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("realtime dial failed: %w", err)
	}
	return &Client{conn: conn}, nil
}

// ReadEvent blocks until the next event arrives and decodes it.
func (c *Client) ReadEvent() (Event, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return ParseEvent(data)
}

func (c *Client) send(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// UpdateSession sends a session.update with the given configuration.
func (c *Client) UpdateSession(cfg SessionConfig) error {
	return c.send(map[string]interface{}{
		"type":    "session.update",
		"session": cfg,
	})
}

// AppendAudio forwards a base64 PCM16 chunk to the model's input buffer.
func (c *Client) AppendAudio(base64Audio string) error {
	return c.send(map[string]interface{}{
		"type":  "input_audio_buffer.append",
		"audio": base64Audio,
	})
}

// CancelResponse aborts the in-flight model response (barge-in).
func (c *Client) CancelResponse() error {
	return c.send(map[string]interface{}{"type": "response.cancel"})
}

// CreateResponse asks the model to generate a new turn.
func (c *Client) CreateResponse() error {
	return c.send(map[string]interface{}{"type": "response.create"})
}

// CreateUserMessage injects an authored user turn into the conversation
// timeline (used for greetings and deferred notifications).
func (c *Client) CreateUserMessage(text string) error {
	return c.send(map[string]interface{}{
		"type": "conversation.item.create",
		"item": map[string]interface{}{
			"type": "message",
			"role": "user",
			"content": []map[string]interface{}{
				{"type": "input_text", "text": text},
			},
		},
	})
}

// SendFunctionOutput feeds a tool result back into the conversation.
func (c *Client) SendFunctionOutput(callId string, output map[string]interface{}) error {
	payload, err := json.Marshal(output)
	if err != nil {
		return fmt.Errorf("marshal function output: %w", err)
	}
	return c.send(map[string]interface{}{
		"type": "conversation.item.create",
		"item": map[string]interface{}{
			"type":    "function_call_output",
			"call_id": callId,
			"output":  string(payload),
		},
	})
}

func (c *Client) Close() error {
	return c.conn.Close()
}
