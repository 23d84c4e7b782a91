package events

import "encoding/json"

// ModeSwitched is published on the in-process bus whenever any session
// activates a new mode, so every connected dashboard client can re-theme.
// Origin carries the session that triggered the switch; the hub skips it
// since that session already received the payload directly.
type ModeSwitched struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}
