package service

// ClientSender delivers one JSON frame to the connected dashboard client.
// Implementations must be safe for concurrent use: background
// visualization tasks write alongside the session's own loops.
type ClientSender interface {
	SendJSON(v interface{}) error
}
