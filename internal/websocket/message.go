package websocket

import (
	"encoding/json"

	"github.com/dennisdiepolder/calldash/internal/callmetrics"
)

// Message types sent to dashboard clients
const (
	MessageTypeSnapshot = "snapshot"
	MessageTypeError    = "error"
)

// RefreshCommand is the text a client sends to request a fresh snapshot
const RefreshCommand = "refresh"

// Message is the envelope for every server push
type Message struct {
	Type     string                `json:"type"`
	Snapshot *callmetrics.Snapshot `json:"snapshot,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// SnapshotMessage encodes a snapshot push
func SnapshotMessage(s callmetrics.Snapshot) ([]byte, error) {
	return json.Marshal(Message{Type: MessageTypeSnapshot, Snapshot: &s})
}

// ErrorMessage encodes an error push
func ErrorMessage(msg string) []byte {
	data, _ := json.Marshal(Message{Type: MessageTypeError, Error: msg})
	return data
}
