package amqp

import (
	"encoding/json"
	"time"
)

// LedgerSyncMessage announces that the local mirror was saved and the remote
// sheet should be brought up to date. It carries only the row count; the
// worker reads the authoritative rows from the mirror.
type LedgerSyncMessage struct {
	Rows      int       `json:"rows"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerSyncMessage(rows int) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		Rows:      rows,
		Timestamp: time.Now(),
	}
}

func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
