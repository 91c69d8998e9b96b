package events

import (
	"encoding/json"
	"time"
)

// MutationEvent describes one durable ledger mutation. Consumers fetch
// whatever detail they need from the store; the event carries only the
// addressing information.
type MutationEvent struct {
	User      string    `json:"user"`
	Op        string    `json:"op"`
	TxID      int       `json:"tx_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMutationEvent creates an event stamped with the current time.
func NewMutationEvent(user, op string, txID int) *MutationEvent {
	return &MutationEvent{
		User:      user,
		Op:        op,
		TxID:      txID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes
func (e *MutationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// MutationEventFromJSON creates an event from JSON bytes
func MutationEventFromJSON(data []byte) (*MutationEvent, error) {
	var e MutationEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
