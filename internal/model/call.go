package model

import (
	"encoding/json"
	"time"
)

type SignalType string

const (
	SignalOffer  SignalType = "offer"
	SignalAnswer SignalType = "answer"
	SignalReject SignalType = "reject"
	SignalICE    SignalType = "ice"
)

// Call media kinds carried inside an offer's signal data.
const (
	CallTypeAudio = "audio"
	CallTypeVideo = "video"
)

// CallSignal is an append-only signaling row. The receiving client consumes it
// transiently; rows are never updated or deleted by this codebase.
type CallSignal struct {
	ID             int64           `json:"id"`
	CallerID       int64           `json:"caller_id"`
	CalleeID       int64           `json:"callee_id"`
	ConversationID int64           `json:"conversation_id"`
	SignalType     SignalType      `json:"signal_type"`
	SignalData     json.RawMessage `json:"signal_data"`
	CreatedAt      time.Time       `json:"created_at"`
}
