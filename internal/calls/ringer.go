package calls

import (
	"encoding/json"
	"sync"
	"time"

	"loopline.app/server/internal/model"
)

type RingerState string

const (
	StateIdle    RingerState = "idle"
	StateRinging RingerState = "ringing"
)

// PendingCall is the offer currently ringing on a connection. CallerName
// is resolved from the caller's profile when the offer arrives so the
// callee can render who is calling without another lookup.
type PendingCall struct {
	SignalID       int64           `json:"signal_id"`
	CallerID       int64           `json:"caller_id"`
	CallerName     string          `json:"caller_name"`
	CalleeID       int64           `json:"callee_id"`
	ConversationID int64           `json:"conversation_id"`
	CallType       string          `json:"call_type"`
	SignalData     json.RawMessage `json:"signal_data"`
	ReceivedAt     time.Time       `json:"received_at"`
}

// Ringer holds incoming-call state for one connected user. It has two
// states and no queue: while ringing, a second offer replaces the first
// outright (last write wins, the earlier caller gets no rejection row).
// A closed ringer accepts no further transitions.
type Ringer struct {
	mu      sync.Mutex
	state   RingerState
	pending *PendingCall
	closed  bool
}

func NewRinger() *Ringer {
	return &Ringer{state: StateIdle}
}

func (r *Ringer) State() RingerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Ringer) Pending() *PendingCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return nil
	}
	p := *r.pending
	return &p
}

// Ring transitions to Ringing with the given offer. While already
// ringing the new offer replaces the pending one without any merge or
// timestamp comparison. Returns false if the ringer is closed.
func (r *Ringer) Ring(call PendingCall) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false
	}
	r.state = StateRinging
	r.pending = &call
	return true
}

// Accept clears the pending call and returns it. No signal row is
// written on accept; the answer travels over the signaling channel.
func (r *Ringer) Accept() (*PendingCall, bool) {
	return r.take()
}

// Reject clears the pending call and returns it so the caller can write
// the single reject row.
func (r *Ringer) Reject() (*PendingCall, bool) {
	return r.take()
}

func (r *Ringer) take() (*PendingCall, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.state != StateRinging || r.pending == nil {
		return nil, false
	}
	p := r.pending
	r.state = StateIdle
	r.pending = nil
	return p, true
}

// Close freezes the ringer permanently. Later offers, accepts and
// rejects are all no-ops.
func (r *Ringer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.state = StateIdle
	r.pending = nil
}

func (r *Ringer) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// RejectPayload is the fixed signal_data written on reject.
var RejectPayload = json.RawMessage(`{"reason":"declined"}`)

// RejectSignal builds the reject row for a pending offer. caller_id and
// callee_id are swapped relative to the inbound offer so the original
// caller receives it.
func RejectSignal(p *PendingCall) *model.CallSignal {
	return &model.CallSignal{
		CallerID:       p.CalleeID,
		CalleeID:       p.CallerID,
		ConversationID: p.ConversationID,
		SignalType:     model.SignalReject,
		SignalData:     RejectPayload,
	}
}
