package calls

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/realtime"
	"loopline.app/server/internal/store"
)

var (
	ErrNotParticipant = errors.New("user is not a participant of the conversation")
	ErrNotRinging     = errors.New("no call is ringing")
	ErrSelfCall       = errors.New("cannot call yourself")
	ErrBadSignalType  = errors.New("unsupported signal type")
)

// Service handles call signaling. Signal rows are append-only; the
// per-user ringer decides which transitions produce rows at all.
type Service interface {
	PlaceCall(ctx context.Context, callerID, calleeID, conversationID int64, callType string, sdp json.RawMessage) (*model.CallSignal, error)
	SendSignal(ctx context.Context, senderID, recipientID, conversationID int64, signalType model.SignalType, data json.RawMessage) (*model.CallSignal, error)
	Accept(ctx context.Context, userID int64) error
	Reject(ctx context.Context, userID int64) error
	ListIncoming(ctx context.Context, calleeID int64, since time.Time, limit int32) ([]model.CallSignal, error)

	// RingLocal feeds a signal observed on the realtime bridge into the
	// callee's ringer, if the callee is connected to this instance. Ringing
	// goes through the bridge rather than the write path so a callee on a
	// different instance than the caller still rings.
	RingLocal(ctx context.Context, sig *model.CallSignal)

	// Pending reports the offer currently ringing for a user, if any.
	Pending(userID int64) *PendingCall

	// AttachRinger binds a fresh ringer to a connected user; DetachRinger
	// closes and removes it when the connection drops.
	AttachRinger(userID int64) *Ringer
	DetachRinger(userID int64)
}

type service struct {
	signals       store.CallSignalStore
	conversations store.ConversationStore
	users         store.UserStore
	publisher     realtime.Publisher

	mu      sync.Mutex
	ringers map[int64]*Ringer
}

func NewService(signals store.CallSignalStore, conversations store.ConversationStore, users store.UserStore, publisher realtime.Publisher) Service {
	return &service{
		signals:       signals,
		conversations: conversations,
		users:         users,
		publisher:     publisher,
		ringers:       make(map[int64]*Ringer),
	}
}

func (s *service) AttachRinger(userID int64) *Ringer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.ringers[userID]; ok {
		old.Close()
	}
	r := NewRinger()
	s.ringers[userID] = r
	return r
}

func (s *service) DetachRinger(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.ringers[userID]; ok {
		r.Close()
		delete(s.ringers, userID)
	}
}

func (s *service) ringer(userID int64) *Ringer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ringers[userID]
}

func (s *service) Pending(userID int64) *PendingCall {
	r := s.ringer(userID)
	if r == nil {
		return nil
	}
	return r.Pending()
}

// RingLocal rings the callee's ringer for offer signals arriving over the
// bridge. Non-offer signals and callees without a local connection are
// ignored. A second offer while ringing simply replaces the pending one.
func (s *service) RingLocal(ctx context.Context, sig *model.CallSignal) {
	if sig.SignalType != model.SignalOffer {
		return
	}
	r := s.ringer(sig.CalleeID)
	if r == nil {
		return
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:      "loopline.calls",
		UserID:         &sig.CalleeID,
		ConversationID: &sig.ConversationID,
	})

	var offer struct {
		CallType string `json:"call_type"`
	}
	if err := json.Unmarshal(sig.SignalData, &offer); err != nil {
		slog.WarnContext(ctx, "offer signal with undecodable data", "error", err, "signal_id", sig.ID)
		return
	}

	callerName := ""
	if caller, err := s.users.GetByID(ctx, sig.CallerID); err != nil {
		// Ring anyway; the name is cosmetic and the client holds the IDs.
		slog.WarnContext(ctx, "could not resolve caller profile", "error", err, "caller_id", sig.CallerID)
	} else {
		callerName = caller.Name
	}

	r.Ring(PendingCall{
		SignalID:       sig.ID,
		CallerID:       sig.CallerID,
		CallerName:     callerName,
		CalleeID:       sig.CalleeID,
		ConversationID: sig.ConversationID,
		CallType:       offer.CallType,
		SignalData:     sig.SignalData,
		ReceivedAt:     sig.CreatedAt,
	})
	slog.InfoContext(ctx, "ringing local callee", "caller_id", sig.CallerID, "call_type", offer.CallType)
}

// NewSignalHook adapts bridged call_signals events into local ringer
// transitions. Wired into the realtime bridge at startup.
func NewSignalHook(svc Service) realtime.EventHook {
	return func(ctx context.Context, event realtime.Event) {
		if !strings.HasPrefix(event.Channel, "call_signals:") {
			return
		}
		var sig model.CallSignal
		if err := json.Unmarshal(event.Payload, &sig); err != nil {
			slog.WarnContext(ctx, "ignoring malformed call signal event", "error", err, "channel", event.Channel)
			return
		}
		svc.RingLocal(ctx, &sig)
	}
}

func (s *service) PlaceCall(ctx context.Context, callerID, calleeID, conversationID int64, callType string, sdp json.RawMessage) (*model.CallSignal, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:      "loopline.calls",
		UserID:         &callerID,
		ConversationID: &conversationID,
	})

	if callerID == calleeID {
		return nil, ErrSelfCall
	}
	if callType != model.CallTypeAudio && callType != model.CallTypeVideo {
		return nil, fmt.Errorf("%w: call type %q", ErrBadSignalType, callType)
	}

	if err := s.requireParticipants(ctx, conversationID, callerID, calleeID); err != nil {
		return nil, err
	}

	data, err := json.Marshal(map[string]any{
		"call_type": callType,
		"sdp":       json.RawMessage(sdp),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal offer data: %w", err)
	}

	sig := &model.CallSignal{
		ID:             id.New(),
		CallerID:       callerID,
		CalleeID:       calleeID,
		ConversationID: conversationID,
		SignalType:     model.SignalOffer,
		SignalData:     data,
	}
	if err := s.signals.Create(ctx, sig); err != nil {
		return nil, fmt.Errorf("create offer signal: %w", err)
	}

	// Ringing happens when the offer comes back over the bridge, so a
	// callee connected to any instance rings, including this one.
	s.publish(ctx, sig)

	slog.InfoContext(ctx, "call placed", "callee_id", calleeID, "call_type", callType)
	return sig, nil
}

func (s *service) SendSignal(ctx context.Context, senderID, recipientID, conversationID int64, signalType model.SignalType, data json.RawMessage) (*model.CallSignal, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:      "loopline.calls",
		UserID:         &senderID,
		ConversationID: &conversationID,
	})

	// Offers go through PlaceCall and rejects through Reject so the
	// ringer stays authoritative.
	if signalType != model.SignalAnswer && signalType != model.SignalICE {
		return nil, fmt.Errorf("%w: %s", ErrBadSignalType, signalType)
	}

	if err := s.requireParticipants(ctx, conversationID, senderID, recipientID); err != nil {
		return nil, err
	}

	sig := &model.CallSignal{
		ID:             id.New(),
		CallerID:       senderID,
		CalleeID:       recipientID,
		ConversationID: conversationID,
		SignalType:     signalType,
		SignalData:     data,
	}
	if err := s.signals.Create(ctx, sig); err != nil {
		return nil, fmt.Errorf("create %s signal: %w", signalType, err)
	}

	s.publish(ctx, sig)
	return sig, nil
}

// Accept clears the pending call without writing any signal row; the
// answer itself is sent by the client as an answer signal.
func (s *service) Accept(ctx context.Context, userID int64) error {
	r := s.ringer(userID)
	if r == nil {
		return ErrNotRinging
	}
	pending, ok := r.Accept()
	if !ok {
		return ErrNotRinging
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:      "loopline.calls",
		UserID:         &userID,
		ConversationID: &pending.ConversationID,
	})
	slog.InfoContext(ctx, "call accepted", "caller_id", pending.CallerID)
	return nil
}

// Reject writes exactly one reject row, addressed back to the caller.
func (s *service) Reject(ctx context.Context, userID int64) error {
	r := s.ringer(userID)
	if r == nil {
		return ErrNotRinging
	}
	pending, ok := r.Reject()
	if !ok {
		return ErrNotRinging
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:      "loopline.calls",
		UserID:         &userID,
		ConversationID: &pending.ConversationID,
	})

	sig := RejectSignal(pending)
	sig.ID = id.New()
	if err := s.signals.Create(ctx, sig); err != nil {
		return fmt.Errorf("create reject signal: %w", err)
	}

	s.publish(ctx, sig)

	slog.InfoContext(ctx, "call rejected", "caller_id", pending.CallerID)
	return nil
}

func (s *service) ListIncoming(ctx context.Context, calleeID int64, since time.Time, limit int32) ([]model.CallSignal, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.signals.ListByCallee(ctx, calleeID, since, limit)
}

func (s *service) requireParticipants(ctx context.Context, conversationID int64, userIDs ...int64) error {
	for _, uid := range userIDs {
		ok, err := s.conversations.IsParticipant(ctx, conversationID, uid)
		if err != nil {
			return fmt.Errorf("check participant: %w", err)
		}
		if !ok {
			return ErrNotParticipant
		}
	}
	return nil
}

func (s *service) publish(ctx context.Context, sig *model.CallSignal) {
	channel := realtime.CallSignalsInsert(sig.CalleeID)
	if err := s.publisher.Publish(ctx, channel, sig); err != nil {
		// Delivery is best-effort; the row is already durable and the
		// callee can poll ListIncoming.
		slog.ErrorContext(ctx, "failed to publish call signal", "error", err, "channel", channel)
	}
}
