package store

import (
	"context"
	"time"

	"loopline.app/server/core/db"
	"loopline.app/server/internal/model"
)

type callSignalStore struct {
	q db.Querier
}

func newCallSignalStore(q db.Querier) CallSignalStore {
	return &callSignalStore{q: q}
}

func (s *callSignalStore) Create(ctx context.Context, sig *model.CallSignal) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO call_signals (id, caller_id, callee_id, conversation_id, signal_type, signal_data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, caller_id, callee_id, conversation_id, signal_type, signal_data, created_at`,
		sig.ID, sig.CallerID, sig.CalleeID, sig.ConversationID, sig.SignalType, sig.SignalData)
	return row.Scan(&sig.ID, &sig.CallerID, &sig.CalleeID, &sig.ConversationID, &sig.SignalType, &sig.SignalData, &sig.CreatedAt)
}

func (s *callSignalStore) ListByCallee(ctx context.Context, calleeID int64, since time.Time, limit int32) ([]model.CallSignal, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, caller_id, callee_id, conversation_id, signal_type, signal_data, created_at
		FROM call_signals
		WHERE callee_id = $1 AND created_at > $2
		ORDER BY created_at ASC
		LIMIT $3`, calleeID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sigs []model.CallSignal
	for rows.Next() {
		var sig model.CallSignal
		if err := rows.Scan(&sig.ID, &sig.CallerID, &sig.CalleeID, &sig.ConversationID, &sig.SignalType, &sig.SignalData, &sig.CreatedAt); err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	return sigs, rows.Err()
}
