package calls_test

import (
	"context"
	"time"

	"loopline.app/server/internal/model"
)

type mockCallSignalStore struct {
	createFn       func(ctx context.Context, sig *model.CallSignal) error
	listByCalleeFn func(ctx context.Context, calleeID int64, since time.Time, limit int32) ([]model.CallSignal, error)

	created []model.CallSignal
}

func (m *mockCallSignalStore) Create(ctx context.Context, sig *model.CallSignal) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, sig); err != nil {
			return err
		}
	}
	m.created = append(m.created, *sig)
	return nil
}

func (m *mockCallSignalStore) ListByCallee(ctx context.Context, calleeID int64, since time.Time, limit int32) ([]model.CallSignal, error) {
	if m.listByCalleeFn != nil {
		return m.listByCalleeFn(ctx, calleeID, since, limit)
	}
	return nil, nil
}

type mockConversationStore struct {
	isParticipantFn func(ctx context.Context, conversationID, userID int64) (bool, error)
}

func (m *mockConversationStore) GetByID(context.Context, int64) (*model.Conversation, error) {
	return nil, nil
}
func (m *mockConversationStore) Create(context.Context, *model.Conversation) error { return nil }
func (m *mockConversationStore) Touch(context.Context, int64) error                { return nil }
func (m *mockConversationStore) ListByUser(context.Context, int64) ([]model.Conversation, error) {
	return nil, nil
}
func (m *mockConversationStore) AddParticipant(context.Context, *model.Participant) error {
	return nil
}
func (m *mockConversationStore) ListParticipants(context.Context, int64) ([]model.Participant, error) {
	return nil, nil
}
func (m *mockConversationStore) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	if m.isParticipantFn != nil {
		return m.isParticipantFn(ctx, conversationID, userID)
	}
	return true, nil
}
func (m *mockConversationStore) UpdateLastRead(context.Context, int64, int64, time.Time) error {
	return nil
}

type mockUserStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.User{ID: id, Name: "Ada Lovelace"}, nil
}

func (m *mockUserStore) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserStore) Create(context.Context, *model.User) error           { return nil }
func (m *mockUserStore) UpsertByWorkOSID(context.Context, *model.User) error { return nil }
func (m *mockUserStore) Update(context.Context, *model.User) error           { return nil }
func (m *mockUserStore) Delete(context.Context, int64) error                 { return nil }
func (m *mockUserStore) ListByIDs(context.Context, []int64) ([]model.User, error) {
	return nil, nil
}

type publishedEvent struct {
	channel string
	payload any
}

type mockPublisher struct {
	publishFn func(ctx context.Context, channel string, payload any) error
	events    []publishedEvent
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, payload any) error {
	if m.publishFn != nil {
		if err := m.publishFn(ctx, channel, payload); err != nil {
			return err
		}
	}
	m.events = append(m.events, publishedEvent{channel: channel, payload: payload})
	return nil
}
