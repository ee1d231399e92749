package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/realtime"
	"loopline.app/server/internal/store"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotConvParticipant   = errors.New("not a participant in this conversation")
	ErrNoParticipants       = errors.New("a conversation needs at least two participants")
)

const defaultMessageLimit = 50

type ConversationService interface {
	// Create starts a conversation between the creator and the given users.
	Create(ctx context.Context, creatorID int64, participantIDs []int64) (*model.Conversation, error)
	Get(ctx context.Context, userID, conversationID int64) (*model.Conversation, error)
	List(ctx context.Context, userID int64) ([]model.Conversation, error)
	Participants(ctx context.Context, userID, conversationID int64) ([]model.Participant, error)

	SendMessage(ctx context.Context, senderID, conversationID int64, content string) (*model.Message, error)
	ListMessages(ctx context.Context, userID, conversationID int64, before time.Time, limit int32) ([]model.Message, error)
	// MarkRead stamps unread messages from other senders and advances the
	// reader's last_read_at. Timestamps only ever move forward.
	MarkRead(ctx context.Context, userID, conversationID int64) error
	CountUnread(ctx context.Context, userID, conversationID int64) (int64, error)
}

type conversationService struct {
	conversations store.ConversationStore
	messages      store.MessageStore
	users         store.UserStore
	txRunner      TxRunner
	publisher     realtime.Publisher
	producer      queue.Producer
}

func NewConversationService(conversations store.ConversationStore, messages store.MessageStore, users store.UserStore, txRunner TxRunner, publisher realtime.Publisher, producer queue.Producer) ConversationService {
	return &conversationService{
		conversations: conversations,
		messages:      messages,
		users:         users,
		txRunner:      txRunner,
		publisher:     publisher,
		producer:      producer,
	}
}

func (s *conversationService) Create(ctx context.Context, creatorID int64, participantIDs []int64) (*model.Conversation, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.service.conversation",
		UserID:    &creatorID,
	})

	members := dedupeParticipants(creatorID, participantIDs)
	if len(members) < 2 {
		return nil, ErrNoParticipants
	}

	for _, userID := range members {
		if userID == creatorID {
			continue
		}
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("getting participant: %w", err)
		}
	}

	conv := &model.Conversation{ID: id.New()}

	// Conversation and participant rows land together or not at all.
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Conversations().Create(ctx, conv); err != nil {
			return fmt.Errorf("creating conversation: %w", err)
		}
		for _, userID := range members {
			p := &model.Participant{ConversationID: conv.ID, UserID: userID}
			if err := stores.Conversations().AddParticipant(ctx, p); err != nil {
				return fmt.Errorf("adding participant %d: %w", userID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "conversation created",
		"conversation_id", conv.ID,
		"participants", len(members))
	return conv, nil
}

func (s *conversationService) Get(ctx context.Context, userID, conversationID int64) (*model.Conversation, error) {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, fmt.Errorf("getting conversation: %w", err)
	}
	return conv, nil
}

func (s *conversationService) List(ctx context.Context, userID int64) ([]model.Conversation, error) {
	return s.conversations.ListByUser(ctx, userID)
}

func (s *conversationService) Participants(ctx context.Context, userID, conversationID int64) ([]model.Participant, error) {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.conversations.ListParticipants(ctx, conversationID)
}

func (s *conversationService) SendMessage(ctx context.Context, senderID, conversationID int64, content string) (*model.Message, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:      "loopline.service.conversation",
		UserID:         &senderID,
		ConversationID: &conversationID,
	})

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if err := s.requireParticipant(ctx, conversationID, senderID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:             id.New(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}
	if err := s.conversations.Touch(ctx, conversationID); err != nil {
		slog.WarnContext(ctx, "failed to touch conversation", "error", err)
	}

	if err := s.publisher.Publish(ctx, realtime.MessagesInsert(conversationID), msg); err != nil {
		slog.WarnContext(ctx, "failed to publish message event", "error", err)
	}
	s.notifyRecipients(ctx, msg)

	slog.InfoContext(ctx, "message sent", "message_id", msg.ID)
	return msg, nil
}

func (s *conversationService) ListMessages(ctx context.Context, userID, conversationID int64, before time.Time, limit int32) ([]model.Message, error) {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = defaultMessageLimit
	}
	if before.IsZero() {
		before = time.Now()
	}

	// Fetching the conversation is the recipient's first sight of its
	// messages, so stamp delivery for everything others sent. Best-effort:
	// a failed stamp never blocks the read.
	if err := s.messages.MarkDelivered(ctx, conversationID, userID); err != nil {
		slog.WarnContext(ctx, "failed to mark messages delivered",
			"error", err, "conversation_id", conversationID)
	}

	return s.messages.ListByConversation(ctx, conversationID, before, limit)
}

func (s *conversationService) MarkRead(ctx context.Context, userID, conversationID int64) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component:      "loopline.service.conversation",
		UserID:         &userID,
		ConversationID: &conversationID,
	})

	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return err
	}

	now := time.Now()
	if err := s.messages.MarkRead(ctx, conversationID, userID, now); err != nil {
		return fmt.Errorf("marking messages read: %w", err)
	}
	if err := s.conversations.UpdateLastRead(ctx, conversationID, userID, now); err != nil {
		return fmt.Errorf("updating last read: %w", err)
	}

	if err := s.publisher.Publish(ctx, realtime.MessagesUpdate(conversationID), map[string]any{
		"conversation_id": conversationID,
		"reader_id":       userID,
		"read_at":         now,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish read event", "error", err)
	}
	return nil
}

func (s *conversationService) CountUnread(ctx context.Context, userID, conversationID int64) (int64, error) {
	if err := s.requireParticipant(ctx, conversationID, userID); err != nil {
		return 0, err
	}
	return s.messages.CountUnread(ctx, conversationID, userID)
}

func (s *conversationService) requireParticipant(ctx context.Context, conversationID, userID int64) error {
	ok, err := s.conversations.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return fmt.Errorf("checking participant: %w", err)
	}
	if !ok {
		return ErrNotConvParticipant
	}
	return nil
}

func (s *conversationService) notifyRecipients(ctx context.Context, msg *model.Message) {
	participants, err := s.conversations.ListParticipants(ctx, msg.ConversationID)
	if err != nil {
		slog.WarnContext(ctx, "failed to list participants for notification", "error", err)
		return
	}
	for _, p := range participants {
		if p.UserID == msg.SenderID {
			continue
		}
		recipientID := p.UserID
		if err := s.producer.Enqueue(ctx, queue.Task{
			TaskType:   queue.TaskTypeNotify,
			UserID:     &recipientID,
			ActorID:    &msg.SenderID,
			Kind:       model.NotifyNewMessage,
			EntityType: "message",
			EntityID:   &msg.ID,
		}); err != nil {
			slog.WarnContext(ctx, "failed to enqueue message notification", "error", err)
		}
	}
}

func dedupeParticipants(creatorID int64, participantIDs []int64) []int64 {
	seen := map[int64]bool{creatorID: true}
	members := []int64{creatorID}
	for _, userID := range participantIDs {
		if userID == 0 || seen[userID] {
			continue
		}
		seen[userID] = true
		members = append(members, userID)
	}
	return members
}
