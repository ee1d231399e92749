package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"loopline.app/server/common/id"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/service"
)

var _ = Describe("ConversationService", func() {
	var (
		svc           service.ConversationService
		conversations *mockConversationStore
		messages      *mockMessageStore
		users         *mockUserStore
		publisher     *mockPublisher
		producer      *mockProducer
		ctx           context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())

		conversations = &mockConversationStore{}
		messages = &mockMessageStore{}
		users = &mockUserStore{}
		publisher = &mockPublisher{}
		producer = &mockProducer{}

		txRunner := &mockTxRunner{provider: &mockStoreProvider{
			users:         users,
			conversations: conversations,
			messages:      messages,
		}}
		svc = service.NewConversationService(conversations, messages, users, txRunner, publisher, producer)
	})

	Describe("Create", func() {
		It("creates the conversation with deduplicated participants", func() {
			conv, err := svc.Create(ctx, 1, []int64{2, 2, 1, 3})
			Expect(err).NotTo(HaveOccurred())
			Expect(conv.ID).NotTo(BeZero())

			Expect(conversations.created).To(HaveLen(1))
			Expect(conversations.participants).To(HaveLen(3))

			var ids []int64
			for _, p := range conversations.participants {
				Expect(p.ConversationID).To(Equal(conv.ID))
				ids = append(ids, p.UserID)
			}
			Expect(ids).To(ConsistOf(int64(1), int64(2), int64(3)))
		})

		It("refuses a conversation with only the creator", func() {
			_, err := svc.Create(ctx, 1, []int64{1})
			Expect(err).To(MatchError(service.ErrNoParticipants))
		})
	})

	Describe("SendMessage", func() {
		It("persists, touches the conversation, publishes, and notifies recipients", func() {
			conversations.listPartsFn = func(_ context.Context, _ int64) ([]model.Participant, error) {
				return []model.Participant{
					{ConversationID: 123, UserID: 1},
					{ConversationID: 123, UserID: 2},
				}, nil
			}

			msg, err := svc.SendMessage(ctx, 1, 123, "hey")
			Expect(err).NotTo(HaveOccurred())
			Expect(msg.SenderID).To(Equal(int64(1)))

			Expect(messages.created).To(HaveLen(1))
			Expect(conversations.touched).To(ConsistOf(int64(123)))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].channel).To(Equal("messages:insert:conversation_id=123"))

			Expect(producer.tasks).To(HaveLen(1))
			Expect(producer.tasks[0].Kind).To(Equal(model.NotifyNewMessage))
			Expect(*producer.tasks[0].UserID).To(Equal(int64(2)))
		})

		It("rejects senders who are not participants", func() {
			conversations.isParticipantFn = func(_ context.Context, _, _ int64) (bool, error) {
				return false, nil
			}

			_, err := svc.SendMessage(ctx, 9, 123, "hey")
			Expect(err).To(MatchError(service.ErrNotConvParticipant))
			Expect(messages.created).To(BeEmpty())
		})
	})

	Describe("MarkRead", func() {
		It("stamps unread messages and advances last_read_at with the same timestamp", func() {
			Expect(svc.MarkRead(ctx, 2, 123)).To(Succeed())

			Expect(messages.markReads).To(HaveLen(1))
			Expect(conversations.lastReads).To(HaveLen(1))
			Expect(messages.markReads[0].readAt).To(Equal(conversations.lastReads[0].readAt))
			Expect(conversations.lastReads[0].userID).To(Equal(int64(2)))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].channel).To(Equal("messages:update:conversation_id=123"))
		})

		It("requires the reader to be a participant", func() {
			conversations.isParticipantFn = func(_ context.Context, _, _ int64) (bool, error) {
				return false, nil
			}
			Expect(svc.MarkRead(ctx, 9, 123)).To(MatchError(service.ErrNotConvParticipant))
			Expect(messages.markReads).To(BeEmpty())
		})
	})

	Describe("ListMessages", func() {
		It("guards with participant checks", func() {
			conversations.isParticipantFn = func(_ context.Context, _, _ int64) (bool, error) {
				return false, nil
			}
			_, err := svc.ListMessages(ctx, 9, 123, time.Now(), 50)
			Expect(err).To(MatchError(service.ErrNotConvParticipant))

			Expect(messages.delivered).To(BeEmpty())
		})

		It("stamps delivery for the reader before returning the page", func() {
			_, err := svc.ListMessages(ctx, 9, 123, time.Now(), 50)
			Expect(err).NotTo(HaveOccurred())

			Expect(messages.delivered).To(ConsistOf([2]int64{123, 9}))
		})

		It("still returns messages when the delivery stamp fails", func() {
			messages.markDeliveredFn = func(_ context.Context, _, _ int64) error {
				return context.DeadlineExceeded
			}

			_, err := svc.ListMessages(ctx, 9, 123, time.Now(), 50)
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
