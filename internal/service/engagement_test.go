package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"loopline.app/server/common/id"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/service"
)

var _ = Describe("EngagementService", func() {
	var (
		svc       service.EngagementService
		comments  *mockCommentStore
		reactions *mockReactionStore
		posts     *mockPostStore
		producer  *mockProducer
		ctx       context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())

		comments = &mockCommentStore{}
		reactions = &mockReactionStore{}
		posts = &mockPostStore{
			getByIDFn: func(_ context.Context, postID int64) (*model.Post, error) {
				return &model.Post{ID: postID, AuthorID: 7}, nil
			},
		}
		producer = &mockProducer{}
		svc = service.NewEngagementService(comments, reactions, posts, producer)
	})

	Describe("AddComment", func() {
		It("creates the comment and notifies the post author", func() {
			comment, err := svc.AddComment(ctx, 2, 900, "nice one")
			Expect(err).NotTo(HaveOccurred())
			Expect(comment.PostID).To(Equal(int64(900)))

			Expect(comments.created).To(HaveLen(1))
			Expect(producer.tasks).To(HaveLen(1))
			Expect(producer.tasks[0].Kind).To(Equal(model.NotifyPostComment))
			Expect(*producer.tasks[0].UserID).To(Equal(int64(7)))
			Expect(*producer.tasks[0].ActorID).To(Equal(int64(2)))
		})

		It("skips the notification when commenting on your own post", func() {
			_, err := svc.AddComment(ctx, 7, 900, "replying to myself")
			Expect(err).NotTo(HaveOccurred())
			Expect(producer.tasks).To(BeEmpty())
		})

		It("rejects blank comments", func() {
			_, err := svc.AddComment(ctx, 2, 900, "  ")
			Expect(err).To(MatchError(service.ErrEmptyContent))
		})
	})

	Describe("React", func() {
		It("upserts the reaction and notifies the author", func() {
			reaction, err := svc.React(ctx, 2, 900, model.ReactionLove)
			Expect(err).NotTo(HaveOccurred())
			Expect(reaction.Kind).To(Equal(model.ReactionLove))

			Expect(reactions.upserted).To(HaveLen(1))
			Expect(producer.tasks).To(HaveLen(1))
			Expect(producer.tasks[0].Kind).To(Equal(model.NotifyPostReaction))
		})

		It("rejects unknown reaction kinds", func() {
			_, err := svc.React(ctx, 2, 900, "sparkle")
			Expect(err).To(MatchError(service.ErrBadReactionKind))
			Expect(reactions.upserted).To(BeEmpty())
		})

		It("does not notify on self-reactions", func() {
			_, err := svc.React(ctx, 7, 900, model.ReactionLike)
			Expect(err).NotTo(HaveOccurred())
			Expect(producer.tasks).To(BeEmpty())
		})
	})

	Describe("DeleteComment", func() {
		BeforeEach(func() {
			comments.getByIDFn = func(_ context.Context, commentID int64) (*model.Comment, error) {
				return &model.Comment{ID: commentID, PostID: 900, AuthorID: 2}, nil
			}
		})

		It("lets the author delete", func() {
			Expect(svc.DeleteComment(ctx, 2, 55, false)).To(Succeed())
			Expect(comments.deleted).To(ConsistOf(int64(55)))
		})

		It("refuses other users unless they are admins", func() {
			Expect(svc.DeleteComment(ctx, 9, 55, false)).To(MatchError(service.ErrNotAuthor))
			Expect(svc.DeleteComment(ctx, 9, 55, true)).To(Succeed())
		})
	})
})
