package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"loopline.app/server/common/id"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/service"
	"loopline.app/server/internal/store"
)

var _ = Describe("PostService", func() {
	var (
		svc       service.PostService
		posts     *mockPostStore
		groups    *mockGroupStore
		socialG   *mockGraph
		publisher *mockPublisher
		producer  *mockProducer
		ctx       context.Context
	)

	int64p := func(v int64) *int64 { return &v }

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())

		posts = &mockPostStore{}
		groups = &mockGroupStore{}
		socialG = &mockGraph{}
		publisher = &mockPublisher{}
		producer = &mockProducer{}
		svc = service.NewPostService(posts, groups, socialG, publisher, producer, &mockSearchClient{})
	})

	Describe("Create", func() {
		It("persists the post, publishes it, and enqueues indexing", func() {
			post, err := svc.Create(ctx, 7, service.CreatePostParams{Content: "hello"})
			Expect(err).NotTo(HaveOccurred())
			Expect(post.ID).NotTo(BeZero())

			Expect(posts.created).To(HaveLen(1))
			Expect(posts.created[0].AuthorID).To(Equal(int64(7)))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].channel).To(Equal("posts:insert:author_id=7"))

			Expect(producer.tasks).To(HaveLen(1))
			Expect(producer.tasks[0].TaskType).To(Equal(queue.TaskTypeIndex))
			Expect(producer.tasks[0].IndexOp).To(Equal(queue.IndexOpUpsert))
		})

		It("rejects empty posts without media", func() {
			_, err := svc.Create(ctx, 7, service.CreatePostParams{Content: "   "})
			Expect(err).To(MatchError(service.ErrEmptyContent))
			Expect(posts.created).To(BeEmpty())
		})

		It("refuses group posts from non-members", func() {
			groups.isMemberFn = func(_ context.Context, _, _ int64) (bool, error) {
				return false, nil
			}

			_, err := svc.Create(ctx, 7, service.CreatePostParams{
				Content: "hi folks",
				GroupID: int64p(500),
			})
			Expect(err).To(MatchError(service.ErrNotGroupMember))
		})

		It("notifies other group members on a group post", func() {
			groups.isMemberFn = func(_ context.Context, _, _ int64) (bool, error) {
				return true, nil
			}
			groups.listMembersFn = func(_ context.Context, _ int64) ([]model.GroupMember, error) {
				return []model.GroupMember{
					{GroupID: 500, UserID: 7},
					{GroupID: 500, UserID: 8},
					{GroupID: 500, UserID: 9},
				}, nil
			}

			_, err := svc.Create(ctx, 7, service.CreatePostParams{
				Content: "hi folks",
				GroupID: int64p(500),
			})
			Expect(err).NotTo(HaveOccurred())

			var notified []int64
			for _, task := range producer.tasks {
				if task.TaskType == queue.TaskTypeNotify {
					Expect(task.Kind).To(Equal(model.NotifyGroupPost))
					notified = append(notified, *task.UserID)
				}
			}
			Expect(notified).To(ConsistOf(int64(8), int64(9)))
		})
	})

	Describe("Feed", func() {
		It("asks for posts from followed users plus the viewer", func() {
			socialG.followingFn = func(_ context.Context, _ int64) ([]int64, error) {
				return []int64{11, 12}, nil
			}

			var gotAuthors []int64
			posts.listByAuthorsFn = func(_ context.Context, authorIDs []int64, _ time.Time, _ int32) ([]model.Post, error) {
				gotAuthors = authorIDs
				return []model.Post{{ID: 1}}, nil
			}

			feed, err := svc.Feed(ctx, 7, time.Time{}, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(feed).To(HaveLen(1))
			Expect(gotAuthors).To(ConsistOf(int64(11), int64(12), int64(7)))
		})

		It("merges group posts with followed posts, newest first and deduplicated", func() {
			base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

			socialG.followingFn = func(_ context.Context, _ int64) ([]int64, error) {
				return []int64{11}, nil
			}
			posts.listByAuthorsFn = func(_ context.Context, _ []int64, _ time.Time, _ int32) ([]model.Post, error) {
				return []model.Post{
					{ID: 1, AuthorID: 11, CreatedAt: base.Add(-2 * time.Minute)},
					{ID: 3, AuthorID: 11, CreatedAt: base.Add(-3 * time.Minute)},
				}, nil
			}
			groups.listByUserFn = func(_ context.Context, _ int64) ([]model.Group, error) {
				return []model.Group{{ID: 300}}, nil
			}
			posts.listByGroupFn = func(_ context.Context, groupID int64, _ int32) ([]model.Post, error) {
				Expect(groupID).To(Equal(int64(300)))
				return []model.Post{
					// Same post as the authored page; must not duplicate.
					{ID: 3, AuthorID: 11, CreatedAt: base.Add(-3 * time.Minute)},
					{ID: 2, AuthorID: 50, CreatedAt: base.Add(-1 * time.Minute)},
				}, nil
			}

			feed, err := svc.Feed(ctx, 7, base, 10)
			Expect(err).NotTo(HaveOccurred())

			var ids []int64
			for _, p := range feed {
				ids = append(ids, p.ID)
			}
			Expect(ids).To(Equal([]int64{2, 1, 3}))
		})

		It("drops group posts at or past the cursor", func() {
			base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

			groups.listByUserFn = func(_ context.Context, _ int64) ([]model.Group, error) {
				return []model.Group{{ID: 300}}, nil
			}
			posts.listByGroupFn = func(_ context.Context, _ int64, _ int32) ([]model.Post, error) {
				return []model.Post{
					{ID: 4, AuthorID: 50, CreatedAt: base.Add(time.Minute)},
					{ID: 5, AuthorID: 50, CreatedAt: base.Add(-time.Minute)},
				}, nil
			}

			feed, err := svc.Feed(ctx, 7, base, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(feed).To(HaveLen(1))
			Expect(feed[0].ID).To(Equal(int64(5)))
		})
	})

	Describe("Update and Delete", func() {
		BeforeEach(func() {
			posts.getByIDFn = func(_ context.Context, postID int64) (*model.Post, error) {
				return &model.Post{ID: postID, AuthorID: 7, Content: "old"}, nil
			}
		})

		It("only lets the author update", func() {
			_, err := svc.Update(ctx, 99, 1, "new content")
			Expect(err).To(MatchError(service.ErrNotAuthor))
		})

		It("lets an admin delete someone else's post and drops the index doc", func() {
			Expect(svc.Delete(ctx, 99, 1, true)).To(Succeed())
			Expect(posts.deleted).To(ConsistOf(int64(1)))

			Expect(producer.tasks).To(HaveLen(1))
			Expect(producer.tasks[0].IndexOp).To(Equal(queue.IndexOpDelete))
		})

		It("maps missing posts to ErrPostNotFound", func() {
			posts.getByIDFn = func(_ context.Context, _ int64) (*model.Post, error) {
				return nil, store.ErrNotFound
			}
			_, err := svc.Get(ctx, 1)
			Expect(err).To(MatchError(service.ErrPostNotFound))
		})
	})
})
