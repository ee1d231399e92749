package worker_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"loopline.app/server/common/id"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/search"
	"loopline.app/server/internal/store"
	"loopline.app/server/internal/worker"
)

var _ = Describe("Processor", func() {
	var (
		proc      worker.Processor
		stores    *mockStores
		searcher  *mockSearchClient
		publisher *mockPublisher
		ctx       context.Context
	)

	int64p := func(v int64) *int64 { return &v }

	BeforeEach(func() {
		ctx = context.Background()
		stores = newMockStores()
		searcher = &mockSearchClient{}
		publisher = &mockPublisher{}

		Expect(id.Init(1)).To(Succeed())
		proc = worker.NewProcessor(stores, searcher, publisher)
	})

	Describe("notify tasks", func() {
		It("creates a notification row and publishes it", func() {
			task := queue.Task{
				TaskType:   queue.TaskTypeNotify,
				UserID:     int64p(42),
				ActorID:    int64p(7),
				Kind:       model.NotifyPostComment,
				EntityType: "post",
				EntityID:   int64p(900),
			}

			Expect(proc.Process(ctx, task)).To(Succeed())

			Expect(stores.notifications.created).To(HaveLen(1))
			n := stores.notifications.created[0]
			Expect(n.UserID).To(Equal(int64(42)))
			Expect(n.ActorID).To(Equal(int64(7)))
			Expect(n.Kind).To(Equal(model.NotifyPostComment))
			Expect(n.EntityID).To(Equal(int64(900)))

			Expect(publisher.events).To(HaveLen(1))
			Expect(publisher.events[0].channel).To(Equal("notifications:insert:user_id=42"))
		})

		It("still succeeds when publish fails", func() {
			publisher.publishFn = func(_ context.Context, _ string, _ any) error {
				return errors.New("redis down")
			}

			task := queue.Task{
				TaskType: queue.TaskTypeNotify,
				UserID:   int64p(42),
				ActorID:  int64p(7),
				Kind:     model.NotifyNewFollower,
			}
			Expect(proc.Process(ctx, task)).To(Succeed())
			Expect(stores.notifications.created).To(HaveLen(1))
		})

		It("fails fast on tasks missing user or actor", func() {
			for _, task := range []queue.Task{
				{TaskType: queue.TaskTypeNotify, ActorID: int64p(7), Kind: model.NotifyNewMessage},
				{TaskType: queue.TaskTypeNotify, UserID: int64p(42), Kind: model.NotifyNewMessage},
			} {
				err := proc.Process(ctx, task)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("missing user_id or actor_id"))
			}
			Expect(stores.notifications.created).To(BeEmpty())
		})

		It("propagates store failures", func() {
			stores.notifications.createFn = func(_ context.Context, _ *model.Notification) error {
				return errors.New("database connection failed")
			}

			task := queue.Task{
				TaskType: queue.TaskTypeNotify,
				UserID:   int64p(42),
				ActorID:  int64p(7),
				Kind:     model.NotifyNewMessage,
			}
			err := proc.Process(ctx, task)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database connection failed"))
		})
	})

	Describe("index tasks", func() {
		It("upserts a post document", func() {
			stores.posts.getByIDFn = func(_ context.Context, postID int64) (*model.Post, error) {
				return &model.Post{
					ID:        postID,
					AuthorID:  7,
					Content:   "hello world",
					CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
				}, nil
			}

			task := queue.Task{
				TaskType:   queue.TaskTypeIndex,
				Collection: search.CollectionPosts,
				IndexOp:    queue.IndexOpUpsert,
				DocID:      "900",
			}
			Expect(proc.Process(ctx, task)).To(Succeed())

			Expect(searcher.ops).To(HaveLen(1))
			Expect(searcher.ops[0].op).To(Equal("upsert"))
			Expect(searcher.ops[0].collection).To(Equal(search.CollectionPosts))
			Expect(searcher.ops[0].doc["body"]).To(Equal("hello world"))
			Expect(searcher.ops[0].doc["id"]).To(Equal("900"))
		})

		It("includes optional profile fields only when set", func() {
			headline := "Gopher"
			stores.users.getByIDFn = func(_ context.Context, userID int64) (*model.User, error) {
				return &model.User{ID: userID, Name: "Lena", Headline: &headline}, nil
			}

			task := queue.Task{
				TaskType:   queue.TaskTypeIndex,
				Collection: search.CollectionPeople,
				IndexOp:    queue.IndexOpUpsert,
				DocID:      "42",
			}
			Expect(proc.Process(ctx, task)).To(Succeed())

			doc := searcher.ops[0].doc
			Expect(doc["name"]).To(Equal("Lena"))
			Expect(doc["headline"]).To(Equal("Gopher"))
			Expect(doc).NotTo(HaveKey("location"))
		})

		It("translates delete ops directly", func() {
			task := queue.Task{
				TaskType:   queue.TaskTypeIndex,
				Collection: search.CollectionListings,
				IndexOp:    queue.IndexOpDelete,
				DocID:      "5",
			}
			Expect(proc.Process(ctx, task)).To(Succeed())

			Expect(searcher.ops).To(HaveLen(1))
			Expect(searcher.ops[0].op).To(Equal("delete"))
			Expect(searcher.ops[0].docID).To(Equal("5"))
		})

		It("deletes the stale document when the entity is gone", func() {
			stores.posts.getByIDFn = func(_ context.Context, _ int64) (*model.Post, error) {
				return nil, store.ErrNotFound
			}

			task := queue.Task{
				TaskType:   queue.TaskTypeIndex,
				Collection: search.CollectionPosts,
				IndexOp:    queue.IndexOpUpsert,
				DocID:      "900",
			}
			Expect(proc.Process(ctx, task)).To(Succeed())

			Expect(searcher.ops).To(HaveLen(1))
			Expect(searcher.ops[0].op).To(Equal("delete"))
		})

		It("rejects unknown collections", func() {
			task := queue.Task{
				TaskType:   queue.TaskTypeIndex,
				Collection: "moderation_queue",
				IndexOp:    queue.IndexOpUpsert,
				DocID:      "1",
			}
			Expect(proc.Process(ctx, task)).To(HaveOccurred())
		})
	})

	It("rejects unknown task types", func() {
		Expect(proc.Process(ctx, queue.Task{TaskType: "teleport"})).To(HaveOccurred())
	})
})
