package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"loopline.app/server/common/id"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/service"
)

var _ = Describe("GroupService", func() {
	var (
		svc    service.GroupService
		groups *mockGroupStore
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())

		groups = &mockGroupStore{}
		svc = service.NewGroupService(groups)
	})

	Describe("Create", func() {
		It("slugifies the name and adds the owner as a member", func() {
			group, err := svc.Create(ctx, 7, "Go Developers NYC", "a group")
			Expect(err).NotTo(HaveOccurred())
			Expect(group.Slug).To(Equal("go-developers-nyc"))
			Expect(group.OwnerID).To(Equal(int64(7)))

			Expect(groups.addedMembers).To(HaveLen(1))
			Expect(groups.addedMembers[0].Role).To(Equal(model.GroupRoleOwner))
		})

		It("suffixes the slug when it already exists", func() {
			groups.getBySlugFn = func(_ context.Context, slug string) (*model.Group, error) {
				return &model.Group{ID: 1, Slug: slug}, nil
			}

			group, err := svc.Create(ctx, 7, "Go Developers NYC", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(group.Slug).To(HavePrefix("go-developers-nyc-"))
		})
	})

	Describe("Join and Leave", func() {
		BeforeEach(func() {
			groups.getByIDFn = func(_ context.Context, groupID int64) (*model.Group, error) {
				return &model.Group{ID: groupID, OwnerID: 7}, nil
			}
		})

		It("adds a member once", func() {
			Expect(svc.Join(ctx, 2, 500)).To(Succeed())
			Expect(groups.addedMembers).To(HaveLen(1))
			Expect(groups.addedMembers[0].Role).To(Equal(model.GroupRoleMember))

			groups.isMemberFn = func(_ context.Context, _, _ int64) (bool, error) {
				return true, nil
			}
			Expect(svc.Join(ctx, 2, 500)).To(Succeed())
			Expect(groups.addedMembers).To(HaveLen(1))
		})

		It("lets members leave", func() {
			Expect(svc.Leave(ctx, 2, 500)).To(Succeed())
			Expect(groups.removedMembers).To(ConsistOf([2]int64{500, 2}))
		})

		It("stops the owner from leaving", func() {
			Expect(svc.Leave(ctx, 7, 500)).To(MatchError(service.ErrOwnerLeaving))
		})
	})

	Describe("Update", func() {
		It("only accepts the owner", func() {
			groups.getByIDFn = func(_ context.Context, groupID int64) (*model.Group, error) {
				return &model.Group{ID: groupID, OwnerID: 7}, nil
			}

			name := "Renamed"
			_, err := svc.Update(ctx, 2, 500, service.UpdateGroupParams{Name: &name})
			Expect(err).To(MatchError(service.ErrNotGroupOwner))
		})
	})
})
