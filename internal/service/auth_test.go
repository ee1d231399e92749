package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"loopline.app/server/core/config"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/service"
)

var _ = Describe("AuthService", func() {
	var (
		svc      service.AuthService
		users    *mockUserStore
		sessions *mockSessionStore
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserStore{}
		sessions = &mockSessionStore{}
		svc = service.NewAuthService(users, sessions, config.WorkOSConfig{})
	})

	Describe("ValidateSession", func() {
		BeforeEach(func() {
			Expect(sessions.Create(ctx, &model.Session{
				ID:        42,
				UserID:    7,
				Token:     "4ac0ffee",
				ExpiresAt: time.Now().Add(time.Hour),
			})).To(Succeed())
		})

		It("resolves a stored token to its user and session row", func() {
			user, session, err := svc.ValidateSession(ctx, "4ac0ffee")

			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal(int64(7)))
			Expect(session.ID).To(Equal(int64(42)))
		})

		It("rejects unknown and empty tokens", func() {
			_, _, err := svc.ValidateSession(ctx, "not-a-token")
			Expect(err).To(MatchError(service.ErrSessionExpired))

			_, _, err = svc.ValidateSession(ctx, "")
			Expect(err).To(MatchError(service.ErrSessionExpired))
		})

		It("never accepts the numeric row key as a credential", func() {
			_, _, err := svc.ValidateSession(ctx, "42")
			Expect(err).To(MatchError(service.ErrSessionExpired))
		})

		It("rejects expired sessions", func() {
			Expect(sessions.Create(ctx, &model.Session{
				ID:        43,
				UserID:    7,
				Token:     "o1d70ken",
				ExpiresAt: time.Now().Add(-time.Minute),
			})).To(Succeed())

			_, _, err := svc.ValidateSession(ctx, "o1d70ken")
			Expect(err).To(MatchError(service.ErrSessionExpired))
		})
	})
})
