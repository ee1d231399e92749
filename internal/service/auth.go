package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/workos/workos-go/v6/pkg/usermanagement"

	"loopline.app/server/common/id"
	"loopline.app/server/core/config"
	"loopline.app/server/internal/model"
	"loopline.app/server/internal/store"
)

const (
	sessionTTL       = 7 * 24 * time.Hour
	sessionTokenSize = 32 // bytes of entropy per credential
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionExpired     = errors.New("session expired")
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, *model.Session, error)
	Login(ctx context.Context, email, password string) (*model.User, *model.Session, error)
	// ValidateSession resolves a bearer token to its user. The session is
	// returned alongside so callers can reference its row for revocation.
	ValidateSession(ctx context.Context, token string) (*model.User, *model.Session, error)
	Logout(ctx context.Context, sessionID int64) error
	LogoutAll(ctx context.Context, userID int64) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	userStore    store.UserStore
	sessionStore store.SessionStore
	cfg          config.WorkOSConfig
}

func NewAuthService(userStore store.UserStore, sessionStore store.SessionStore, cfg config.WorkOSConfig) AuthService {
	usermanagement.SetAPIKey(cfg.APIKey)
	return &authService{
		userStore:    userStore,
		sessionStore: sessionStore,
		cfg:          cfg,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, *model.Session, error) {
	workosUser, err := usermanagement.CreateUser(ctx, usermanagement.CreateUserOpts{
		Email:     email,
		Password:  password,
		FirstName: name,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to create identity", "error", err, "email", email)
		return nil, nil, ErrEmailTaken
	}

	user := &model.User{
		ID:       id.New(),
		Name:     name,
		Email:    email,
		WorkOSID: &workosUser.ID,
	}
	if err := s.userStore.UpsertByWorkOSID(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("upserting user: %w", err)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	slog.InfoContext(ctx, "user registered",
		"user_id", user.ID,
		"email", user.Email)
	return user, session, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	resp, err := usermanagement.AuthenticateWithPassword(ctx, usermanagement.AuthenticateWithPasswordOpts{
		ClientID: s.cfg.ClientID,
		Email:    email,
		Password: password,
	})
	if err != nil {
		slog.WarnContext(ctx, "password authentication failed", "email", email)
		return nil, nil, ErrInvalidCredentials
	}

	workosUser := resp.User

	var avatarURL *string
	if workosUser.ProfilePictureURL != "" {
		avatarURL = &workosUser.ProfilePictureURL
	}

	user := &model.User{
		ID:        id.New(),
		Name:      buildUserName(workosUser),
		Email:     workosUser.Email,
		AvatarURL: avatarURL,
		WorkOSID:  &workosUser.ID,
	}
	if err := s.userStore.UpsertByWorkOSID(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("upserting user: %w", err)
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	slog.InfoContext(ctx, "user authenticated",
		"user_id", user.ID,
		"email", user.Email,
		"session_id", session.ID)
	return user, session, nil
}

func (s *authService) createSession(ctx context.Context, userID int64) (*model.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}
	// The snowflake ID is only the row key; the random token is the
	// credential, so session identifiers never leak ordering or become
	// guessable.
	session := &model.Session{
		ID:        id.New(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.sessionStore.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (s *authService) ValidateSession(ctx context.Context, token string) (*model.User, *model.Session, error) {
	if token == "" {
		return nil, nil, ErrSessionExpired
	}

	session, err := s.sessionStore.GetValidByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrSessionExpired
		}
		return nil, nil, fmt.Errorf("getting session: %w", err)
	}

	user, err := s.userStore.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, fmt.Errorf("getting user: %w", err)
	}

	return user, session, nil
}

func (s *authService) Logout(ctx context.Context, sessionID int64) error {
	if err := s.sessionStore.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

func (s *authService) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.sessionStore.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("deleting sessions: %w", err)
	}
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	// Always succeed from the caller's perspective so the endpoint
	// doesn't leak which emails exist.
	_, err := usermanagement.CreatePasswordReset(ctx, usermanagement.CreatePasswordResetOpts{
		Email: email,
	})
	if err != nil {
		slog.WarnContext(ctx, "password reset request failed", "error", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	resp, err := usermanagement.ResetPassword(ctx, usermanagement.ResetPasswordOpts{
		Token:       token,
		NewPassword: newPassword,
	})
	if err != nil {
		return ErrInvalidCredentials
	}

	// Invalidate every session of the affected user.
	if resp.User.ID != "" {
		if user, err := s.userStore.GetByEmail(ctx, resp.User.Email); err == nil {
			if err := s.sessionStore.DeleteByUser(ctx, user.ID); err != nil {
				slog.WarnContext(ctx, "failed to revoke sessions after password reset", "error", err)
			}
		}
	}
	return nil
}

func buildUserName(user usermanagement.User) string {
	if user.FirstName != "" && user.LastName != "" {
		return user.FirstName + " " + user.LastName
	}
	if user.FirstName != "" {
		return user.FirstName
	}
	if user.LastName != "" {
		return user.LastName
	}
	return user.Email
}
