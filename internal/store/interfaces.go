package store

import (
	"context"
	"errors"
	"time"

	"loopline.app/server/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpsertByWorkOSID(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
	ListByIDs(ctx context.Context, ids []int64) ([]model.User, error)
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	GetValidByToken(ctx context.Context, token string) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) error
}

// PostStore defines the contract for feed post data access
type PostStore interface {
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int64) error
	ListByAuthor(ctx context.Context, authorID int64, limit int32) ([]model.Post, error)
	// ListByAuthors powers the feed: newest-first posts from the followed set.
	ListByAuthors(ctx context.Context, authorIDs []int64, before time.Time, limit int32) ([]model.Post, error)
	ListByGroup(ctx context.Context, groupID int64, limit int32) ([]model.Post, error)
	ListByPage(ctx context.Context, pageID int64, limit int32) ([]model.Post, error)
}

type CommentStore interface {
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	Create(ctx context.Context, comment *model.Comment) error
	Delete(ctx context.Context, id int64) error
	ListByPost(ctx context.Context, postID int64) ([]model.Comment, error)
}

type ReactionStore interface {
	// Upsert keeps at most one reaction per (post, user); a repeat changes the kind.
	Upsert(ctx context.Context, reaction *model.Reaction) error
	Delete(ctx context.Context, postID, userID int64) error
	ListByPost(ctx context.Context, postID int64) ([]model.Reaction, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
}

// ConversationStore covers conversations and their participant rows.
type ConversationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Conversation, error)
	Create(ctx context.Context, conv *model.Conversation) error
	Touch(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.Conversation, error)
	AddParticipant(ctx context.Context, p *model.Participant) error
	ListParticipants(ctx context.Context, conversationID int64) ([]model.Participant, error)
	IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error)
	// UpdateLastRead only moves last_read_at forward.
	UpdateLastRead(ctx context.Context, conversationID, userID int64, readAt time.Time) error
}

type MessageStore interface {
	GetByID(ctx context.Context, id int64) (*model.Message, error)
	Create(ctx context.Context, msg *model.Message) error
	ListByConversation(ctx context.Context, conversationID int64, before time.Time, limit int32) ([]model.Message, error)
	MarkDelivered(ctx context.Context, conversationID, recipientID int64) error
	// MarkRead sets read_at on unread messages from other senders. Already-set
	// read_at values are never touched (monotonic).
	MarkRead(ctx context.Context, conversationID, readerID int64, readAt time.Time) error
	CountUnread(ctx context.Context, conversationID, userID int64) (int64, error)
}

// CallSignalStore is append-only; signals are never updated or deleted.
type CallSignalStore interface {
	Create(ctx context.Context, sig *model.CallSignal) error
	ListByCallee(ctx context.Context, calleeID int64, since time.Time, limit int32) ([]model.CallSignal, error)
}

type GroupStore interface {
	GetByID(ctx context.Context, id int64) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	Create(ctx context.Context, group *model.Group) error
	Update(ctx context.Context, group *model.Group) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit int32) ([]model.Group, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Group, error)
	AddMember(ctx context.Context, member *model.GroupMember) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
	ListMembers(ctx context.Context, groupID int64) ([]model.GroupMember, error)
	IsMember(ctx context.Context, groupID, userID int64) (bool, error)
}

type PageStore interface {
	GetByID(ctx context.Context, id int64) (*model.Page, error)
	GetBySlug(ctx context.Context, slug string) (*model.Page, error)
	Create(ctx context.Context, page *model.Page) error
	Update(ctx context.Context, page *model.Page) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit int32) ([]model.Page, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Page, error)
}

type CompanyStore interface {
	GetByID(ctx context.Context, id int64) (*model.Company, error)
	GetBySlug(ctx context.Context, slug string) (*model.Company, error)
	Create(ctx context.Context, company *model.Company) error
	Update(ctx context.Context, company *model.Company) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit int32) ([]model.Company, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Company, error)
}

// JobStore covers job posts and applications.
type JobStore interface {
	GetByID(ctx context.Context, id int64) (*model.JobPost, error)
	Create(ctx context.Context, job *model.JobPost) error
	Update(ctx context.Context, job *model.JobPost) error
	Close(ctx context.Context, id int64, closedAt time.Time) error
	ListOpen(ctx context.Context, limit int32) ([]model.JobPost, error)
	ListByCompany(ctx context.Context, companyID int64) ([]model.JobPost, error)
	CreateApplication(ctx context.Context, app *model.JobApplication) error
	GetApplication(ctx context.Context, id int64) (*model.JobApplication, error)
	ListApplicationsByJob(ctx context.Context, jobPostID int64) ([]model.JobApplication, error)
	ListApplicationsByUser(ctx context.Context, applicantID int64) ([]model.JobApplication, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status string) error
}

type ResumeStore interface {
	GetByID(ctx context.Context, id int64) (*model.Resume, error)
	Create(ctx context.Context, resume *model.Resume) error
	Update(ctx context.Context, resume *model.Resume) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID int64) ([]model.Resume, error)
}

type ListingStore interface {
	GetByID(ctx context.Context, id int64) (*model.Listing, error)
	Create(ctx context.Context, listing *model.Listing) error
	Update(ctx context.Context, listing *model.Listing) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, category string, limit int32) ([]model.Listing, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]model.Listing, error)
}

type ReelStore interface {
	GetByID(ctx context.Context, id int64) (*model.Reel, error)
	Create(ctx context.Context, reel *model.Reel) error
	Delete(ctx context.Context, id int64) error
	ListRecent(ctx context.Context, limit int32) ([]model.Reel, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]model.Reel, error)
}

type EventStore interface {
	GetByID(ctx context.Context, id int64) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) error
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id int64) error
	ListUpcoming(ctx context.Context, after time.Time, limit int32) ([]model.Event, error)
	SetRSVP(ctx context.Context, rsvp *model.EventRSVP) error
	ListRSVPs(ctx context.Context, eventID int64) ([]model.EventRSVP, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int32) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID int64, readAt time.Time) error
	MarkAllRead(ctx context.Context, userID int64, readAt time.Time) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type ReportStore interface {
	GetByID(ctx context.Context, id int64) (*model.Report, error)
	Create(ctx context.Context, report *model.Report) error
	ListByStatus(ctx context.Context, status string, limit int32) ([]model.Report, error)
	UpdateStatus(ctx context.Context, id int64, status string, resolvedAt *time.Time) error
}

// StatsStore backs the admin console aggregates.
type StatsStore interface {
	Totals(ctx context.Context) (*model.Totals, error)
}
