package service_test

import (
	"context"
	"time"

	"loopline.app/server/internal/model"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/search"
	"loopline.app/server/internal/service"
	"loopline.app/server/internal/store"
)

// Function-field mocks: unset fields fall back to a harmless default so
// each spec only wires what it asserts on.

type mockUserStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.User, error)
	updated   []model.User
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return &model.User{ID: id, Name: "Test User"}, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, store.ErrNotFound
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserStore) UpsertByWorkOSID(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserStore) Update(ctx context.Context, user *model.User) error {
	m.updated = append(m.updated, *user)
	return nil
}

func (m *mockUserStore) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockUserStore) ListByIDs(ctx context.Context, ids []int64) ([]model.User, error) {
	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, model.User{ID: id})
	}
	return users, nil
}

type mockSessionStore struct {
	sessions map[string]*model.Session
	deleted  []int64
}

func (m *mockSessionStore) GetValidByToken(ctx context.Context, token string) (*model.Session, error) {
	if sess, ok := m.sessions[token]; ok && sess.ExpiresAt.After(time.Now()) {
		return sess, nil
	}
	return nil, store.ErrNotFound
}

func (m *mockSessionStore) Create(ctx context.Context, session *model.Session) error {
	if m.sessions == nil {
		m.sessions = make(map[string]*model.Session)
	}
	m.sessions[session.Token] = session
	return nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSessionStore) DeleteByUser(ctx context.Context, userID int64) error { return nil }

func (m *mockSessionStore) DeleteExpired(ctx context.Context) error { return nil }

type mockPostStore struct {
	getByIDFn       func(ctx context.Context, id int64) (*model.Post, error)
	listByAuthorsFn func(ctx context.Context, authorIDs []int64, before time.Time, limit int32) ([]model.Post, error)
	listByGroupFn   func(ctx context.Context, groupID int64, limit int32) ([]model.Post, error)
	created         []model.Post
	updated         []model.Post
	deleted         []int64
}

func (m *mockPostStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockPostStore) Create(ctx context.Context, post *model.Post) error {
	m.created = append(m.created, *post)
	return nil
}

func (m *mockPostStore) Update(ctx context.Context, post *model.Post) error {
	m.updated = append(m.updated, *post)
	return nil
}

func (m *mockPostStore) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockPostStore) ListByAuthor(ctx context.Context, authorID int64, limit int32) ([]model.Post, error) {
	return nil, nil
}

func (m *mockPostStore) ListByAuthors(ctx context.Context, authorIDs []int64, before time.Time, limit int32) ([]model.Post, error) {
	if m.listByAuthorsFn != nil {
		return m.listByAuthorsFn(ctx, authorIDs, before, limit)
	}
	return nil, nil
}

func (m *mockPostStore) ListByGroup(ctx context.Context, groupID int64, limit int32) ([]model.Post, error) {
	if m.listByGroupFn != nil {
		return m.listByGroupFn(ctx, groupID, limit)
	}
	return nil, nil
}

func (m *mockPostStore) ListByPage(ctx context.Context, pageID int64, limit int32) ([]model.Post, error) {
	return nil, nil
}

type mockGroupStore struct {
	getByIDFn      func(ctx context.Context, id int64) (*model.Group, error)
	getBySlugFn    func(ctx context.Context, slug string) (*model.Group, error)
	listByUserFn   func(ctx context.Context, userID int64) ([]model.Group, error)
	isMemberFn     func(ctx context.Context, groupID, userID int64) (bool, error)
	listMembersFn  func(ctx context.Context, groupID int64) ([]model.GroupMember, error)
	created        []model.Group
	addedMembers   []model.GroupMember
	removedMembers []int64
}

func (m *mockGroupStore) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockGroupStore) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, store.ErrNotFound
}

func (m *mockGroupStore) Create(ctx context.Context, group *model.Group) error {
	m.created = append(m.created, *group)
	return nil
}

func (m *mockGroupStore) Update(ctx context.Context, group *model.Group) error { return nil }

func (m *mockGroupStore) Delete(ctx context.Context, id int64) error { return nil }

func (m *mockGroupStore) List(ctx context.Context, limit int32) ([]model.Group, error) {
	return nil, nil
}

func (m *mockGroupStore) ListByUser(ctx context.Context, userID int64) ([]model.Group, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGroupStore) AddMember(ctx context.Context, member *model.GroupMember) error {
	m.addedMembers = append(m.addedMembers, *member)
	return nil
}

func (m *mockGroupStore) RemoveMember(ctx context.Context, groupID, userID int64) error {
	m.removedMembers = append(m.removedMembers, groupID, userID)
	return nil
}

func (m *mockGroupStore) ListMembers(ctx context.Context, groupID int64) ([]model.GroupMember, error) {
	if m.listMembersFn != nil {
		return m.listMembersFn(ctx, groupID)
	}
	return nil, nil
}

func (m *mockGroupStore) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	if m.isMemberFn != nil {
		return m.isMemberFn(ctx, groupID, userID)
	}
	return false, nil
}

type mockCommentStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Comment, error)
	created   []model.Comment
	deleted   []int64
}

func (m *mockCommentStore) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockCommentStore) Create(ctx context.Context, comment *model.Comment) error {
	m.created = append(m.created, *comment)
	return nil
}

func (m *mockCommentStore) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockCommentStore) ListByPost(ctx context.Context, postID int64) ([]model.Comment, error) {
	return nil, nil
}

type mockReactionStore struct {
	upserted []model.Reaction
	deleted  [][2]int64
}

func (m *mockReactionStore) Upsert(ctx context.Context, reaction *model.Reaction) error {
	m.upserted = append(m.upserted, *reaction)
	return nil
}

func (m *mockReactionStore) Delete(ctx context.Context, postID, userID int64) error {
	m.deleted = append(m.deleted, [2]int64{postID, userID})
	return nil
}

func (m *mockReactionStore) ListByPost(ctx context.Context, postID int64) ([]model.Reaction, error) {
	return nil, nil
}

func (m *mockReactionStore) CountByPost(ctx context.Context, postID int64) (int64, error) {
	return int64(len(m.upserted)), nil
}

type mockConversationStore struct {
	isParticipantFn func(ctx context.Context, conversationID, userID int64) (bool, error)
	listPartsFn     func(ctx context.Context, conversationID int64) ([]model.Participant, error)
	created         []model.Conversation
	participants    []model.Participant
	touched         []int64
	lastReads       []lastReadCall
}

type lastReadCall struct {
	conversationID int64
	userID         int64
	readAt         time.Time
}

func (m *mockConversationStore) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	return &model.Conversation{ID: id}, nil
}

func (m *mockConversationStore) Create(ctx context.Context, conv *model.Conversation) error {
	m.created = append(m.created, *conv)
	return nil
}

func (m *mockConversationStore) Touch(ctx context.Context, id int64) error {
	m.touched = append(m.touched, id)
	return nil
}

func (m *mockConversationStore) ListByUser(ctx context.Context, userID int64) ([]model.Conversation, error) {
	return nil, nil
}

func (m *mockConversationStore) AddParticipant(ctx context.Context, p *model.Participant) error {
	m.participants = append(m.participants, *p)
	return nil
}

func (m *mockConversationStore) ListParticipants(ctx context.Context, conversationID int64) ([]model.Participant, error) {
	if m.listPartsFn != nil {
		return m.listPartsFn(ctx, conversationID)
	}
	return nil, nil
}

func (m *mockConversationStore) IsParticipant(ctx context.Context, conversationID, userID int64) (bool, error) {
	if m.isParticipantFn != nil {
		return m.isParticipantFn(ctx, conversationID, userID)
	}
	return true, nil
}

func (m *mockConversationStore) UpdateLastRead(ctx context.Context, conversationID, userID int64, readAt time.Time) error {
	m.lastReads = append(m.lastReads, lastReadCall{conversationID, userID, readAt})
	return nil
}

type mockMessageStore struct {
	markReadFn      func(ctx context.Context, conversationID, readerID int64, readAt time.Time) error
	markDeliveredFn func(ctx context.Context, conversationID, recipientID int64) error
	created         []model.Message
	markReads       []lastReadCall
	delivered       []int64
}

func (m *mockMessageStore) GetByID(ctx context.Context, id int64) (*model.Message, error) {
	return nil, store.ErrNotFound
}

func (m *mockMessageStore) Create(ctx context.Context, msg *model.Message) error {
	m.created = append(m.created, *msg)
	return nil
}

func (m *mockMessageStore) ListByConversation(ctx context.Context, conversationID int64, before time.Time, limit int32) ([]model.Message, error) {
	return nil, nil
}

func (m *mockMessageStore) MarkDelivered(ctx context.Context, conversationID, recipientID int64) error {
	if m.markDeliveredFn != nil {
		return m.markDeliveredFn(ctx, conversationID, recipientID)
	}
	m.delivered = append(m.delivered, conversationID, recipientID)
	return nil
}

func (m *mockMessageStore) MarkRead(ctx context.Context, conversationID, readerID int64, readAt time.Time) error {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, conversationID, readerID, readAt)
	}
	m.markReads = append(m.markReads, lastReadCall{conversationID, readerID, readAt})
	return nil
}

func (m *mockMessageStore) CountUnread(ctx context.Context, conversationID, userID int64) (int64, error) {
	return 0, nil
}

type mockGraph struct {
	followingFn func(ctx context.Context, userID int64) ([]int64, error)
	follows     [][2]int64
	ensured     []int64
}

func (m *mockGraph) EnsureDatabase(ctx context.Context) error    { return nil }
func (m *mockGraph) EnsureCollections(ctx context.Context) error { return nil }
func (m *mockGraph) EnsureGraph(ctx context.Context) error       { return nil }

func (m *mockGraph) EnsurePerson(ctx context.Context, userID int64) error {
	m.ensured = append(m.ensured, userID)
	return nil
}

func (m *mockGraph) RemovePerson(ctx context.Context, userID int64) error { return nil }

func (m *mockGraph) Follow(ctx context.Context, followerID, followeeID int64) error {
	m.follows = append(m.follows, [2]int64{followerID, followeeID})
	return nil
}

func (m *mockGraph) Unfollow(ctx context.Context, followerID, followeeID int64) error { return nil }

func (m *mockGraph) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return false, nil
}

func (m *mockGraph) Followers(ctx context.Context, userID int64) ([]int64, error) { return nil, nil }

func (m *mockGraph) Following(ctx context.Context, userID int64) ([]int64, error) {
	if m.followingFn != nil {
		return m.followingFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockGraph) CountFollowers(ctx context.Context, userID int64) (int64, error) { return 0, nil }

func (m *mockGraph) Mutuals(ctx context.Context, userID, otherID int64) ([]int64, error) {
	return nil, nil
}

func (m *mockGraph) Suggestions(ctx context.Context, userID int64, limit int) ([]int64, error) {
	return nil, nil
}

func (m *mockGraph) Close() error { return nil }

type mockProducer struct {
	enqueueFn func(ctx context.Context, task queue.Task) error
	tasks     []queue.Task
}

func (m *mockProducer) Enqueue(ctx context.Context, task queue.Task) error {
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, task)
	}
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockProducer) Close() error { return nil }

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
		return m.publishFn(ctx, channel, payload)
	}
	m.events = append(m.events, publishedEvent{channel: channel, payload: payload})
	return nil
}

type mockSearchClient struct {
	searchFn func(ctx context.Context, collection, query string, limit int) ([]search.Hit, error)
}

func (m *mockSearchClient) EnsureCollections(ctx context.Context) error { return nil }

func (m *mockSearchClient) Upsert(ctx context.Context, collection string, doc search.Document) error {
	return nil
}

func (m *mockSearchClient) Delete(ctx context.Context, collection, docID string) error { return nil }

func (m *mockSearchClient) Search(ctx context.Context, collection, query string, limit int) ([]search.Hit, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, collection, query, limit)
	}
	return nil, nil
}

// mockTxRunner executes the callback immediately against the provided stores.
type mockTxRunner struct {
	provider service.StoreProvider
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	return fn(m.provider)
}

type mockStoreProvider struct {
	users         *mockUserStore
	posts         *mockPostStore
	conversations *mockConversationStore
	messages      *mockMessageStore
	groups        *mockGroupStore
}

func (m *mockStoreProvider) Users() store.UserStore                 { return m.users }
func (m *mockStoreProvider) Posts() store.PostStore                 { return m.posts }
func (m *mockStoreProvider) Conversations() store.ConversationStore { return m.conversations }
func (m *mockStoreProvider) Messages() store.MessageStore           { return m.messages }
func (m *mockStoreProvider) Groups() store.GroupStore               { return m.groups }
func (m *mockStoreProvider) Jobs() store.JobStore                   { return nil }
func (m *mockStoreProvider) Notifications() store.NotificationStore { return nil }
func (m *mockStoreProvider) Reports() store.ReportStore             { return nil }
