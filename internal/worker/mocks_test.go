package worker_test

import (
	"context"
	"time"

	"loopline.app/server/internal/model"
	"loopline.app/server/internal/search"
	"loopline.app/server/internal/store"
)

type mockStores struct {
	users         *mockUserStore
	posts         *mockPostStore
	jobs          *mockJobStore
	listings      *mockListingStore
	notifications *mockNotificationStore
}

func newMockStores() *mockStores {
	return &mockStores{
		users:         &mockUserStore{},
		posts:         &mockPostStore{},
		jobs:          &mockJobStore{},
		listings:      &mockListingStore{},
		notifications: &mockNotificationStore{},
	}
}

func (m *mockStores) Users() store.UserStore                 { return m.users }
func (m *mockStores) Posts() store.PostStore                 { return m.posts }
func (m *mockStores) Jobs() store.JobStore                   { return m.jobs }
func (m *mockStores) Listings() store.ListingStore           { return m.listings }
func (m *mockStores) Notifications() store.NotificationStore { return m.notifications }

type mockNotificationStore struct {
	createFn func(ctx context.Context, n *model.Notification) error
	created  []model.Notification
}

func (m *mockNotificationStore) Create(ctx context.Context, n *model.Notification) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, n); err != nil {
			return err
		}
	}
	m.created = append(m.created, *n)
	return nil
}
func (m *mockNotificationStore) ListByUser(context.Context, int64, int32) ([]model.Notification, error) {
	return nil, nil
}
func (m *mockNotificationStore) MarkRead(context.Context, int64, int64, time.Time) error { return nil }
func (m *mockNotificationStore) MarkAllRead(context.Context, int64, time.Time) error     { return nil }
func (m *mockNotificationStore) CountUnread(context.Context, int64) (int64, error)       { return 0, nil }

type mockUserStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.User, error)
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}
func (m *mockUserStore) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, store.ErrNotFound
}
func (m *mockUserStore) Create(context.Context, *model.User) error           { return nil }
func (m *mockUserStore) UpsertByWorkOSID(context.Context, *model.User) error { return nil }
func (m *mockUserStore) Update(context.Context, *model.User) error           { return nil }
func (m *mockUserStore) Delete(context.Context, int64) error                 { return nil }
func (m *mockUserStore) ListByIDs(context.Context, []int64) ([]model.User, error) {
	return nil, nil
}

type mockPostStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Post, error)
}

func (m *mockPostStore) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}
func (m *mockPostStore) Create(context.Context, *model.Post) error { return nil }
func (m *mockPostStore) Update(context.Context, *model.Post) error { return nil }
func (m *mockPostStore) Delete(context.Context, int64) error       { return nil }
func (m *mockPostStore) ListByAuthor(context.Context, int64, int32) ([]model.Post, error) {
	return nil, nil
}
func (m *mockPostStore) ListByAuthors(context.Context, []int64, time.Time, int32) ([]model.Post, error) {
	return nil, nil
}
func (m *mockPostStore) ListByGroup(context.Context, int64, int32) ([]model.Post, error) {
	return nil, nil
}
func (m *mockPostStore) ListByPage(context.Context, int64, int32) ([]model.Post, error) {
	return nil, nil
}

type mockJobStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.JobPost, error)
}

func (m *mockJobStore) GetByID(ctx context.Context, id int64) (*model.JobPost, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}
func (m *mockJobStore) Create(context.Context, *model.JobPost) error        { return nil }
func (m *mockJobStore) Update(context.Context, *model.JobPost) error        { return nil }
func (m *mockJobStore) Close(context.Context, int64, time.Time) error       { return nil }
func (m *mockJobStore) ListOpen(context.Context, int32) ([]model.JobPost, error) {
	return nil, nil
}
func (m *mockJobStore) ListByCompany(context.Context, int64) ([]model.JobPost, error) {
	return nil, nil
}
func (m *mockJobStore) CreateApplication(context.Context, *model.JobApplication) error { return nil }
func (m *mockJobStore) GetApplication(context.Context, int64) (*model.JobApplication, error) {
	return nil, store.ErrNotFound
}
func (m *mockJobStore) ListApplicationsByJob(context.Context, int64) ([]model.JobApplication, error) {
	return nil, nil
}
func (m *mockJobStore) ListApplicationsByUser(context.Context, int64) ([]model.JobApplication, error) {
	return nil, nil
}
func (m *mockJobStore) UpdateApplicationStatus(context.Context, int64, string) error { return nil }

type mockListingStore struct {
	getByIDFn func(ctx context.Context, id int64) (*model.Listing, error)
}

func (m *mockListingStore) GetByID(ctx context.Context, id int64) (*model.Listing, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}
func (m *mockListingStore) Create(context.Context, *model.Listing) error            { return nil }
func (m *mockListingStore) Update(context.Context, *model.Listing) error            { return nil }
func (m *mockListingStore) UpdateStatus(context.Context, int64, string) error       { return nil }
func (m *mockListingStore) Delete(context.Context, int64) error                     { return nil }
func (m *mockListingStore) List(context.Context, string, int32) ([]model.Listing, error) {
	return nil, nil
}
func (m *mockListingStore) ListBySeller(context.Context, int64) ([]model.Listing, error) {
	return nil, nil
}

type searchOp struct {
	op         string
	collection string
	docID      string
	doc        search.Document
}

type mockSearchClient struct {
	upsertFn func(ctx context.Context, collection string, doc search.Document) error
	ops      []searchOp
}

func (m *mockSearchClient) EnsureCollections(context.Context) error { return nil }
func (m *mockSearchClient) Upsert(ctx context.Context, collection string, doc search.Document) error {
	if m.upsertFn != nil {
		if err := m.upsertFn(ctx, collection, doc); err != nil {
			return err
		}
	}
	m.ops = append(m.ops, searchOp{op: "upsert", collection: collection, doc: doc})
	return nil
}
func (m *mockSearchClient) Delete(ctx context.Context, collection, docID string) error {
	m.ops = append(m.ops, searchOp{op: "delete", collection: collection, docID: docID})
	return nil
}
func (m *mockSearchClient) Search(context.Context, string, string, int) ([]search.Hit, error) {
	return nil, nil
}

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
		if err := m.publishFn(ctx, channel, payload); err != nil {
			return err
		}
	}
	m.events = append(m.events, publishedEvent{channel: channel, payload: payload})
	return nil
}
