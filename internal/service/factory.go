package service

import (
	"loopline.app/server/core/config"
	"loopline.app/server/internal/calls"
	"loopline.app/server/internal/graph"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/realtime"
	"loopline.app/server/internal/search"
	"loopline.app/server/internal/storage"
	"loopline.app/server/internal/store"
)

// Services wires stores and infrastructure clients into the service layer.
// Accessors build services on demand; the call service is the exception
// because it owns live ringer state.
type Services struct {
	stores    *store.Stores
	txRunner  TxRunner
	graph     graph.Client
	search    search.Client
	objects   storage.Store
	publisher realtime.Publisher
	producer  queue.Producer
	workos    config.WorkOSConfig

	callService calls.Service
}

type ServicesConfig struct {
	Stores    *store.Stores
	TxRunner  TxRunner
	Graph     graph.Client
	Search    search.Client
	Objects   storage.Store
	Publisher realtime.Publisher
	Producer  queue.Producer
	WorkOS    config.WorkOSConfig
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		stores:    cfg.Stores,
		txRunner:  cfg.TxRunner,
		graph:     cfg.Graph,
		search:    cfg.Search,
		objects:   cfg.Objects,
		publisher: cfg.Publisher,
		producer:  cfg.Producer,
		workos:    cfg.WorkOS,
		callService: calls.NewService(
			cfg.Stores.CallSignals(),
			cfg.Stores.Conversations(),
			cfg.Stores.Users(),
			cfg.Publisher,
		),
	}
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.stores.Users(), s.stores.Sessions(), s.workos)
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users(), s.graph, s.objects, s.producer, s.search)
}

func (s *Services) Posts() PostService {
	return NewPostService(s.stores.Posts(), s.stores.Groups(), s.graph, s.publisher, s.producer, s.search)
}

func (s *Services) Engagement() EngagementService {
	return NewEngagementService(s.stores.Comments(), s.stores.Reactions(), s.stores.Posts(), s.producer)
}

func (s *Services) Conversations() ConversationService {
	return NewConversationService(s.stores.Conversations(), s.stores.Messages(), s.stores.Users(), s.txRunner, s.publisher, s.producer)
}

func (s *Services) Calls() calls.Service {
	return s.callService
}

func (s *Services) Groups() GroupService {
	return NewGroupService(s.stores.Groups())
}

func (s *Services) Pages() PageService {
	return NewPageService(s.stores.Pages())
}

func (s *Services) Companies() CompanyService {
	return NewCompanyService(s.stores.Companies())
}

func (s *Services) Jobs() JobService {
	return NewJobService(s.stores.Jobs(), s.stores.Companies(), s.producer, s.search)
}

func (s *Services) Resumes() ResumeService {
	return NewResumeService(s.stores.Resumes(), s.objects)
}

func (s *Services) Listings() ListingService {
	return NewListingService(s.stores.Listings(), s.objects, s.producer, s.search)
}

func (s *Services) Reels() ReelService {
	return NewReelService(s.stores.Reels(), s.objects)
}

func (s *Services) Events() EventService {
	return NewEventService(s.stores.Events())
}

func (s *Services) Notifications() NotificationService {
	return NewNotificationService(s.stores.Notifications())
}

func (s *Services) Admin() AdminService {
	return NewAdminService(s.stores.Reports(), s.stores.Stats())
}
