package store

import (
	"loopline.app/server/core/db"
)

type Stores struct {
	q db.Querier
}

func NewStores(q db.Querier) *Stores {
	return &Stores{q: q}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.q)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.q)
}

func (s *Stores) Posts() PostStore {
	return newPostStore(s.q)
}

func (s *Stores) Comments() CommentStore {
	return newCommentStore(s.q)
}

func (s *Stores) Reactions() ReactionStore {
	return newReactionStore(s.q)
}

func (s *Stores) Conversations() ConversationStore {
	return newConversationStore(s.q)
}

func (s *Stores) Messages() MessageStore {
	return newMessageStore(s.q)
}

func (s *Stores) CallSignals() CallSignalStore {
	return newCallSignalStore(s.q)
}

func (s *Stores) Groups() GroupStore {
	return newGroupStore(s.q)
}

func (s *Stores) Pages() PageStore {
	return newPageStore(s.q)
}

func (s *Stores) Companies() CompanyStore {
	return newCompanyStore(s.q)
}

func (s *Stores) Jobs() JobStore {
	return newJobStore(s.q)
}

func (s *Stores) Resumes() ResumeStore {
	return newResumeStore(s.q)
}

func (s *Stores) Listings() ListingStore {
	return newListingStore(s.q)
}

func (s *Stores) Reels() ReelStore {
	return newReelStore(s.q)
}

func (s *Stores) Events() EventStore {
	return newEventStore(s.q)
}

func (s *Stores) Notifications() NotificationStore {
	return newNotificationStore(s.q)
}

func (s *Stores) Reports() ReportStore {
	return newReportStore(s.q)
}

func (s *Stores) Stats() StatsStore {
	return newStatsStore(s.q)
}
