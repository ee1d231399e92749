package model

// Totals is the admin console's aggregate view.
type Totals struct {
	Users       int64 `json:"users"`
	Posts       int64 `json:"posts"`
	Messages    int64 `json:"messages"`
	Groups      int64 `json:"groups"`
	Listings    int64 `json:"listings"`
	JobPosts    int64 `json:"job_posts"`
	Events      int64 `json:"events"`
	OpenReports int64 `json:"open_reports"`
}
