package model

import "time"

const (
	EmploymentFullTime = "full_time"
	EmploymentPartTime = "part_time"
	EmploymentContract = "contract"
)

type JobPost struct {
	ID             int64      `json:"id"`
	CompanyID      int64      `json:"company_id"`
	PostedBy       int64      `json:"posted_by"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	EmploymentType string     `json:"employment_type"`
	SalaryRange    *string    `json:"salary_range,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

const (
	ApplicationSubmitted = "submitted"
	ApplicationReviewed  = "reviewed"
	ApplicationRejected  = "rejected"
	ApplicationAccepted  = "accepted"
)

type JobApplication struct {
	ID          int64     `json:"id"`
	JobPostID   int64     `json:"job_post_id"`
	ApplicantID int64     `json:"applicant_id"`
	ResumeID    *int64    `json:"resume_id,omitempty"`
	CoverLetter string    `json:"cover_letter"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
