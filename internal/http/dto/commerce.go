package dto

type CreateCompanyRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Industry string `json:"industry" binding:"max=255"`
	About    string `json:"about" binding:"max=8000"`
}

type UpdateCompanyRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Industry *string `json:"industry,omitempty" binding:"omitempty,max=255"`
	Website  *string `json:"website,omitempty" binding:"omitempty,url,max=2048"`
	About    *string `json:"about,omitempty" binding:"omitempty,max=8000"`
	LogoURL  *string `json:"logo_url,omitempty" binding:"omitempty,url,max=2048"`
}

type CreateJobRequest struct {
	CompanyID      int64   `json:"company_id,string" binding:"required"`
	Title          string  `json:"title" binding:"required,min=1,max=255"`
	Description    string  `json:"description" binding:"max=16000"`
	Location       string  `json:"location" binding:"max=512"`
	EmploymentType string  `json:"employment_type" binding:"required,oneof=full_time part_time contract"`
	SalaryRange    *string `json:"salary_range,omitempty" binding:"omitempty,max=255"`
}

type ApplyJobRequest struct {
	ResumeID    *int64 `json:"resume_id,omitempty,string"`
	CoverLetter string `json:"cover_letter" binding:"max=16000"`
}

type ReviewApplicationRequest struct {
	Status string `json:"status" binding:"required,oneof=submitted reviewed rejected accepted"`
}

type CreateResumeRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=255"`
	Summary string `json:"summary" binding:"max=16000"`
}

type CreateListingRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=8000"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	Category    string `json:"category" binding:"max=255"`
}

type UpdateListingRequest struct {
	Title       string `json:"title" binding:"omitempty,max=255"`
	Description string `json:"description" binding:"omitempty,max=8000"`
	PriceCents  int64  `json:"price_cents" binding:"omitempty,gt=0"`
	Category    string `json:"category" binding:"omitempty,max=255"`
}

type ListingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active sold closed"`
}
