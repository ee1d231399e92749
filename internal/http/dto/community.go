package dto

import "time"

type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=4000"`
}

type UpdateGroupRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=4000"`
	CoverURL    *string `json:"cover_url,omitempty" binding:"omitempty,url,max=2048"`
}

type CreatePageRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	Category    string `json:"category" binding:"max=255"`
	Description string `json:"description" binding:"max=4000"`
}

type UpdatePageRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Category    *string `json:"category,omitempty" binding:"omitempty,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=4000"`
	AvatarURL   *string `json:"avatar_url,omitempty" binding:"omitempty,url,max=2048"`
}

type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=255"`
	Description string     `json:"description" binding:"max=4000"`
	Location    string     `json:"location" binding:"max=512"`
	StartsAt    time.Time  `json:"starts_at" binding:"required"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
}

type RSVPRequest struct {
	Status string `json:"status" binding:"required,oneof=going interested declined"`
}
