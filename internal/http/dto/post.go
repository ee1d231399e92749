package dto

type CreatePostRequest struct {
	Content  string  `json:"content" binding:"max=8000"`
	MediaURL *string `json:"media_url,omitempty" binding:"omitempty,url,max=2048"`
	GroupID  *int64  `json:"group_id,omitempty,string"`
	PageID   *int64  `json:"page_id,omitempty,string"`
}

type UpdatePostRequest struct {
	Content string `json:"content" binding:"required,min=1,max=8000"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=4000"`
}

type ReactionRequest struct {
	Kind string `json:"kind" binding:"required"`
}
