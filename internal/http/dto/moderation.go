package dto

type FileReportRequest struct {
	EntityType string `json:"entity_type" binding:"required,oneof=post comment user listing group reel"`
	EntityID   int64  `json:"entity_id,string" binding:"required"`
	Reason     string `json:"reason" binding:"required,min=1,max=4000"`
}
