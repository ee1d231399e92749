package dto

import "encoding/json"

type CreateConversationRequest struct {
	ParticipantIDs []int64 `json:"participant_ids" binding:"required,min=1"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=8000"`
}

type PlaceCallRequest struct {
	CalleeID       int64           `json:"callee_id,string" binding:"required"`
	ConversationID int64           `json:"conversation_id,string" binding:"required"`
	CallType       string          `json:"call_type" binding:"required,oneof=audio video"`
	SDP            json.RawMessage `json:"sdp" binding:"required"`
}

type SendSignalRequest struct {
	RecipientID    int64           `json:"recipient_id,string" binding:"required"`
	ConversationID int64           `json:"conversation_id,string" binding:"required"`
	SignalType     string          `json:"signal_type" binding:"required,oneof=answer ice"`
	Data           json.RawMessage `json:"data" binding:"required"`
}
