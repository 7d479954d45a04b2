package request

import "OpsLink/internal/modules/collab/domain/entity"

// CreateSessionRequest 创建协作会话
type CreateSessionRequest struct {
	Title        string               `json:"title" binding:"required"`
	Participants []entity.Participant `json:"participants" binding:"required"`
}

// GetSessionListRequest 会话列表
type GetSessionListRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// SessionActionRequest 会议模式开关与轮转
type SessionActionRequest struct {
	SessionId string `json:"session_id" binding:"required"`
}

// GetMessagesRequest 转写记录
type GetMessagesRequest struct {
	SessionId string `json:"session_id" binding:"required"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}
