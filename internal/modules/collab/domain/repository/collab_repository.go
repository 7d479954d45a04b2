package repository

import (
	"context"

	"OpsLink/internal/modules/collab/domain/entity"
)

// CollabSessionRepository 协作会话仓储接口
type CollabSessionRepository interface {
	CreateSession(ctx context.Context, s *entity.CollabSession) error
	GetSessionByID(ctx context.Context, sessionId, companyId string) (*entity.CollabSession, error)
	ListSessions(ctx context.Context, companyId string, limit, offset int) ([]*entity.CollabSession, error)
	UpdateSession(ctx context.Context, sessionId string, updates map[string]interface{}) error
}

// CollabMessageRepository 会话转写仓储接口
type CollabMessageRepository interface {
	AppendMessage(ctx context.Context, m *entity.CollabMessage) error
	ListMessages(ctx context.Context, sessionId string, limit, offset int) ([]*entity.CollabMessage, error)
}
