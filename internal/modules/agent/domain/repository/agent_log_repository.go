package repository

import (
	"context"

	"OpsLink/internal/modules/agent/domain/entity"
)

// AgentLogRepository 交互日志仓储接口（只追加，不修改）
type AgentLogRepository interface {
	// Append 追加一条交互日志
	Append(ctx context.Context, lg *entity.AgentLog) error

	// ListByAgent 按Agent查询最近的交互日志
	ListByAgent(ctx context.Context, agentId string, limit, offset int) ([]*entity.AgentLog, error)
}
