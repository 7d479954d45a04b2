package repository

import (
	"context"

	"OpsLink/internal/modules/agent/domain/entity"
)

// AgentRepository Agent仓储接口
type AgentRepository interface {
	// CreateAgent 创建Agent
	CreateAgent(ctx context.Context, ag *entity.Agent) error

	// GetAgentByRole 按角色查找Agent（公司隔离；未命中返回 nil, nil）
	GetAgentByRole(ctx context.Context, companyId, role string) (*entity.Agent, error)

	// ListAgents 获取公司内启用的Agent列表
	ListAgents(ctx context.Context, companyId string, limit, offset int) ([]*entity.Agent, error)

	// ListRoles 获取公司内所有启用Agent的角色
	ListRoles(ctx context.Context, companyId string) ([]string, error)

	// UpdateAgent 更新Agent（支持部分字段更新）
	UpdateAgent(ctx context.Context, agentId, companyId string, updates map[string]interface{}) error

	// DisableAgent 停用Agent
	DisableAgent(ctx context.Context, agentId, companyId string) error
}
