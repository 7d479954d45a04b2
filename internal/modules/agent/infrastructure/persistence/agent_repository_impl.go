package persistence

import (
	"context"
	"strings"
	"time"

	"OpsLink/internal/modules/agent/domain/entity"
	"OpsLink/internal/modules/agent/domain/repository"

	"gorm.io/gorm"
)

type agentRepositoryImpl struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) repository.AgentRepository {
	return &agentRepositoryImpl{db: db}
}

func (r *agentRepositoryImpl) CreateAgent(ctx context.Context, ag *entity.Agent) error {
	ag.Role = strings.ToLower(strings.TrimSpace(ag.Role))
	return r.db.WithContext(ctx).Create(ag).Error
}

func (r *agentRepositoryImpl) GetAgentByRole(ctx context.Context, companyId, role string) (*entity.Agent, error) {
	companyId = strings.TrimSpace(companyId)
	role = strings.ToLower(strings.TrimSpace(role))
	if companyId == "" || role == "" {
		return nil, nil
	}

	var ag entity.Agent
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND role = ? AND status = ?", companyId, role, entity.AgentStatusActive).
		Take(&ag).Error
	if err == nil {
		return &ag, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *agentRepositoryImpl) ListAgents(ctx context.Context, companyId string, limit, offset int) ([]*entity.Agent, error) {
	companyId = strings.TrimSpace(companyId)
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var agents []*entity.Agent
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyId, entity.AgentStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&agents).Error
	return agents, err
}

func (r *agentRepositoryImpl) ListRoles(ctx context.Context, companyId string) ([]string, error) {
	companyId = strings.TrimSpace(companyId)
	if companyId == "" {
		return nil, nil
	}

	var roles []string
	err := r.db.WithContext(ctx).
		Model(&entity.Agent{}).
		Where("company_id = ? AND status = ?", companyId, entity.AgentStatusActive).
		Order("created_at ASC").
		Pluck("role", &roles).Error
	return roles, err
}

func (r *agentRepositoryImpl) UpdateAgent(ctx context.Context, agentId, companyId string, updates map[string]interface{}) error {
	agentId = strings.TrimSpace(agentId)
	companyId = strings.TrimSpace(companyId)
	if agentId == "" || companyId == "" {
		return nil
	}

	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&entity.Agent{}).
		Where("agent_id = ? AND company_id = ?", agentId, companyId).
		Updates(updates).Error
}

func (r *agentRepositoryImpl) DisableAgent(ctx context.Context, agentId, companyId string) error {
	agentId = strings.TrimSpace(agentId)
	companyId = strings.TrimSpace(companyId)
	if agentId == "" || companyId == "" {
		return nil
	}

	return r.db.WithContext(ctx).Model(&entity.Agent{}).
		Where("agent_id = ? AND company_id = ?", agentId, companyId).
		Updates(map[string]interface{}{
			"status":     entity.AgentStatusInactive,
			"updated_at": time.Now(),
		}).Error
}
