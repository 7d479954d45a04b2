package persistence

import (
	"context"
	"strings"
	"time"

	"OpsLink/internal/modules/agent/domain/entity"
	"OpsLink/internal/modules/agent/domain/repository"
	"OpsLink/pkg/util"

	"gorm.io/gorm"
)

type agentLogRepositoryImpl struct {
	db *gorm.DB
}

func NewAgentLogRepository(db *gorm.DB) repository.AgentLogRepository {
	return &agentLogRepositoryImpl{db: db}
}

func (r *agentLogRepositoryImpl) Append(ctx context.Context, lg *entity.AgentLog) error {
	if lg == nil {
		return nil
	}
	if lg.LogId == "" {
		lg.LogId = util.GenerateID("L")
	}
	if lg.CreatedAt.IsZero() {
		lg.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(lg).Error
}

func (r *agentLogRepositoryImpl) ListByAgent(ctx context.Context, agentId string, limit, offset int) ([]*entity.AgentLog, error) {
	agentId = strings.TrimSpace(agentId)
	if agentId == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var logs []*entity.AgentLog
	err := r.db.WithContext(ctx).
		Where("agent_id = ?", agentId).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, err
}
