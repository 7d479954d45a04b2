package service

import (
	"context"
	"strings"
	"time"

	"OpsLink/internal/modules/agent/application/dto/request"
	"OpsLink/internal/modules/agent/application/dto/respond"
	"OpsLink/internal/modules/agent/domain/entity"
	"OpsLink/internal/modules/agent/domain/repository"
	"OpsLink/pkg/util"
	"OpsLink/pkg/xerr"
	"OpsLink/pkg/zlog"

	"go.uber.org/zap"
)

// AgentService Agent目录的增删改查服务
type AgentService interface {
	CreateAgent(ctx context.Context, req request.CreateAgentRequest, companyId string) (*respond.AgentItem, error)
	UpdateAgent(ctx context.Context, req request.UpdateAgentRequest, companyId string) error
	GetAgentList(ctx context.Context, companyId string, limit, offset int) (*respond.AgentListRespond, error)
	GetAgentLogs(ctx context.Context, req request.GetAgentLogsRequest) (*respond.AgentLogListRespond, error)
}

type agentServiceImpl struct {
	agentRepo repository.AgentRepository
	logRepo   repository.AgentLogRepository
}

func NewAgentService(agentRepo repository.AgentRepository, logRepo repository.AgentLogRepository) AgentService {
	return &agentServiceImpl{agentRepo: agentRepo, logRepo: logRepo}
}

func (s *agentServiceImpl) CreateAgent(ctx context.Context, req request.CreateAgentRequest, companyId string) (*respond.AgentItem, error) {
	companyId = strings.TrimSpace(companyId)
	if companyId == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))

	// 同公司内 role 唯一
	existing, err := s.agentRepo.GetAgentByRole(ctx, companyId, role)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	if existing != nil {
		return nil, xerr.New(xerr.BadRequest, "该角色已存在")
	}

	now := time.Now()
	ag := &entity.Agent{
		AgentId:      util.GenerateID("A"),
		CompanyId:    companyId,
		Role:         role,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		SystemPrompt: req.SystemPrompt,
		LLMProvider:  strings.ToLower(strings.TrimSpace(req.LLMProvider)),
		LLMModel:     strings.TrimSpace(req.LLMModel),
		APIKeyRef:    strings.TrimSpace(req.APIKeyRef),
		Status:       entity.AgentStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.agentRepo.CreateAgent(ctx, ag); err != nil {
		zlog.Error("create agent failed", zap.Error(err), zap.String("role", role))
		return nil, xerr.ErrServerError
	}

	return &respond.AgentItem{
		AgentId:     ag.AgentId,
		Name:        ag.Name,
		Role:        ag.Role,
		Description: ag.Description,
		LLMProvider: ag.LLMProvider,
		LLMModel:    ag.LLMModel,
		Status:      ag.Status,
		CreatedAt:   ag.CreatedAt,
	}, nil
}

func (s *agentServiceImpl) UpdateAgent(ctx context.Context, req request.UpdateAgentRequest, companyId string) error {
	companyId = strings.TrimSpace(companyId)
	if companyId == "" || strings.TrimSpace(req.AgentId) == "" {
		return xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.SystemPrompt != nil {
		updates["system_prompt"] = *req.SystemPrompt
	}
	if req.LLMProvider != nil {
		updates["llm_provider"] = strings.ToLower(strings.TrimSpace(*req.LLMProvider))
	}
	if req.LLMModel != nil {
		updates["llm_model"] = strings.TrimSpace(*req.LLMModel)
	}
	if req.APIKeyRef != nil {
		updates["api_key_ref"] = strings.TrimSpace(*req.APIKeyRef)
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if len(updates) == 0 {
		return nil
	}

	if err := s.agentRepo.UpdateAgent(ctx, req.AgentId, companyId, updates); err != nil {
		zlog.Error("update agent failed", zap.Error(err), zap.String("agent_id", req.AgentId))
		return xerr.ErrServerError
	}
	return nil
}

func (s *agentServiceImpl) GetAgentList(ctx context.Context, companyId string, limit, offset int) (*respond.AgentListRespond, error) {
	companyId = strings.TrimSpace(companyId)
	if companyId == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	agents, err := s.agentRepo.ListAgents(ctx, companyId, limit, offset)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	out := make([]respond.AgentItem, 0, len(agents))
	for _, ag := range agents {
		out = append(out, respond.AgentItem{
			AgentId:     ag.AgentId,
			Name:        ag.Name,
			Role:        ag.Role,
			Description: ag.Description,
			LLMProvider: ag.LLMProvider,
			LLMModel:    ag.LLMModel,
			Status:      ag.Status,
			CreatedAt:   ag.CreatedAt,
		})
	}
	return &respond.AgentListRespond{Agents: out, Total: len(out)}, nil
}

func (s *agentServiceImpl) GetAgentLogs(ctx context.Context, req request.GetAgentLogsRequest) (*respond.AgentLogListRespond, error) {
	logs, err := s.logRepo.ListByAgent(ctx, req.AgentId, req.Limit, req.Offset)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}

	out := make([]respond.AgentLogItem, 0, len(logs))
	for _, lg := range logs {
		out = append(out, respond.AgentLogItem{
			LogId:     lg.LogId,
			AgentId:   lg.AgentId,
			Input:     lg.Input,
			Output:    lg.Output,
			Error:     lg.Error,
			CreatedAt: lg.CreatedAt,
		})
	}
	return &respond.AgentLogListRespond{Logs: out}, nil
}
