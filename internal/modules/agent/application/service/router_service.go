package service

import (
	"context"
	"fmt"
	"strings"

	appconfig "OpsLink/internal/config"
	"OpsLink/internal/modules/agent/domain/entity"
	"OpsLink/internal/modules/agent/domain/repository"
	"OpsLink/internal/modules/agent/infrastructure/llm"
	"OpsLink/pkg/zlog"

	"go.uber.org/zap"
)

// TaskResult 路由结果。委派时构成递归树：根结果的 DelegatedTasks
// 每个条目对应一个被委派角色的子结果。
type TaskResult struct {
	Success        bool         `json:"success"`
	Response       string       `json:"response"`
	Error          string       `json:"error,omitempty"`
	DelegatedTasks []TaskResult `json:"delegated_tasks,omitempty"`
}

// RouterService 任务路由/编排服务
//
// 失败语义：一切失败都以结构化结果返回，公开边界之内不抛出任何异常；
// 本层不做重试，单次 LLM 调用失败即该次调用的最终失败。
type RouterService interface {
	// RouteTask 按角色解析Agent并调度任务
	RouteTask(ctx context.Context, companyId, role, task string) TaskResult

	// GetAvailableAgentRoles 返回全部已知角色（查询失败时返回空列表，只记日志）
	GetAvailableAgentRoles(ctx context.Context, companyId string) []string

	// IsAgentRoleAvailable 角色存在性检查（失败收敛为 false）
	IsAgentRoleAvailable(ctx context.Context, companyId, role string) bool
}

type routerServiceImpl struct {
	agentRepo  repository.AgentRepository
	logger     InteractionLogger
	dispatcher llm.Dispatcher
	classifier DelegationClassifier
	llmConf    appconfig.LLMConfig
	resolver   llm.SecretResolver
}

// NewRouterService 创建路由服务
func NewRouterService(
	agentRepo repository.AgentRepository,
	logger InteractionLogger,
	dispatcher llm.Dispatcher,
	classifier DelegationClassifier,
	llmConf appconfig.LLMConfig,
	resolver llm.SecretResolver,
) RouterService {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	if resolver == nil {
		resolver = llm.EnvResolver{}
	}
	return &routerServiceImpl{
		agentRepo:  agentRepo,
		logger:     logger,
		dispatcher: dispatcher,
		classifier: classifier,
		llmConf:    llmConf,
		resolver:   resolver,
	}
}

func (s *routerServiceImpl) RouteTask(ctx context.Context, companyId, role, task string) TaskResult {
	role = strings.TrimSpace(role)

	ag, err := s.agentRepo.GetAgentByRole(ctx, companyId, role)
	if err != nil {
		zlog.Error("agent lookup failed", zap.Error(err), zap.String("role", role))
		return TaskResult{Success: false, Error: fmt.Sprintf("failed to look up agent for role '%s': %v", role, err)}
	}
	if ag == nil {
		return TaskResult{Success: false, Error: fmt.Sprintf("No agent found for role '%s'", role)}
	}

	// 保留角色 chief：走委派流程
	if strings.EqualFold(ag.Role, entity.RoleChief) {
		return s.delegateTask(ctx, companyId, ag, task)
	}

	return s.processAgentTask(ctx, ag, task)
}

// delegateTask Chief 专属的委派流程
//
// 1) 先对 Chief 自身做一次分析调度，失败则原样返回，不再委派；
// 2) 用分类器从分析文本中选出专家角色（固定枚举顺序，已去重）；
// 3) 选不出角色时原样返回分析结果；
// 4) 按顺序串行递归 RouteTask（刻意不并行：保证拼接顺序确定），
//    传入的是原始任务文本而非 Chief 的分析；
// 5) 子任务失败只体现在 DelegatedTasks 里，不影响顶层 success。
func (s *routerServiceImpl) delegateTask(ctx context.Context, companyId string, chief *entity.Agent, task string) TaskResult {
	analysis := s.processAgentTask(ctx, chief, task)
	if !analysis.Success {
		return analysis
	}

	roles := s.classifier.Classify(analysis.Response)
	if len(roles) == 0 {
		return analysis
	}

	combined := analysis.Response
	delegated := make([]TaskResult, 0, len(roles))
	for _, role := range roles {
		res := s.RouteTask(ctx, companyId, role, task)
		delegated = append(delegated, res)
		if res.Success {
			combined += fmt.Sprintf("\n\n--- %s Agent Response ---\n%s", strings.ToUpper(role), res.Response)
		}
	}

	return TaskResult{
		Success:        true,
		Response:       combined,
		DelegatedTasks: delegated,
	}
}

// processAgentTask 直接调度（路由与委派共用）
//
// 日志口径：只有真正到达 LLM 调度的尝试（无论成败）才写交互日志；
// provider 未配置、LLM 配置构造失败这两条前置失败路径不写。
func (s *routerServiceImpl) processAgentTask(ctx context.Context, ag *entity.Agent, task string) TaskResult {
	if strings.TrimSpace(ag.LLMProvider) == "" {
		return TaskResult{
			Success: false,
			Error:   fmt.Sprintf("Agent '%s' does not have LLM provider configured", ag.Name),
		}
	}

	cfg := llm.BuildConfig(ag, s.llmConf, s.resolver)
	if cfg == nil {
		return TaskResult{
			Success: false,
			Error:   fmt.Sprintf("failed to build LLM configuration for agent '%s'", ag.Name),
		}
	}

	systemPrompt := ag.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = fmt.Sprintf("You are %s, the %s agent of this company. Respond helpfully and concisely.", ag.Name, ag.Role)
	}

	reply := s.dispatcher.Dispatch(ctx, cfg, systemPrompt, task)

	// 成败均记一条交互日志；写失败由 logger 自行吞掉
	if s.logger != nil {
		s.logger.Record(ctx, ag.AgentId, task, reply.Content, reply.Err)
	}

	if reply.Err != nil {
		return TaskResult{Success: false, Error: reply.Err.Error()}
	}
	return TaskResult{Success: true, Response: reply.Content}
}

func (s *routerServiceImpl) GetAvailableAgentRoles(ctx context.Context, companyId string) []string {
	roles, err := s.agentRepo.ListRoles(ctx, companyId)
	if err != nil {
		zlog.Error("list agent roles failed", zap.Error(err), zap.String("company_id", companyId))
		return []string{}
	}
	if roles == nil {
		return []string{}
	}
	return roles
}

func (s *routerServiceImpl) IsAgentRoleAvailable(ctx context.Context, companyId, role string) bool {
	ag, err := s.agentRepo.GetAgentByRole(ctx, companyId, role)
	if err != nil {
		zlog.Error("agent role check failed", zap.Error(err), zap.String("role", role))
		return false
	}
	return ag != nil
}
