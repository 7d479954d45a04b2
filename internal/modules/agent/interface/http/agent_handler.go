package http

import (
	"strings"

	agentRequest "OpsLink/internal/modules/agent/application/dto/request"
	"OpsLink/internal/modules/agent/application/service"
	"OpsLink/pkg/back"
	"OpsLink/pkg/xerr"
	"OpsLink/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AgentHandler Agent目录与任务路由的HTTP Handler
type AgentHandler struct {
	svc    service.AgentService
	router service.RouterService
}

func NewAgentHandler(svc service.AgentService, router service.RouterService) *AgentHandler {
	return &AgentHandler{svc: svc, router: router}
}

// RouteTask 处理任务路由请求
//
// 路由: POST /agent/routeTask
// 鉴权: 需要JWT
// 注意：路由失败也是 200 + TaskResult{success:false}，失败是数据不是异常
func (h *AgentHandler) RouteTask(c *gin.Context) {
	var req agentRequest.RouteTaskRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("route task bind error", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId := strings.TrimSpace(c.GetString("company_id"))
	if companyId == "" {
		back.Error(c, xerr.Unauthorized, "未登录")
		return
	}

	result := h.router.RouteTask(c.Request.Context(), companyId, req.Role, req.Task)
	back.Success(c, result)
}

// GetAgentRoles 获取可用角色列表
//
// 路由: POST /agent/getAgentRoles
func (h *AgentHandler) GetAgentRoles(c *gin.Context) {
	companyId := strings.TrimSpace(c.GetString("company_id"))
	if companyId == "" {
		back.Error(c, xerr.Unauthorized, "未登录")
		return
	}

	roles := h.router.GetAvailableAgentRoles(c.Request.Context(), companyId)
	back.Success(c, gin.H{"roles": roles})
}

// CreateAgent 创建Agent
//
// 路由: POST /agent/createAgent
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req agentRequest.CreateAgentRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("create agent bind error", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId := strings.TrimSpace(c.GetString("company_id"))
	if companyId == "" {
		back.Error(c, xerr.Unauthorized, "未登录")
		return
	}

	data, err := h.svc.CreateAgent(c.Request.Context(), req, companyId)
	back.Result(c, data, err)
}

// UpdateAgent 更新Agent
//
// 路由: POST /agent/updateAgent
func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	var req agentRequest.UpdateAgentRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("update agent bind error", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId := strings.TrimSpace(c.GetString("company_id"))
	if companyId == "" {
		back.Error(c, xerr.Unauthorized, "未登录")
		return
	}

	err := h.svc.UpdateAgent(c.Request.Context(), req, companyId)
	back.Result(c, nil, err)
}

// GetAgentList 获取Agent列表
//
// 路由: POST /agent/getAgentList
func (h *AgentHandler) GetAgentList(c *gin.Context) {
	var req agentRequest.GetAgentListRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId := strings.TrimSpace(c.GetString("company_id"))
	if companyId == "" {
		back.Error(c, xerr.Unauthorized, "未登录")
		return
	}

	data, err := h.svc.GetAgentList(c.Request.Context(), companyId, req.Limit, req.Offset)
	back.Result(c, data, err)
}

// GetAgentLogs 获取交互日志
//
// 路由: POST /agent/getAgentLogs
func (h *AgentHandler) GetAgentLogs(c *gin.Context) {
	var req agentRequest.GetAgentLogsRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.GetAgentLogs(c.Request.Context(), req)
	back.Result(c, data, err)
}
