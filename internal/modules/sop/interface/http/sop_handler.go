package http

import (
	"strings"

	sopRequest "OpsLink/internal/modules/sop/application/dto/request"
	"OpsLink/internal/modules/sop/application/service"
	"OpsLink/pkg/back"
	"OpsLink/pkg/xerr"
	"OpsLink/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SOPHandler SOP生成与生命周期管理的HTTP Handler
type SOPHandler struct {
	svc service.SOPService
}

func NewSOPHandler(svc service.SOPService) *SOPHandler {
	return &SOPHandler{svc: svc}
}

func identity(c *gin.Context) (companyId, userId string, ok bool) {
	companyId = strings.TrimSpace(c.GetString("company_id"))
	userId = strings.TrimSpace(c.GetString("uuid"))
	if companyId == "" || userId == "" {
		back.Error(c, xerr.Unauthorized, "未登录")
		return "", "", false
	}
	return companyId, userId, true
}

// Generate 生成SOP草稿
//
// 路由: POST /sop/generate
func (h *SOPHandler) Generate(c *gin.Context) {
	var req sopRequest.GenerateSOPRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("sop generate bind error", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, userId, ok := identity(c)
	if !ok {
		return
	}

	doc, err := h.svc.GenerateSOP(c.Request.Context(), companyId, userId, req.Title, req.Topic, req.Audience, req.AgentRole, req.IncludeContext)
	back.Result(c, doc, err)
}

// Publish 发布SOP
//
// 路由: POST /sop/publish
func (h *SOPHandler) Publish(c *gin.Context) {
	var req sopRequest.PublishSOPRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, userId, ok := identity(c)
	if !ok {
		return
	}

	doc, err := h.svc.PublishSOP(c.Request.Context(), req.DocId, companyId, userId)
	back.Result(c, doc, err)
}

// CreateVersion 创建新版本
//
// 路由: POST /sop/createVersion
func (h *SOPHandler) CreateVersion(c *gin.Context) {
	var req sopRequest.CreateSOPVersionRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, userId, ok := identity(c)
	if !ok {
		return
	}

	doc, err := h.svc.CreateSOPVersion(c.Request.Context(), req.DocId, companyId, userId, req.Content)
	back.Result(c, doc, err)
}

// Get 获取单份SOP
//
// 路由: POST /sop/get
func (h *SOPHandler) Get(c *gin.Context) {
	var req sopRequest.GetSOPRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, _, ok := identity(c)
	if !ok {
		return
	}

	doc, err := h.svc.GetSOP(c.Request.Context(), req.DocId, companyId)
	back.Result(c, doc, err)
}

// List SOP列表
//
// 路由: POST /sop/list
func (h *SOPHandler) List(c *gin.Context) {
	var req sopRequest.GetSOPListRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, _, ok := identity(c)
	if !ok {
		return
	}

	docs, err := h.svc.GetSOPList(c.Request.Context(), companyId, req.Limit, req.Offset)
	back.Result(c, docs, err)
}

// Delete 删除SOP
//
// 路由: POST /sop/delete
func (h *SOPHandler) Delete(c *gin.Context) {
	var req sopRequest.DeleteSOPRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, userId, ok := identity(c)
	if !ok {
		return
	}

	isAdmin := c.GetBool("is_admin")
	err := h.svc.DeleteSOP(c.Request.Context(), req.DocId, companyId, userId, isAdmin)
	back.Result(c, nil, err)
}
