package http

import (
	"strings"

	collabRequest "OpsLink/internal/modules/collab/application/dto/request"
	"OpsLink/internal/modules/collab/application/service"
	"OpsLink/pkg/back"
	"OpsLink/pkg/xerr"
	"OpsLink/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CollabHandler 协作会话与会议模式的HTTP Handler
type CollabHandler struct {
	svc service.MeetingService
}

func NewCollabHandler(svc service.MeetingService) *CollabHandler {
	return &CollabHandler{svc: svc}
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

// CreateSession 创建协作会话
//
// 路由: POST /collab/createSession
func (h *CollabHandler) CreateSession(c *gin.Context) {
	var req collabRequest.CreateSessionRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("collab create bind error", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, userId, ok := identity(c)
	if !ok {
		return
	}

	session, err := h.svc.CreateSession(c.Request.Context(), companyId, userId, req.Title, req.Participants)
	back.Result(c, session, err)
}

// GetSessionList 会话列表
//
// 路由: POST /collab/getSessionList
func (h *CollabHandler) GetSessionList(c *gin.Context) {
	var req collabRequest.GetSessionListRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, _, ok := identity(c)
	if !ok {
		return
	}

	sessions, err := h.svc.GetSessionList(c.Request.Context(), companyId, req.Limit, req.Offset)
	back.Result(c, sessions, err)
}

// StartMeeting 开启会议模式
//
// 路由: POST /collab/startMeeting
func (h *CollabHandler) StartMeeting(c *gin.Context) {
	var req collabRequest.SessionActionRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, _, ok := identity(c)
	if !ok {
		return
	}

	state, err := h.svc.StartMeetingMode(c.Request.Context(), req.SessionId, companyId)
	back.Result(c, state, err)
}

// NextTurn 轮转发言
//
// 路由: POST /collab/nextTurn
func (h *CollabHandler) NextTurn(c *gin.Context) {
	var req collabRequest.SessionActionRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, _, ok := identity(c)
	if !ok {
		return
	}

	state, err := h.svc.NextMeetingTurn(c.Request.Context(), req.SessionId, companyId)
	back.Result(c, state, err)
}

// EndMeeting 结束会议模式
//
// 路由: POST /collab/endMeeting
func (h *CollabHandler) EndMeeting(c *gin.Context) {
	var req collabRequest.SessionActionRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, _, ok := identity(c)
	if !ok {
		return
	}

	err := h.svc.EndMeetingMode(c.Request.Context(), req.SessionId, companyId)
	back.Result(c, nil, err)
}

// GetMessages 获取转写记录
//
// 路由: POST /collab/getMessages
func (h *CollabHandler) GetMessages(c *gin.Context) {
	var req collabRequest.GetMessagesRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId, _, ok := identity(c)
	if !ok {
		return
	}

	msgs, err := h.svc.GetMessages(c.Request.Context(), req.SessionId, companyId, req.Limit, req.Offset)
	back.Result(c, msgs, err)
}
