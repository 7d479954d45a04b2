package http

import (
	userRequest "OpsLink/internal/modules/user/application/dto/request"
	"OpsLink/internal/modules/user/application/service"
	"OpsLink/pkg/back"
	"OpsLink/pkg/xerr"
	"OpsLink/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserInfoHandler 注册/登录
type UserInfoHandler struct {
	svc service.UserInfoService
}

func NewUserInfoHandler(svc service.UserInfoService) *UserInfoHandler {
	return &UserInfoHandler{svc: svc}
}

// Register 注册
//
// 路由: POST /register
func (h *UserInfoHandler) Register(c *gin.Context) {
	var req userRequest.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("register bind error", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Register(c.Request.Context(), req)
	back.Result(c, data, err)
}

// Login 登录
//
// 路由: POST /login
func (h *UserInfoHandler) Login(c *gin.Context) {
	var req userRequest.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("login bind error", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	data, err := h.svc.Login(c.Request.Context(), req)
	back.Result(c, data, err)
}
