package service

import (
	"context"
	"strings"

	"OpsLink/internal/modules/user/application/dto/request"
	"OpsLink/internal/modules/user/application/dto/respond"
	"OpsLink/internal/modules/user/domain/entity"
	"OpsLink/internal/modules/user/domain/repository"
	"OpsLink/pkg/util"
	"OpsLink/pkg/util/myjwt"
	"OpsLink/pkg/xerr"
	"OpsLink/pkg/zlog"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserInfoService interface {
	Register(ctx context.Context, req request.RegisterRequest) (*respond.AuthRespond, error)
	Login(ctx context.Context, req request.LoginRequest) (*respond.AuthRespond, error)
}

type userInfoServiceImpl struct {
	repo repository.UserInfoRepository
}

func NewUserInfoService(repo repository.UserInfoRepository) UserInfoService {
	return &userInfoServiceImpl{repo: repo}
}

// Register 注册新用户
//
// 首个用户没有company_id时新建租户，注册者即该租户管理员
func (u *userInfoServiceImpl) Register(ctx context.Context, req request.RegisterRequest) (*respond.AuthRespond, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, xerr.ErrParam
	}

	existing, err := u.repo.GetUserInfoByUsername(ctx, username)
	if err != nil {
		zlog.Error("register lookup error", zap.String("username", username), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if existing != nil {
		return nil, xerr.New(xerr.BadRequest, "用户已存在")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		zlog.Error("register hash error", zap.Error(err))
		return nil, xerr.ErrServerError
	}

	companyId := strings.TrimSpace(req.CompanyId)
	isAdmin := int8(0)
	if companyId == "" {
		companyId = util.GenerateID("T")
		isAdmin = 1
	}

	user := &entity.UserInfo{
		Uuid:      util.GenerateID("U"),
		CompanyId: companyId,
		Username:  username,
		Nickname:  req.Nickname,
		Password:  string(hashed),
		IsAdmin:   isAdmin,
		Status:    entity.UserStatusNormal,
	}
	if err := u.repo.CreateUserInfo(ctx, user); err != nil {
		zlog.Error("register create error", zap.Error(err))
		return nil, xerr.ErrServerError
	}

	return u.issueToken(user)
}

// Login 登录并签发JWT
func (u *userInfoServiceImpl) Login(ctx context.Context, req request.LoginRequest) (*respond.AuthRespond, error) {
	username := strings.TrimSpace(req.Username)
	user, err := u.repo.GetUserInfoByUsername(ctx, username)
	if err != nil {
		zlog.Error("login lookup error", zap.String("username", username), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if user == nil || user.Status != entity.UserStatusNormal {
		return nil, xerr.New(xerr.Unauthorized, "用户名或密码错误")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, xerr.New(xerr.Unauthorized, "用户名或密码错误")
	}

	return u.issueToken(user)
}

func (u *userInfoServiceImpl) issueToken(user *entity.UserInfo) (*respond.AuthRespond, error) {
	token, err := myjwt.GenerateToken(user.Uuid, user.Username, user.CompanyId, user.IsAdmin == 1)
	if err != nil {
		zlog.Error("token issue error", zap.Error(err))
		return nil, xerr.ErrServerError
	}

	return &respond.AuthRespond{
		Uuid:      user.Uuid,
		Username:  user.Username,
		Nickname:  user.Nickname,
		CompanyId: user.CompanyId,
		IsAdmin:   user.IsAdmin == 1,
		Token:     token,
	}, nil
}
