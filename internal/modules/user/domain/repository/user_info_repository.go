package repository

import (
	"context"

	"OpsLink/internal/modules/user/domain/entity"
)

// UserInfoRepository 用户仓储接口
type UserInfoRepository interface {
	CreateUserInfo(ctx context.Context, user *entity.UserInfo) error
	GetUserInfoByUsername(ctx context.Context, username string) (*entity.UserInfo, error)
	GetUserInfoByUUID(ctx context.Context, uuid string) (*entity.UserInfo, error)
}
