package persistence

import (
	"context"
	"strings"

	"OpsLink/internal/modules/user/domain/entity"
	"OpsLink/internal/modules/user/domain/repository"

	"gorm.io/gorm"
)

type userInfoRepositoryImpl struct {
	db *gorm.DB
}

func NewUserInfoRepository(db *gorm.DB) repository.UserInfoRepository {
	return &userInfoRepositoryImpl{db: db}
}

func (r *userInfoRepositoryImpl) CreateUserInfo(ctx context.Context, user *entity.UserInfo) error {
	user.Username = strings.TrimSpace(user.Username)
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userInfoRepositoryImpl) GetUserInfoByUsername(ctx context.Context, username string) (*entity.UserInfo, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}

	var user entity.UserInfo
	err := r.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if err == nil {
		return &user, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *userInfoRepositoryImpl) GetUserInfoByUUID(ctx context.Context, uuid string) (*entity.UserInfo, error) {
	uuid = strings.TrimSpace(uuid)
	if uuid == "" {
		return nil, nil
	}

	var user entity.UserInfo
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).Take(&user).Error
	if err == nil {
		return &user, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}
