package entity

import "time"

// UserInfo 平台用户
type UserInfo struct {
	Id        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	Uuid      string    `gorm:"type:char(20);uniqueIndex;not null" json:"uuid"`
	CompanyId string    `gorm:"type:char(20);index;not null" json:"company_id"`
	Username  string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Nickname  string    `gorm:"type:varchar(64)" json:"nickname"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	IsAdmin   int8      `gorm:"not null;default:0" json:"is_admin"`
	Status    int8      `gorm:"not null;default:0" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UserInfo) TableName() string {
	return "user_info"
}

// 用户状态
const (
	UserStatusNormal   int8 = 0
	UserStatusDisabled int8 = 1
)
