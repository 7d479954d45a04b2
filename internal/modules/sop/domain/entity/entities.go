package entity

import "time"

// SOPDocument 标准作业程序文档
type SOPDocument struct {
	Id          int64      `gorm:"primaryKey;autoIncrement" json:"-"`
	DocId       string     `gorm:"type:char(20);uniqueIndex;not null" json:"doc_id"`
	CompanyId   string     `gorm:"type:char(20);index;not null" json:"company_id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Version     string     `gorm:"type:varchar(16);not null;default:'1.0'" json:"version"`
	Content     string     `gorm:"type:longtext" json:"content"`
	Audience    string     `gorm:"type:varchar(32);not null" json:"audience"`
	Topic       string     `gorm:"type:varchar(255);not null" json:"topic"`
	Status      string     `gorm:"type:varchar(32);not null;default:'draft'" json:"status"`
	CreatedBy   string     `gorm:"type:char(20);not null" json:"created_by"`
	ApprovedBy  string     `gorm:"type:char(20)" json:"approved_by"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (SOPDocument) TableName() string {
	return "sop_document"
}

// 文档状态
const (
	SOPStatusDraft           = "draft"
	SOPStatusPendingApproval = "pending_approval"
	SOPStatusApproved        = "approved"
	SOPStatusPublished       = "published"
)

// 目标受众
const (
	AudienceEmployee = "employee"
	AudienceClient   = "client"
	AudienceAgent    = "agent"
)
