package entity

import (
	"time"
)

const (
	DocStatusActive  int8 = 1
	DocStatusDeleted int8 = 0
)

// KnowledgeDocument 内部文档存储表（RAG 的 internal 源）
type KnowledgeDocument struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DocId     string    `gorm:"column:doc_id;type:char(20);uniqueIndex;not null"`
	CompanyId string    `gorm:"column:company_id;type:char(20);not null;index:idx_knowledge_doc_company"`
	Title     string    `gorm:"column:title;type:varchar(255);not null"`
	Content   string    `gorm:"column:content;type:mediumtext"`
	URL       string    `gorm:"column:url;type:varchar(512)"`
	Status    int8      `gorm:"column:status;type:tinyint;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:datetime;not null"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_document"
}
