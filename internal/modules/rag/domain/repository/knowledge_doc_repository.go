package repository

import (
	"context"

	"OpsLink/internal/modules/rag/domain/entity"
)

// KnowledgeDocRepository 内部文档仓储接口
type KnowledgeDocRepository interface {
	CreateDoc(ctx context.Context, doc *entity.KnowledgeDocument) error

	// GetDocByID 未命中返回 nil, nil
	GetDocByID(ctx context.Context, docId, companyId string) (*entity.KnowledgeDocument, error)

	ListDocs(ctx context.Context, companyId string, limit, offset int) ([]*entity.KnowledgeDocument, error)

	DeleteDoc(ctx context.Context, docId, companyId string) error
}
