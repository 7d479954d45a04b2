package repository

import (
	"context"

	"OpsLink/internal/modules/sop/domain/entity"
)

// SOPRepository SOP文档仓储接口
type SOPRepository interface {
	CreateSOP(ctx context.Context, doc *entity.SOPDocument) error
	GetSOPByID(ctx context.Context, docId, companyId string) (*entity.SOPDocument, error)
	ListSOPs(ctx context.Context, companyId string, limit, offset int) ([]*entity.SOPDocument, error)
	UpdateSOP(ctx context.Context, docId string, updates map[string]interface{}) error
	DeleteSOP(ctx context.Context, docId string) error
}
