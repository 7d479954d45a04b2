package persistence

import (
	"context"
	"strings"
	"time"

	"OpsLink/internal/modules/sop/domain/entity"
	"OpsLink/internal/modules/sop/domain/repository"

	"gorm.io/gorm"
)

type sopRepositoryImpl struct {
	db *gorm.DB
}

func NewSOPRepository(db *gorm.DB) repository.SOPRepository {
	return &sopRepositoryImpl{db: db}
}

func (r *sopRepositoryImpl) CreateSOP(ctx context.Context, doc *entity.SOPDocument) error {
	doc.Title = strings.TrimSpace(doc.Title)
	doc.Topic = strings.TrimSpace(doc.Topic)
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *sopRepositoryImpl) GetSOPByID(ctx context.Context, docId, companyId string) (*entity.SOPDocument, error) {
	docId = strings.TrimSpace(docId)
	companyId = strings.TrimSpace(companyId)
	if docId == "" || companyId == "" {
		return nil, nil
	}

	var doc entity.SOPDocument
	err := r.db.WithContext(ctx).
		Where("doc_id = ? AND company_id = ?", docId, companyId).
		Take(&doc).Error
	if err == nil {
		return &doc, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *sopRepositoryImpl) ListSOPs(ctx context.Context, companyId string, limit, offset int) ([]*entity.SOPDocument, error) {
	companyId = strings.TrimSpace(companyId)
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var docs []*entity.SOPDocument
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyId).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	return docs, err
}

func (r *sopRepositoryImpl) UpdateSOP(ctx context.Context, docId string, updates map[string]interface{}) error {
	docId = strings.TrimSpace(docId)
	if docId == "" {
		return nil
	}

	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&entity.SOPDocument{}).
		Where("doc_id = ?", docId).
		Updates(updates).Error
}

func (r *sopRepositoryImpl) DeleteSOP(ctx context.Context, docId string) error {
	docId = strings.TrimSpace(docId)
	if docId == "" {
		return nil
	}

	return r.db.WithContext(ctx).
		Where("doc_id = ?", docId).
		Delete(&entity.SOPDocument{}).Error
}
