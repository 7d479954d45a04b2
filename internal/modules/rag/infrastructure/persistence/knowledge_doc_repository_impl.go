package persistence

import (
	"context"
	"strings"
	"time"

	"OpsLink/internal/modules/rag/domain/entity"
	"OpsLink/internal/modules/rag/domain/repository"

	"gorm.io/gorm"
)

type knowledgeDocRepositoryImpl struct {
	db *gorm.DB
}

func NewKnowledgeDocRepository(db *gorm.DB) repository.KnowledgeDocRepository {
	return &knowledgeDocRepositoryImpl{db: db}
}

func (r *knowledgeDocRepositoryImpl) CreateDoc(ctx context.Context, doc *entity.KnowledgeDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *knowledgeDocRepositoryImpl) GetDocByID(ctx context.Context, docId, companyId string) (*entity.KnowledgeDocument, error) {
	docId = strings.TrimSpace(docId)
	companyId = strings.TrimSpace(companyId)
	if docId == "" || companyId == "" {
		return nil, nil
	}

	var doc entity.KnowledgeDocument
	err := r.db.WithContext(ctx).
		Where("doc_id = ? AND company_id = ? AND status = ?", docId, companyId, entity.DocStatusActive).
		Take(&doc).Error
	if err == nil {
		return &doc, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *knowledgeDocRepositoryImpl) ListDocs(ctx context.Context, companyId string, limit, offset int) ([]*entity.KnowledgeDocument, error) {
	companyId = strings.TrimSpace(companyId)
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var docs []*entity.KnowledgeDocument
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyId, entity.DocStatusActive).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&docs).Error
	return docs, err
}

func (r *knowledgeDocRepositoryImpl) DeleteDoc(ctx context.Context, docId, companyId string) error {
	docId = strings.TrimSpace(docId)
	companyId = strings.TrimSpace(companyId)
	if docId == "" || companyId == "" {
		return nil
	}

	return r.db.WithContext(ctx).Model(&entity.KnowledgeDocument{}).
		Where("doc_id = ? AND company_id = ?", docId, companyId).
		Updates(map[string]interface{}{
			"status":     entity.DocStatusDeleted,
			"updated_at": time.Now(),
		}).Error
}
