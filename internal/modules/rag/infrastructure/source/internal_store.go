package source

import (
	"context"
	"strings"

	"OpsLink/internal/modules/rag/domain/entity"
	domain "OpsLink/internal/modules/rag/domain/source"

	"gorm.io/gorm"
)

const internalSearchLimit = 100

// internalStore 内部文档库源（gorm 直查，空查询走 list-all 路径）
type internalStore struct {
	db *gorm.DB
}

func NewInternalStore(db *gorm.DB) domain.Source {
	return &internalStore{db: db}
}

func (s *internalStore) Name() string {
	return domain.SourceInternal
}

func (s *internalStore) Search(ctx context.Context, companyId, query string) ([]domain.Item, error) {
	companyId = strings.TrimSpace(companyId)
	if companyId == "" {
		return nil, nil
	}

	q := s.db.WithContext(ctx).
		Where("company_id = ? AND status = ?", companyId, entity.DocStatusActive)

	query = strings.TrimSpace(query)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("(title LIKE ? OR content LIKE ?)", like, like)
	}

	var docs []*entity.KnowledgeDocument
	if err := q.Order("updated_at DESC").Limit(internalSearchLimit).Find(&docs).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Item, 0, len(docs))
	for _, d := range docs {
		updated := d.UpdatedAt
		out = append(out, domain.Item{
			Id:           d.DocId,
			Title:        d.Title,
			Content:      d.Content,
			URL:          d.URL,
			LastModified: &updated,
		})
	}
	return out, nil
}
