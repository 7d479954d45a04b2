package service

import (
	"context"
	"strings"
	"time"

	"OpsLink/internal/modules/rag/domain/entity"
	"OpsLink/internal/modules/rag/domain/repository"
	"OpsLink/pkg/util"
	"OpsLink/pkg/xerr"
	"OpsLink/pkg/zlog"
)

// DocumentService 内部文档库的维护入口（internal 源的数据来源）
type DocumentService interface {
	CreateDocument(ctx context.Context, companyId, title, content, url string) (*entity.KnowledgeDocument, error)
	GetDocumentList(ctx context.Context, companyId string, limit, offset int) ([]*entity.KnowledgeDocument, error)
	DeleteDocument(ctx context.Context, docId, companyId string) error
}

type documentServiceImpl struct {
	docRepo repository.KnowledgeDocRepository
}

func NewDocumentService(docRepo repository.KnowledgeDocRepository) DocumentService {
	return &documentServiceImpl{docRepo: docRepo}
}

func (s *documentServiceImpl) CreateDocument(ctx context.Context, companyId, title, content, url string) (*entity.KnowledgeDocument, error) {
	companyId = strings.TrimSpace(companyId)
	title = strings.TrimSpace(title)
	if companyId == "" || title == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	now := time.Now()
	doc := &entity.KnowledgeDocument{
		DocId:     util.GenerateID("D"),
		CompanyId: companyId,
		Title:     title,
		Content:   content,
		URL:       strings.TrimSpace(url),
		Status:    entity.DocStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.docRepo.CreateDoc(ctx, doc); err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return doc, nil
}

func (s *documentServiceImpl) GetDocumentList(ctx context.Context, companyId string, limit, offset int) ([]*entity.KnowledgeDocument, error) {
	docs, err := s.docRepo.ListDocs(ctx, companyId, limit, offset)
	if err != nil {
		zlog.Error(err.Error())
		return nil, xerr.ErrServerError
	}
	return docs, nil
}

func (s *documentServiceImpl) DeleteDocument(ctx context.Context, docId, companyId string) error {
	if err := s.docRepo.DeleteDoc(ctx, docId, companyId); err != nil {
		zlog.Error(err.Error())
		return xerr.ErrServerError
	}
	return nil
}
