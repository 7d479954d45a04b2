package persistence

import (
	"context"
	"strings"
	"time"

	"OpsLink/internal/modules/collab/domain/entity"
	"OpsLink/internal/modules/collab/domain/repository"
	"OpsLink/pkg/util"

	"gorm.io/gorm"
)

type collabSessionRepositoryImpl struct {
	db *gorm.DB
}

func NewCollabSessionRepository(db *gorm.DB) repository.CollabSessionRepository {
	return &collabSessionRepositoryImpl{db: db}
}

func (r *collabSessionRepositoryImpl) CreateSession(ctx context.Context, s *entity.CollabSession) error {
	s.Title = strings.TrimSpace(s.Title)
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *collabSessionRepositoryImpl) GetSessionByID(ctx context.Context, sessionId, companyId string) (*entity.CollabSession, error) {
	sessionId = strings.TrimSpace(sessionId)
	companyId = strings.TrimSpace(companyId)
	if sessionId == "" || companyId == "" {
		return nil, nil
	}

	var s entity.CollabSession
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND company_id = ?", sessionId, companyId).
		Take(&s).Error
	if err == nil {
		return &s, nil
	}
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	return nil, err
}

func (r *collabSessionRepositoryImpl) ListSessions(ctx context.Context, companyId string, limit, offset int) ([]*entity.CollabSession, error) {
	companyId = strings.TrimSpace(companyId)
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var sessions []*entity.CollabSession
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyId).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sessions).Error
	return sessions, err
}

func (r *collabSessionRepositoryImpl) UpdateSession(ctx context.Context, sessionId string, updates map[string]interface{}) error {
	sessionId = strings.TrimSpace(sessionId)
	if sessionId == "" {
		return nil
	}

	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&entity.CollabSession{}).
		Where("session_id = ?", sessionId).
		Updates(updates).Error
}

type collabMessageRepositoryImpl struct {
	db *gorm.DB
}

func NewCollabMessageRepository(db *gorm.DB) repository.CollabMessageRepository {
	return &collabMessageRepositoryImpl{db: db}
}

func (r *collabMessageRepositoryImpl) AppendMessage(ctx context.Context, m *entity.CollabMessage) error {
	if m.MessageId == "" {
		m.MessageId = util.GenerateID("M")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *collabMessageRepositoryImpl) ListMessages(ctx context.Context, sessionId string, limit, offset int) ([]*entity.CollabMessage, error) {
	sessionId = strings.TrimSpace(sessionId)
	if sessionId == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var msgs []*entity.CollabMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionId).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	return msgs, err
}
