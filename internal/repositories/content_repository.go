package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"docsync/internal/apperr"
	"docsync/internal/models"
)

type ContentRepository interface {
	Create(ctx context.Context, content *models.DocumentContent) error
	Get(ctx context.Context, documentID, version string) (*models.DocumentContent, error)
	ListVersions(ctx context.Context, documentID string) ([]*models.DocumentContent, error)
	GetMany(ctx context.Context, versions []string) ([]*models.DocumentContent, error)
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, content *models.DocumentContent) error {
	if content.Version == "" {
		content.Version = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(content).Error; err != nil {
		return apperr.Persistence(fmt.Sprintf("creating content for %s", content.DocumentID), err)
	}
	return nil
}

func (r *contentRepository) Get(ctx context.Context, documentID, version string) (*models.DocumentContent, error) {
	var content models.DocumentContent
	err := r.db.WithContext(ctx).
		Where("document_id = ? AND version = ?", documentID, version).
		First(&content).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("version", documentID+"@"+version)
		}
		return nil, apperr.Persistence(fmt.Sprintf("getting version %s of %s", version, documentID), err)
	}
	return &content, nil
}

func (r *contentRepository) ListVersions(ctx context.Context, documentID string) ([]*models.DocumentContent, error) {
	var list []*models.DocumentContent
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, apperr.Persistence(fmt.Sprintf("listing versions of %s", documentID), err)
	}
	return list, nil
}

func (r *contentRepository) GetMany(ctx context.Context, versions []string) ([]*models.DocumentContent, error) {
	if len(versions) == 0 {
		return nil, nil
	}
	var list []*models.DocumentContent
	if err := r.db.WithContext(ctx).Where("version IN ?", versions).Find(&list).Error; err != nil {
		return nil, apperr.Persistence("loading document contents", err)
	}
	return list, nil
}
