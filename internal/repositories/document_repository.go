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

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	Get(ctx context.Context, id string) (*models.Document, error)
	List(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error)
	Roots(ctx context.Context, isAPIRef *bool) ([]*models.Document, error)
	Children(ctx context.Context, parentID string) ([]*models.Document, error)
	Parents(ctx context.Context, id string) ([]*models.Document, error)
	Update(ctx context.Context, id string, fields map[string]any) (*models.Document, error)
	SetCurrentVersion(ctx context.Context, id, version string) error
	SoftDelete(ctx context.Context, id string) (bool, error)
	ListPaths(ctx context.Context, isAPIRef bool) ([]models.PathEntry, error)
}

type documentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(doc).Error; err != nil {
		return apperr.Persistence("creating document", err)
	}
	return nil
}

func (r *documentRepository) Get(ctx context.Context, id string) (*models.Document, error) {
	var doc models.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("document", id)
		}
		return nil, apperr.Persistence(fmt.Sprintf("getting document %s", id), err)
	}
	return &doc, nil
}

func (r *documentRepository) List(ctx context.Context, filter models.DocumentFilter) ([]*models.Document, error) {
	q := r.db.WithContext(ctx).Model(&models.Document{})
	if filter.IsDeleted != nil {
		q = q.Where("is_deleted = ?", *filter.IsDeleted)
	}
	if filter.IsAPIRef != nil {
		q = q.Where("is_api_ref = ?", *filter.IsAPIRef)
	}
	if filter.ParentID != nil {
		q = q.Where("parent_id = ?", *filter.ParentID)
	}
	var list []*models.Document
	if err := q.Order("path").Find(&list).Error; err != nil {
		return nil, apperr.Persistence("listing documents", err)
	}
	return list, nil
}

func (r *documentRepository) Roots(ctx context.Context, isAPIRef *bool) ([]*models.Document, error) {
	q := r.db.WithContext(ctx).Where("parent_id IS NULL AND is_deleted = ?", false)
	if isAPIRef != nil {
		q = q.Where("is_api_ref = ?", *isAPIRef)
	}
	var list []*models.Document
	if err := q.Order("path").Find(&list).Error; err != nil {
		return nil, apperr.Persistence("listing root documents", err)
	}
	return list, nil
}

func (r *documentRepository) Children(ctx context.Context, parentID string) ([]*models.Document, error) {
	var list []*models.Document
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND is_deleted = ?", parentID, false).
		Order("path").
		Find(&list).Error
	if err != nil {
		return nil, apperr.Persistence(fmt.Sprintf("listing children of %s", parentID), err)
	}
	return list, nil
}

// Parents returns the ancestors of id, root first.
func (r *documentRepository) Parents(ctx context.Context, id string) ([]*models.Document, error) {
	doc, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var lineage []*models.Document
	seen := map[string]bool{doc.ID: true}
	for doc.ParentID != nil && !seen[*doc.ParentID] {
		seen[*doc.ParentID] = true
		parent, err := r.Get(ctx, *doc.ParentID)
		if err != nil {
			if apperr.IsNotFound(err) {
				break
			}
			return nil, err
		}
		lineage = append([]*models.Document{parent}, lineage...)
		doc = parent
	}
	return lineage, nil
}

func (r *documentRepository) Update(ctx context.Context, id string, fields map[string]any) (*models.Document, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		err := r.db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", id).Updates(fields).Error
		if err != nil {
			return nil, apperr.Persistence(fmt.Sprintf("updating document %s", id), err)
		}
	}
	return r.Get(ctx, id)
}

func (r *documentRepository) SetCurrentVersion(ctx context.Context, id, version string) error {
	res := r.db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", id).Update("current_version_id", version)
	if res.Error != nil {
		return apperr.Persistence(fmt.Sprintf("setting current version of %s", id), res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("document", id)
	}
	return nil
}

// SoftDelete flags the document as deleted. It reports false when nothing changed.
func (r *documentRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return false, apperr.Persistence(fmt.Sprintf("deleting document %s", id), res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *documentRepository) ListPaths(ctx context.Context, isAPIRef bool) ([]models.PathEntry, error) {
	var entries []models.PathEntry
	err := r.db.WithContext(ctx).Model(&models.Document{}).
		Select("id AS document_id, name, path, parent_id").
		Where("is_api_ref = ? AND is_deleted = ?", isAPIRef, false).
		Order("path").
		Scan(&entries).Error
	if err != nil {
		return nil, apperr.Persistence("listing document paths", err)
	}
	return entries, nil
}
