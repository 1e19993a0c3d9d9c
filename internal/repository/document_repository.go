package repository

import (
	"errors"

	"github.com/docuscan/docuscan/internal/models"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) CreateDocument(doc *models.Document) error {
	return r.db.Create(doc).Error
}

func (r *DocumentRepository) GetDocumentByID(id uint) (*models.Document, error) {
	var doc models.Document
	err := r.db.First(&doc, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &doc, nil
}

// GetCorpusExcept returns every stored document except the given one, in
// insertion order. This is the comparison corpus for a scan; the snapshot is
// whatever is committed at query time.
func (r *DocumentRepository) GetCorpusExcept(excludeID uint) ([]models.Document, error) {
	var docs []models.Document
	err := r.db.
		Where("id <> ?", excludeID).
		Order("id ASC").
		Find(&docs).Error

	return docs, err
}
