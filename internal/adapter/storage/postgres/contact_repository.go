package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type ContactRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewContactRepository(db *gorm.DB, log *zap.Logger) ports.ContactRepository {
	return &ContactRepository{db: db, log: log}
}

func (r *ContactRepository) Save(ctx context.Context, contact *domain.Contact) error {
	return translate(r.db.WithContext(ctx).Save(contact).Error)
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	var contact domain.Contact
	err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) List(ctx context.Context, filter domain.ContactFilter, page domain.PageQuery) ([]domain.Contact, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&domain.Contact{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("name ILIKE ? ESCAPE '\\' OR email ILIKE ? ESCAPE '\\' OR message ILIKE ? ESCAPE '\\'", p, p, p)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []domain.Contact
	err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}
