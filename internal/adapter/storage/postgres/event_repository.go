package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type EventRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewEventRepository(db *gorm.DB, log *zap.Logger) ports.EventRepository {
	return &EventRepository{db: db, log: log}
}

func (r *EventRepository) Save(ctx context.Context, event *domain.Event) error {
	return translate(r.db.WithContext(ctx).Save(event).Error)
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	var event domain.Event
	err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) List(ctx context.Context, filter domain.EventFilter, page domain.PageQuery) ([]domain.Event, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&domain.Event{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("title ILIKE ? ESCAPE '\\' OR description ILIKE ? ESCAPE '\\'", p, p)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.StartDate != nil {
		q = q.Where("start_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("start_date <= ?", *filter.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []domain.Event
	err := q.Order("start_date ASC").Offset(page.Offset()).Limit(page.Limit).Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Event{}, "id = ?", id).Error
}
