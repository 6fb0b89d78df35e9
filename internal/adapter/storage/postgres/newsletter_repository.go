package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type NewsletterRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewNewsletterRepository(db *gorm.DB, log *zap.Logger) ports.NewsletterRepository {
	return &NewsletterRepository{db: db, log: log}
}

func (r *NewsletterRepository) Save(ctx context.Context, n *domain.Newsletter) error {
	return translate(r.db.WithContext(ctx).Save(n).Error)
}

func (r *NewsletterRepository) FindByID(ctx context.Context, id string) (*domain.Newsletter, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *NewsletterRepository) FindSubscriberByEmail(ctx context.Context, email string) (*domain.Newsletter, error) {
	return r.first(ctx, "type = ? AND email = ?", domain.NewsletterTypeSubscriber, domain.NormalizeEmail(email))
}

func (r *NewsletterRepository) ActiveSubscribers(ctx context.Context, category string) ([]domain.Newsletter, error) {
	q := r.db.WithContext(ctx).
		Where("type = ? AND is_active = ?", domain.NewsletterTypeSubscriber, true)
	if category != "" {
		q = q.Where("? = ANY(interests)", category)
	}

	var subs []domain.Newsletter
	if err := q.Order("subscribed_at ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *NewsletterRepository) List(ctx context.Context, filter domain.NewsletterFilter, page domain.PageQuery) ([]domain.Newsletter, int64, error) {
	page = page.Normalize()
	q := r.db.WithContext(ctx).Model(&domain.Newsletter{}).
		Where("type = ?", domain.NewsletterTypeNewsletter)
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("title ILIKE ? ESCAPE '\\' OR content ILIKE ? ESCAPE '\\'", p, p)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if len(filter.Tags) > 0 {
		q = q.Where("tags && ?", pq.StringArray(filter.Tags))
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Newsletter
	err := q.Order("created_at DESC").Offset(page.Offset()).Limit(page.Limit).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *NewsletterRepository) DueScheduled(ctx context.Context, now time.Time) ([]domain.Newsletter, error) {
	var rows []domain.Newsletter
	err := r.db.WithContext(ctx).
		Where("type = ? AND status = ? AND scheduled_date <= ?",
			domain.NewsletterTypeNewsletter, domain.NewsletterStatusScheduled, now).
		Order("scheduled_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *NewsletterRepository) MarkSent(ctx context.Context, id string, sentAt time.Time, recipients int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.Newsletter{}).
		Where("id = ? AND status IN ?", id, []domain.NewsletterStatus{
			domain.NewsletterStatusDraft, domain.NewsletterStatusScheduled,
		}).
		Updates(map[string]interface{}{
			"status":          domain.NewsletterStatusSent,
			"sent_at":         sentAt,
			"recipient_count": recipients,
			"updated_at":      sentAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *NewsletterRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.Newsletter, error) {
	var n domain.Newsletter
	err := r.db.WithContext(ctx).Where(query, args...).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}
