package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type NewsletterRepository struct {
	db  *DB
	log *zap.Logger
}

func NewNewsletterRepository(db *DB, log *zap.Logger) ports.NewsletterRepository {
	return &NewsletterRepository{db: db, log: log}
}

func (r *NewsletterRepository) Save(ctx context.Context, n *domain.Newsletter) error {
	return upsert(ctx, r.db.Database.Collection(newslettersCollection), n.ID, n)
}

func (r *NewsletterRepository) FindByID(ctx context.Context, id string) (*domain.Newsletter, error) {
	return r.first(ctx, bson.M{"_id": id})
}

func (r *NewsletterRepository) FindSubscriberByEmail(ctx context.Context, email string) (*domain.Newsletter, error) {
	return r.first(ctx, bson.M{"type": domain.NewsletterTypeSubscriber, "email": domain.NormalizeEmail(email)})
}

func (r *NewsletterRepository) ActiveSubscribers(ctx context.Context, category string) ([]domain.Newsletter, error) {
	f := bson.M{"type": domain.NewsletterTypeSubscriber, "isActive": true}
	if category != "" {
		f["interests"] = category
	}
	return r.find(ctx, f, bson.D{{Key: "subscribedAt", Value: 1}})
}

func (r *NewsletterRepository) List(ctx context.Context, filter domain.NewsletterFilter, q domain.PageQuery) ([]domain.Newsletter, int64, error) {
	f := bson.M{"type": domain.NewsletterTypeNewsletter}
	if filter.Search != "" {
		f["$or"] = bson.A{
			bson.M{"title": contains(filter.Search)},
			bson.M{"content": contains(filter.Search)},
		}
	}
	if filter.Category != "" {
		f["category"] = filter.Category
	}
	if len(filter.Tags) > 0 {
		f["tags"] = bson.M{"$in": filter.Tags}
	}
	if filter.Status != "" {
		f["status"] = filter.Status
	}
	return page[domain.Newsletter](ctx, r.db.Database.Collection(newslettersCollection), f,
		bson.D{{Key: "createdAt", Value: -1}}, q)
}

func (r *NewsletterRepository) DueScheduled(ctx context.Context, now time.Time) ([]domain.Newsletter, error) {
	return r.find(ctx, bson.M{
		"type":          domain.NewsletterTypeNewsletter,
		"status":        domain.NewsletterStatusScheduled,
		"scheduledDate": bson.M{"$lte": now},
	}, bson.D{{Key: "scheduledDate", Value: 1}})
}

func (r *NewsletterRepository) MarkSent(ctx context.Context, id string, sentAt time.Time, recipients int) (bool, error) {
	res, err := r.db.Database.Collection(newslettersCollection).UpdateOne(ctx,
		bson.M{
			"_id":    id,
			"status": bson.M{"$in": bson.A{domain.NewsletterStatusDraft, domain.NewsletterStatusScheduled}},
		},
		bson.M{"$set": bson.M{
			"status":         domain.NewsletterStatusSent,
			"sentAt":         sentAt,
			"recipientCount": recipients,
			"updatedAt":      sentAt,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

func (r *NewsletterRepository) first(ctx context.Context, filter bson.M) (*domain.Newsletter, error) {
	var n domain.Newsletter
	found, err := findOne(ctx, r.db.Database.Collection(newslettersCollection), filter, &n)
	if err != nil || !found {
		return nil, err
	}
	return &n, nil
}

func (r *NewsletterRepository) find(ctx context.Context, filter bson.M, sort bson.D) ([]domain.Newsletter, error) {
	cur, err := r.db.Database.Collection(newslettersCollection).Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	var rows []domain.Newsletter
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
