package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type EventRepository struct {
	db  *DB
	log *zap.Logger
}

func NewEventRepository(db *DB, log *zap.Logger) ports.EventRepository {
	return &EventRepository{db: db, log: log}
}

func (r *EventRepository) Save(ctx context.Context, event *domain.Event) error {
	return upsert(ctx, r.db.Database.Collection(eventsCollection), event.ID, event)
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	found, err := findOne(ctx, r.db.Database.Collection(eventsCollection), bson.M{"_id": id}, &e)
	if err != nil || !found {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) List(ctx context.Context, filter domain.EventFilter, q domain.PageQuery) ([]domain.Event, int64, error) {
	f := bson.M{}
	if filter.Search != "" {
		f["$or"] = bson.A{
			bson.M{"title": contains(filter.Search)},
			bson.M{"description": contains(filter.Search)},
		}
	}
	if filter.Category != "" {
		f["category"] = filter.Category
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		rng := bson.M{}
		if filter.StartDate != nil {
			rng["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			rng["$lte"] = *filter.EndDate
		}
		f["startDate"] = rng
	}
	return page[domain.Event](ctx, r.db.Database.Collection(eventsCollection), f,
		bson.D{{Key: "startDate", Value: 1}}, q)
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Database.Collection(eventsCollection).DeleteOne(ctx, bson.M{"_id": id})
	return err
}
