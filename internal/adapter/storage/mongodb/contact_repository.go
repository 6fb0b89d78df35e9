package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type ContactRepository struct {
	db  *DB
	log *zap.Logger
}

func NewContactRepository(db *DB, log *zap.Logger) ports.ContactRepository {
	return &ContactRepository{db: db, log: log}
}

func (r *ContactRepository) Save(ctx context.Context, contact *domain.Contact) error {
	return upsert(ctx, r.db.Database.Collection(contactsCollection), contact.ID, contact)
}

func (r *ContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	var c domain.Contact
	found, err := findOne(ctx, r.db.Database.Collection(contactsCollection), bson.M{"_id": id}, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) List(ctx context.Context, filter domain.ContactFilter, q domain.PageQuery) ([]domain.Contact, int64, error) {
	f := bson.M{}
	if filter.Status != "" {
		f["status"] = filter.Status
	}
	if filter.Type != "" {
		f["type"] = filter.Type
	}
	if filter.Search != "" {
		f["$or"] = bson.A{
			bson.M{"name": contains(filter.Search)},
			bson.M{"email": contains(filter.Search)},
			bson.M{"message": contains(filter.Search)},
		}
	}
	return page[domain.Contact](ctx, r.db.Database.Collection(contactsCollection), f,
		bson.D{{Key: "createdAt", Value: -1}}, q)
}
