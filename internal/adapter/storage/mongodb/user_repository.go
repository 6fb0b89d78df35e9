package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type UserRepository struct {
	db  *DB
	log *zap.Logger
}

func NewUserRepository(db *DB, log *zap.Logger) ports.UserRepository {
	return &UserRepository{db: db, log: log}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	return upsert(ctx, r.db.Database.Collection(usersCollection), user.ID, user)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, bson.M{"username": username})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	return r.first(ctx, bson.M{
		"resetPasswordToken":   tokenHash,
		"resetPasswordExpires": bson.M{"$gt": now},
	})
}

func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter, q domain.PageQuery) ([]domain.User, int64, error) {
	f := bson.M{}
	if len(filter.Roles) > 0 {
		f["role"] = bson.M{"$in": filter.Roles}
	}
	if filter.Search != "" {
		f["$or"] = bson.A{
			bson.M{"username": contains(filter.Search)},
			bson.M{"email": contains(filter.Search)},
		}
	}
	return page[domain.User](ctx, r.db.Database.Collection(usersCollection), f,
		bson.D{{Key: "createdAt", Value: -1}}, q)
}

func (r *UserRepository) first(ctx context.Context, filter bson.M) (*domain.User, error) {
	var u domain.User
	found, err := findOne(ctx, r.db.Database.Collection(usersCollection), filter, &u)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}
