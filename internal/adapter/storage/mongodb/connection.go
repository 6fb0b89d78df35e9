package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/pkg/config"
)

const (
	usersCollection       = "users"
	eventsCollection      = "events"
	contactsCollection    = "contacts"
	newslettersCollection = "newsletters"
)

// DB wraps the mongo client and the application database.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	Log      *zap.Logger
}

// NewConnection connects to MongoDB and verifies the server answers.
func NewConnection(cfg config.MongoConfig, log *zap.Logger) (*DB, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	log.Info("MongoDB connected", zap.String("database", cfg.Database))
	return &DB{Client: client, Database: client.Database(cfg.Database), Log: log}, nil
}

// EnsureIndexes creates the unique indexes backing email and username
// uniqueness.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		eventsCollection: {
			{Keys: bson.D{{Key: "startDate", Value: 1}}},
		},
		contactsCollection: {
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		newslettersCollection: {
			{
				Keys: bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).
					SetPartialFilterExpression(bson.M{"type": domain.NewsletterTypeSubscriber}),
			},
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduledDate", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, nil)
}

func (db *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────────

func translate(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.Conflict("Record already exists")
	}
	return err
}

func contains(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

// findOne decodes the first match into out, reporting false when none exists.
func findOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}) (bool, error) {
	err := coll.FindOne(ctx, filter).Decode(out)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func upsert(ctx context.Context, coll *mongo.Collection, id string, doc interface{}) error {
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return translate(err)
}

// page runs a counted, sorted, paginated find.
func page[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, sort bson.D, q domain.PageQuery) ([]T, int64, error) {
	q = q.Normalize()
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(q.Offset())).
		SetLimit(int64(q.Limit))
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	items := make([]T, 0, q.Limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
