package ports

import (
	"context"
	"time"

	"github.com/seu-repo/ateleslie-api/internal/domain"
)

// Repositories return (nil, nil) when a single record is not found.

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	List(ctx context.Context, filter UserFilter, page domain.PageQuery) ([]domain.User, int64, error)
}

type UserFilter struct {
	Roles  []domain.Role
	Search string
}

type EventRepository interface {
	Save(ctx context.Context, event *domain.Event) error
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter domain.EventFilter, page domain.PageQuery) ([]domain.Event, int64, error)
	Delete(ctx context.Context, id string) error
}

type ContactRepository interface {
	Save(ctx context.Context, contact *domain.Contact) error
	FindByID(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, filter domain.ContactFilter, page domain.PageQuery) ([]domain.Contact, int64, error)
}

type NewsletterRepository interface {
	Save(ctx context.Context, n *domain.Newsletter) error
	FindByID(ctx context.Context, id string) (*domain.Newsletter, error)
	FindSubscriberByEmail(ctx context.Context, email string) (*domain.Newsletter, error)
	// ActiveSubscribers lists active subscriber rows, narrowed to those
	// interested in category when it is non-empty.
	ActiveSubscribers(ctx context.Context, category string) ([]domain.Newsletter, error)
	List(ctx context.Context, filter domain.NewsletterFilter, page domain.PageQuery) ([]domain.Newsletter, int64, error)
	// DueScheduled lists content rows scheduled at or before now.
	DueScheduled(ctx context.Context, now time.Time) ([]domain.Newsletter, error)
	// MarkSent flips a draft or scheduled row to sent. It reports false when
	// another caller already claimed it.
	MarkSent(ctx context.Context, id string, sentAt time.Time, recipients int) (bool, error)
}
