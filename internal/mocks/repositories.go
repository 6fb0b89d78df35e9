package mocks

import (
	"context"
	"time"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc             func(ctx context.Context, user *domain.User) error
	FindByIDFunc         func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc      func(ctx context.Context, email string) (*domain.User, error)
	FindByUsernameFunc   func(ctx context.Context, username string) (*domain.User, error)
	FindByResetTokenFunc func(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	ListFunc             func(ctx context.Context, filter ports.UserFilter, page domain.PageQuery) ([]domain.User, int64, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	if m.FindByResetTokenFunc != nil {
		return m.FindByResetTokenFunc(ctx, tokenHash, now)
	}
	return nil, nil
}

func (m *MockUserRepository) List(ctx context.Context, filter ports.UserFilter, page domain.PageQuery) ([]domain.User, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, page)
	}
	return nil, 0, nil
}

// MockEventRepository is a mock implementation of EventRepository
type MockEventRepository struct {
	SaveFunc     func(ctx context.Context, event *domain.Event) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Event, error)
	ListFunc     func(ctx context.Context, filter domain.EventFilter, page domain.PageQuery) ([]domain.Event, int64, error)
	DeleteFunc   func(ctx context.Context, id string) error
}

func (m *MockEventRepository) Save(ctx context.Context, event *domain.Event) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, event)
	}
	return nil
}

func (m *MockEventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockEventRepository) List(ctx context.Context, filter domain.EventFilter, page domain.PageQuery) ([]domain.Event, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, page)
	}
	return nil, 0, nil
}

func (m *MockEventRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockContactRepository is a mock implementation of ContactRepository
type MockContactRepository struct {
	SaveFunc     func(ctx context.Context, contact *domain.Contact) error
	FindByIDFunc func(ctx context.Context, id string) (*domain.Contact, error)
	ListFunc     func(ctx context.Context, filter domain.ContactFilter, page domain.PageQuery) ([]domain.Contact, int64, error)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *domain.Contact) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, contact)
	}
	return nil
}

func (m *MockContactRepository) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockContactRepository) List(ctx context.Context, filter domain.ContactFilter, page domain.PageQuery) ([]domain.Contact, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, page)
	}
	return nil, 0, nil
}

// MockNewsletterRepository is a mock implementation of NewsletterRepository
type MockNewsletterRepository struct {
	SaveFunc                  func(ctx context.Context, n *domain.Newsletter) error
	FindByIDFunc              func(ctx context.Context, id string) (*domain.Newsletter, error)
	FindSubscriberByEmailFunc func(ctx context.Context, email string) (*domain.Newsletter, error)
	ActiveSubscribersFunc     func(ctx context.Context, category string) ([]domain.Newsletter, error)
	ListFunc                  func(ctx context.Context, filter domain.NewsletterFilter, page domain.PageQuery) ([]domain.Newsletter, int64, error)
	DueScheduledFunc          func(ctx context.Context, now time.Time) ([]domain.Newsletter, error)
	MarkSentFunc              func(ctx context.Context, id string, sentAt time.Time, recipients int) (bool, error)
}

func (m *MockNewsletterRepository) Save(ctx context.Context, n *domain.Newsletter) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, n)
	}
	return nil
}

func (m *MockNewsletterRepository) FindByID(ctx context.Context, id string) (*domain.Newsletter, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockNewsletterRepository) FindSubscriberByEmail(ctx context.Context, email string) (*domain.Newsletter, error) {
	if m.FindSubscriberByEmailFunc != nil {
		return m.FindSubscriberByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockNewsletterRepository) ActiveSubscribers(ctx context.Context, category string) ([]domain.Newsletter, error) {
	if m.ActiveSubscribersFunc != nil {
		return m.ActiveSubscribersFunc(ctx, category)
	}
	return nil, nil
}

func (m *MockNewsletterRepository) List(ctx context.Context, filter domain.NewsletterFilter, page domain.PageQuery) ([]domain.Newsletter, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter, page)
	}
	return nil, 0, nil
}

func (m *MockNewsletterRepository) DueScheduled(ctx context.Context, now time.Time) ([]domain.Newsletter, error) {
	if m.DueScheduledFunc != nil {
		return m.DueScheduledFunc(ctx, now)
	}
	return nil, nil
}

func (m *MockNewsletterRepository) MarkSent(ctx context.Context, id string, sentAt time.Time, recipients int) (bool, error) {
	if m.MarkSentFunc != nil {
		return m.MarkSentFunc(ctx, id, sentAt, recipients)
	}
	return true, nil
}

var (
	_ ports.UserRepository       = (*MockUserRepository)(nil)
	_ ports.EventRepository      = (*MockEventRepository)(nil)
	_ ports.ContactRepository    = (*MockContactRepository)(nil)
	_ ports.NewsletterRepository = (*MockNewsletterRepository)(nil)
)
