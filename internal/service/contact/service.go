package contact

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/adapter/queue"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/observability/telemetry"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

type Service struct {
	repo ports.ContactRepository
	mq   queue.MessageQueue
	log  *zap.Logger
	now  func() time.Time
}

func NewService(repo ports.ContactRepository, mq queue.MessageQueue, log *zap.Logger) *Service {
	return &Service{
		repo: repo,
		mq:   mq,
		log:  log,
		now:  time.Now,
	}
}

// CreateContact stores a public contact message. userID binds it to the
// caller when authenticated.
func (s *Service) CreateContact(ctx context.Context, input domain.ContactInput, userID string) (*domain.Contact, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}
	if err := domain.CheckContactRating(input.Type, input.Rating); err != nil {
		return nil, err
	}

	now := s.now()
	c := &domain.Contact{
		ID:          uuid.New().String(),
		Type:        input.Type,
		Name:        input.Name,
		Email:       domain.NormalizeEmail(input.Email),
		PhoneNumber: input.PhoneNumber,
		Message:     input.Message,
		Rating:      input.Rating,
		Status:      domain.ContactStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if userID != "" {
		c.UserID = &userID
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, domain.Internal(err)
	}
	telemetry.ContactsCreatedTotal.WithLabelValues(string(c.Type)).Inc()

	if s.mq != nil {
		if err := queue.PublishJSON(s.mq, queue.SubjectContactCreated, queue.ContactCreated{ContactID: c.ID}); err != nil {
			s.log.Warn("failed to publish contact.created", zap.String("contact_id", c.ID), zap.Error(err))
		}
	}

	s.log.Info("contact created", zap.String("contact_id", c.ID), zap.String("type", string(c.Type)))
	return c, nil
}

func (s *Service) GetContacts(ctx context.Context, filter domain.ContactFilter, page domain.PageQuery) (*ports.ContactList, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.BadRequest("Invalid status filter")
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.BadRequest("Invalid type filter")
	}

	page = page.Normalize()
	contacts, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return &ports.ContactList{
		Contacts:   contacts,
		Pagination: domain.NewPagination(page, total).Named("totalContacts"),
	}, nil
}

func (s *Service) UpdateContactStatus(ctx context.Context, id string, update domain.ContactStatusUpdate) (*domain.Contact, error) {
	if err := domain.Validate(update); err != nil {
		return nil, err
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if c == nil {
		return nil, domain.NotFound("Contact not found")
	}
	if !c.Status.CanTransitionTo(update.Status) {
		return nil, domain.BadRequest("Cannot change status from " + string(c.Status) + " to " + string(update.Status))
	}

	c.Status = update.Status
	if update.AssignedTo != nil {
		c.AssignedTo = update.AssignedTo
	}
	c.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, domain.Internal(err)
	}
	return c, nil
}

var _ ports.ContactService = (*Service)(nil)
