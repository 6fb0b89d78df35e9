package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/adapter/queue"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func intPtr(i int) *int { return &i }

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	appErr, ok := domain.AsAppError(err)
	if !ok || appErr.Code != want {
		t.Fatalf("expected status %d, got %v", want, err)
	}
}

func TestCreateContact_Success(t *testing.T) {
	// Arrange
	var saved *domain.Contact
	repo := &mocks.MockContactRepository{
		SaveFunc: func(ctx context.Context, c *domain.Contact) error {
			saved = c
			return nil
		},
	}
	mq := mocks.NewMockMessageQueue()
	svc := NewService(repo, mq, newTestLogger())

	// Act
	c, err := svc.CreateContact(context.Background(), domain.ContactInput{
		Type:    domain.ContactTypeReview,
		Name:    "Marie",
		Email:   "Marie@Example.com",
		Message: "A lovely afternoon, thank you!",
		Rating:  intPtr(5),
	}, "user-1")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if saved == nil || saved.Status != domain.ContactStatusPending {
		t.Fatalf("expected pending contact saved, got %+v", saved)
	}
	if c.UserID == nil || *c.UserID != "user-1" {
		t.Error("expected contact bound to user")
	}
	if c.Email != "marie@example.com" {
		t.Errorf("expected normalized email, got %s", c.Email)
	}
	msgs := mq.GetPublishedMessages(queue.SubjectContactCreated)
	if len(msgs) != 1 {
		t.Fatalf("expected contact.created published, got %d", len(msgs))
	}
	var payload queue.ContactCreated
	_ = json.Unmarshal(msgs[0], &payload)
	if payload.ContactID != c.ID {
		t.Errorf("expected payload for %s, got %s", c.ID, payload.ContactID)
	}
}

func TestCreateContact_ReviewWithoutRating(t *testing.T) {
	// Arrange
	svc := NewService(&mocks.MockContactRepository{}, nil, newTestLogger())

	// Act
	_, err := svc.CreateContact(context.Background(), domain.ContactInput{
		Type:    domain.ContactTypeReview,
		Name:    "Marie",
		Email:   "marie@example.com",
		Message: "A lovely afternoon, thank you!",
	}, "")

	// Assert
	assertStatus(t, err, http.StatusBadRequest)
	appErr, _ := domain.AsAppError(err)
	if _, ok := appErr.Fields["rating"]; !ok {
		t.Errorf("expected rating field error, got %v", appErr.Fields)
	}
}

func TestCreateContact_InvalidFields(t *testing.T) {
	svc := NewService(&mocks.MockContactRepository{}, nil, newTestLogger())

	_, err := svc.CreateContact(context.Background(), domain.ContactInput{
		Type:    "complaint",
		Name:    "M",
		Email:   "not-an-email",
		Message: "short",
	}, "")

	assertStatus(t, err, http.StatusBadRequest)
	appErr, _ := domain.AsAppError(err)
	for _, field := range []string{"type", "name", "email", "message"} {
		if _, ok := appErr.Fields[field]; !ok {
			t.Errorf("expected %s field error, got %v", field, appErr.Fields)
		}
	}
}

func TestUpdateContactStatus(t *testing.T) {
	tests := []struct {
		name    string
		current domain.ContactStatus
		next    domain.ContactStatus
		want    int
	}{
		{"pending to in-progress", domain.ContactStatusPending, domain.ContactStatusInProgress, http.StatusOK},
		{"in-progress to resolved", domain.ContactStatusInProgress, domain.ContactStatusResolved, http.StatusOK},
		{"closed is final", domain.ContactStatusClosed, domain.ContactStatusPending, http.StatusBadRequest},
		{"resolved cannot reopen", domain.ContactStatusResolved, domain.ContactStatusInProgress, http.StatusBadRequest},
		{"unknown status", domain.ContactStatusPending, "archived", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockContactRepository{
				FindByIDFunc: func(ctx context.Context, id string) (*domain.Contact, error) {
					return &domain.Contact{ID: id, Status: tt.current}, nil
				},
			}
			svc := NewService(repo, nil, newTestLogger())
			admin := "admin-1"

			c, err := svc.UpdateContactStatus(context.Background(), "c1", domain.ContactStatusUpdate{Status: tt.next, AssignedTo: &admin})

			if tt.want != http.StatusOK {
				assertStatus(t, err, tt.want)
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if c.Status != tt.next || c.AssignedTo == nil || *c.AssignedTo != admin {
				t.Errorf("unexpected contact %+v", c)
			}
		})
	}
}

func TestUpdateContactStatus_NotFound(t *testing.T) {
	svc := NewService(&mocks.MockContactRepository{}, nil, newTestLogger())

	_, err := svc.UpdateContactStatus(context.Background(), "missing", domain.ContactStatusUpdate{Status: domain.ContactStatusClosed})

	assertStatus(t, err, http.StatusNotFound)
}

func TestGetContacts_RejectsUnknownFilter(t *testing.T) {
	svc := NewService(&mocks.MockContactRepository{}, nil, newTestLogger())

	_, err := svc.GetContacts(context.Background(), domain.ContactFilter{Status: "archived"}, domain.PageQuery{})

	assertStatus(t, err, http.StatusBadRequest)
}

func TestNotifier_SendsAdminAndConfirmation(t *testing.T) {
	// Arrange
	contact := &domain.Contact{ID: "c1", Name: "Marie", Email: "marie@example.com", Type: domain.ContactTypeCallback}
	repo := &mocks.MockContactRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Contact, error) {
			return contact, nil
		},
	}
	mailer := &mocks.MockEmailService{}
	mq := mocks.NewMockMessageQueue()
	mq.Deliver = true
	n := NewNotifier(repo, mailer, "admin@ateleslie.org", newTestLogger())
	if err := n.Start(mq); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Act
	_ = queue.PublishJSON(mq, queue.SubjectContactCreated, queue.ContactCreated{ContactID: "c1"})

	// Assert
	admin := mailer.SentTo("contact_notification")
	if len(admin) != 1 || admin[0].To != "admin@ateleslie.org" {
		t.Errorf("expected admin notification, got %+v", admin)
	}
	confirm := mailer.SentTo("contact_confirmation")
	if len(confirm) != 1 || confirm[0].To != "marie@example.com" {
		t.Errorf("expected sender confirmation, got %+v", confirm)
	}
}

func TestNotifier_MailFailureIsSwallowed(t *testing.T) {
	// Arrange
	repo := &mocks.MockContactRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Contact, error) {
			return &domain.Contact{ID: id, Email: "marie@example.com"}, nil
		},
	}
	mailer := &mocks.MockEmailService{
		SendContactNotificationFunc: func(ctx context.Context, to string, c *domain.Contact) error {
			return errors.New("smtp down")
		},
	}
	n := NewNotifier(repo, mailer, "admin@ateleslie.org", newTestLogger())

	// Act
	err := n.handle([]byte(`{"contactId":"c1"}`))

	// Assert
	if err != nil {
		t.Fatalf("expected notification failure to be logged only, got %v", err)
	}
	if len(mailer.SentTo("contact_confirmation")) != 1 {
		t.Error("confirmation should still be sent when admin mail fails")
	}
}
