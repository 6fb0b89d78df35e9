package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, input domain.RegisterInput) (*ports.AuthResult, error)
	LoginFunc          func(ctx context.Context, input domain.LoginInput) (*ports.AuthResult, error)
	LogoutFunc         func(ctx context.Context, token string) error
	ForgotPasswordFunc func(ctx context.Context, email string) error
	ResetPasswordFunc  func(ctx context.Context, token string, input domain.ResetPasswordInput) error
	ChangePasswordFunc func(ctx context.Context, userID string, input domain.ChangePasswordInput) error
	GetProfileFunc     func(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfileFunc  func(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	AuthenticateFunc   func(ctx context.Context, token string) (*domain.User, error)
}

func (m *MockAuthService) Register(ctx context.Context, input domain.RegisterInput) (*ports.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, input)
	}
	return nil, nil
}

func (m *MockAuthService) Login(ctx context.Context, input domain.LoginInput) (*ports.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, input)
	}
	return nil, nil
}

func (m *MockAuthService) Logout(ctx context.Context, token string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, token)
	}
	return nil
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token string, input domain.ResetPasswordInput) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, input)
	}
	return nil
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID string, input domain.ChangePasswordInput) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, input)
	}
	return nil
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, userID, update)
	}
	return nil, nil
}

func (m *MockAuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, token)
	}
	return nil, domain.Unauthorized("Not authenticated")
}

// MockEventService is a mock implementation of EventService
type MockEventService struct {
	CreateEventFunc func(ctx context.Context, input domain.EventInput, uploads []ports.ImageUpload, createdBy string) (*domain.Event, error)
	UpdateEventFunc func(ctx context.Context, id string, patch domain.EventPatch, uploads []ports.ImageUpload) (*domain.Event, error)
	DeleteEventFunc func(ctx context.Context, id string) error
	GetEventFunc    func(ctx context.Context, id string) (*domain.Event, error)
	GetEventsFunc   func(ctx context.Context, filter domain.EventFilter, page domain.PageQuery) (*ports.EventList, error)
}

func (m *MockEventService) CreateEvent(ctx context.Context, input domain.EventInput, uploads []ports.ImageUpload, createdBy string) (*domain.Event, error) {
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, input, uploads, createdBy)
	}
	return nil, nil
}

func (m *MockEventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch, uploads []ports.ImageUpload) (*domain.Event, error) {
	if m.UpdateEventFunc != nil {
		return m.UpdateEventFunc(ctx, id, patch, uploads)
	}
	return nil, nil
}

func (m *MockEventService) DeleteEvent(ctx context.Context, id string) error {
	if m.DeleteEventFunc != nil {
		return m.DeleteEventFunc(ctx, id)
	}
	return nil
}

func (m *MockEventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	if m.GetEventFunc != nil {
		return m.GetEventFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockEventService) GetEvents(ctx context.Context, filter domain.EventFilter, page domain.PageQuery) (*ports.EventList, error) {
	if m.GetEventsFunc != nil {
		return m.GetEventsFunc(ctx, filter, page)
	}
	return &ports.EventList{}, nil
}

// MockContactService is a mock implementation of ContactService
type MockContactService struct {
	CreateContactFunc       func(ctx context.Context, input domain.ContactInput, userID string) (*domain.Contact, error)
	GetContactsFunc         func(ctx context.Context, filter domain.ContactFilter, page domain.PageQuery) (*ports.ContactList, error)
	UpdateContactStatusFunc func(ctx context.Context, id string, update domain.ContactStatusUpdate) (*domain.Contact, error)
}

func (m *MockContactService) CreateContact(ctx context.Context, input domain.ContactInput, userID string) (*domain.Contact, error) {
	if m.CreateContactFunc != nil {
		return m.CreateContactFunc(ctx, input, userID)
	}
	return nil, nil
}

func (m *MockContactService) GetContacts(ctx context.Context, filter domain.ContactFilter, page domain.PageQuery) (*ports.ContactList, error) {
	if m.GetContactsFunc != nil {
		return m.GetContactsFunc(ctx, filter, page)
	}
	return &ports.ContactList{}, nil
}

func (m *MockContactService) UpdateContactStatus(ctx context.Context, id string, update domain.ContactStatusUpdate) (*domain.Contact, error) {
	if m.UpdateContactStatusFunc != nil {
		return m.UpdateContactStatusFunc(ctx, id, update)
	}
	return nil, nil
}

// MockNewsletterService is a mock implementation of NewsletterService
type MockNewsletterService struct {
	SubscribeFunc          func(ctx context.Context, input domain.SubscribeInput) (*domain.Newsletter, error)
	UnsubscribeFunc        func(ctx context.Context, input domain.UnsubscribeInput) error
	ToggleSubscriptionFunc func(ctx context.Context, userID string, subscribed *bool) (*domain.User, error)
	CreateFunc             func(ctx context.Context, input domain.NewsletterInput, createdBy string) (*domain.Newsletter, error)
	QueryFunc              func(ctx context.Context, filter domain.NewsletterFilter, page domain.PageQuery) (*ports.NewsletterList, error)
	ScheduleFunc           func(ctx context.Context, id string, date time.Time) (*domain.Newsletter, error)
	SendFunc               func(ctx context.Context, id string) (*domain.SendReport, error)
}

func (m *MockNewsletterService) Subscribe(ctx context.Context, input domain.SubscribeInput) (*domain.Newsletter, error) {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, input)
	}
	return &domain.Newsletter{Email: input.Email, Type: domain.NewsletterTypeSubscriber, IsActive: true}, nil
}

func (m *MockNewsletterService) Unsubscribe(ctx context.Context, input domain.UnsubscribeInput) error {
	if m.UnsubscribeFunc != nil {
		return m.UnsubscribeFunc(ctx, input)
	}
	return nil
}

func (m *MockNewsletterService) ToggleSubscription(ctx context.Context, userID string, subscribed *bool) (*domain.User, error) {
	if m.ToggleSubscriptionFunc != nil {
		return m.ToggleSubscriptionFunc(ctx, userID, subscribed)
	}
	return nil, nil
}

func (m *MockNewsletterService) Create(ctx context.Context, input domain.NewsletterInput, createdBy string) (*domain.Newsletter, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, input, createdBy)
	}
	return nil, nil
}

func (m *MockNewsletterService) Query(ctx context.Context, filter domain.NewsletterFilter, page domain.PageQuery) (*ports.NewsletterList, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, filter, page)
	}
	return &ports.NewsletterList{}, nil
}

func (m *MockNewsletterService) Schedule(ctx context.Context, id string, date time.Time) (*domain.Newsletter, error) {
	if m.ScheduleFunc != nil {
		return m.ScheduleFunc(ctx, id, date)
	}
	return nil, nil
}

func (m *MockNewsletterService) Send(ctx context.Context, id string) (*domain.SendReport, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, id)
	}
	return &domain.SendReport{NewsletterID: id}, nil
}

// MockAdminService is a mock implementation of AdminService
type MockAdminService struct {
	GetUsersFunc            func(ctx context.Context, filter ports.UserFilter, page domain.PageQuery) (*ports.UserList, error)
	GetAdminsFunc           func(ctx context.Context, search string, page domain.PageQuery) (*ports.UserList, error)
	UpdateAdminFunc         func(ctx context.Context, id string, update domain.AdminUpdate) (*domain.User, error)
	ChangeAdminPasswordFunc func(ctx context.Context, id string, input domain.ChangePasswordInput) error
	UpdateUserStatusFunc    func(ctx context.Context, actor domain.Role, id string, active bool) (*domain.User, error)
	UpdateUserRoleFunc      func(ctx context.Context, actor domain.Role, id string, role domain.Role) (*domain.User, error)
}

func (m *MockAdminService) GetUsers(ctx context.Context, filter ports.UserFilter, page domain.PageQuery) (*ports.UserList, error) {
	if m.GetUsersFunc != nil {
		return m.GetUsersFunc(ctx, filter, page)
	}
	return &ports.UserList{}, nil
}

func (m *MockAdminService) GetAdmins(ctx context.Context, search string, page domain.PageQuery) (*ports.UserList, error) {
	if m.GetAdminsFunc != nil {
		return m.GetAdminsFunc(ctx, search, page)
	}
	return &ports.UserList{}, nil
}

func (m *MockAdminService) UpdateAdmin(ctx context.Context, id string, update domain.AdminUpdate) (*domain.User, error) {
	if m.UpdateAdminFunc != nil {
		return m.UpdateAdminFunc(ctx, id, update)
	}
	return nil, nil
}

func (m *MockAdminService) ChangeAdminPassword(ctx context.Context, id string, input domain.ChangePasswordInput) error {
	if m.ChangeAdminPasswordFunc != nil {
		return m.ChangeAdminPasswordFunc(ctx, id, input)
	}
	return nil
}

func (m *MockAdminService) UpdateUserStatus(ctx context.Context, actor domain.Role, id string, active bool) (*domain.User, error) {
	if m.UpdateUserStatusFunc != nil {
		return m.UpdateUserStatusFunc(ctx, actor, id, active)
	}
	return nil, nil
}

func (m *MockAdminService) UpdateUserRole(ctx context.Context, actor domain.Role, id string, role domain.Role) (*domain.User, error) {
	if m.UpdateUserRoleFunc != nil {
		return m.UpdateUserRoleFunc(ctx, actor, id, role)
	}
	return nil, nil
}

// MockImageService is a mock implementation of ImageService
type MockImageService struct {
	mu               sync.Mutex
	Deleted          []domain.ImageInfo
	ProcessImageFunc func(ctx context.Context, upload ports.ImageUpload) (*domain.ImageInfo, error)
	DeleteImageFunc  func(ctx context.Context, info domain.ImageInfo) error
}

func (m *MockImageService) ProcessImage(ctx context.Context, upload ports.ImageUpload) (*domain.ImageInfo, error) {
	if m.ProcessImageFunc != nil {
		return m.ProcessImageFunc(ctx, upload)
	}
	return &domain.ImageInfo{
		Original: domain.ImageDescriptor{Filename: upload.Filename, Path: "/uploads/" + upload.Filename},
	}, nil
}

func (m *MockImageService) DeleteImage(ctx context.Context, info domain.ImageInfo) error {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, info)
	m.mu.Unlock()
	if m.DeleteImageFunc != nil {
		return m.DeleteImageFunc(ctx, info)
	}
	return nil
}

// MockImageStore is an in-memory ImageStore
type MockImageStore struct {
	mu         sync.Mutex
	Objects    map[string][]byte
	PutFunc    func(ctx context.Context, path string, data []byte, contentType string) error
	DeleteFunc func(ctx context.Context, path string) error
}

func NewMockImageStore() *MockImageStore {
	return &MockImageStore{Objects: make(map[string][]byte)}
}

func (m *MockImageStore) Put(ctx context.Context, path string, data []byte, contentType string) error {
	if m.PutFunc != nil {
		if err := m.PutFunc(ctx, path, data, contentType); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[path] = data
	return nil
}

func (m *MockImageStore) Delete(ctx context.Context, path string) error {
	if m.DeleteFunc != nil {
		if err := m.DeleteFunc(ctx, path); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, path)
	return nil
}

func (m *MockImageStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// SentEmail records one MockEmailService call.
type SentEmail struct {
	To       string
	Template string
	Token    string
	Subject  string
}

// MockEmailService records calls and is safe for concurrent use.
type MockEmailService struct {
	mu                          sync.Mutex
	Sent                        []SentEmail
	SendTemplateFunc            func(ctx context.Context, to, templateName string, data map[string]interface{}) error
	SendWelcomeFunc             func(ctx context.Context, user *domain.User) error
	SendPasswordResetFunc       func(ctx context.Context, user *domain.User, resetToken string) error
	SendNewsletterFunc          func(ctx context.Context, to string, n *domain.Newsletter) error
	SendContactNotificationFunc func(ctx context.Context, to string, c *domain.Contact) error
	SendContactConfirmationFunc func(ctx context.Context, c *domain.Contact) error
}

func (m *MockEmailService) record(e SentEmail) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, e)
}

// SentTo returns recorded emails for a template.
func (m *MockEmailService) SentTo(template string) []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []SentEmail
	for _, e := range m.Sent {
		if e.Template == template {
			out = append(out, e)
		}
	}
	return out
}

func (m *MockEmailService) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	if m.SendTemplateFunc != nil {
		if err := m.SendTemplateFunc(ctx, to, templateName, data); err != nil {
			return err
		}
	}
	m.record(SentEmail{To: to, Template: templateName})
	return nil
}

func (m *MockEmailService) SendWelcome(ctx context.Context, user *domain.User) error {
	if m.SendWelcomeFunc != nil {
		if err := m.SendWelcomeFunc(ctx, user); err != nil {
			return err
		}
	}
	m.record(SentEmail{To: user.Email, Template: "welcome"})
	return nil
}

func (m *MockEmailService) SendPasswordReset(ctx context.Context, user *domain.User, resetToken string) error {
	if m.SendPasswordResetFunc != nil {
		if err := m.SendPasswordResetFunc(ctx, user, resetToken); err != nil {
			return err
		}
	}
	m.record(SentEmail{To: user.Email, Template: "password_reset", Token: resetToken})
	return nil
}

func (m *MockEmailService) SendNewsletter(ctx context.Context, to string, n *domain.Newsletter) error {
	if m.SendNewsletterFunc != nil {
		if err := m.SendNewsletterFunc(ctx, to, n); err != nil {
			return err
		}
	}
	m.record(SentEmail{To: to, Template: "newsletter", Subject: n.Title})
	return nil
}

func (m *MockEmailService) SendContactNotification(ctx context.Context, to string, c *domain.Contact) error {
	if m.SendContactNotificationFunc != nil {
		if err := m.SendContactNotificationFunc(ctx, to, c); err != nil {
			return err
		}
	}
	m.record(SentEmail{To: to, Template: "contact_notification"})
	return nil
}

func (m *MockEmailService) SendContactConfirmation(ctx context.Context, c *domain.Contact) error {
	if m.SendContactConfirmationFunc != nil {
		if err := m.SendContactConfirmationFunc(ctx, c); err != nil {
			return err
		}
	}
	m.record(SentEmail{To: c.Email, Template: "contact_confirmation"})
	return nil
}

var (
	_ ports.AuthService       = (*MockAuthService)(nil)
	_ ports.EventService      = (*MockEventService)(nil)
	_ ports.ContactService    = (*MockContactService)(nil)
	_ ports.NewsletterService = (*MockNewsletterService)(nil)
	_ ports.AdminService      = (*MockAdminService)(nil)
	_ ports.ImageService      = (*MockImageService)(nil)
	_ ports.ImageStore        = (*MockImageStore)(nil)
	_ ports.EmailService      = (*MockEmailService)(nil)
)
