package ports

import (
	"context"
	"time"

	"github.com/seu-repo/ateleslie-api/internal/domain"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, input domain.RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input domain.LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token string, input domain.ResetPasswordInput) error
	ChangePassword(ctx context.Context, userID string, input domain.ChangePasswordInput) error
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	// Authenticate resolves a session token to its active user.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type RBACService interface {
	CheckPermission(ctx context.Context, role domain.Role, resource, action string) bool
	GetPermissions(role domain.Role) []domain.Permission
	PermissionStrings(role domain.Role) []string
}

// ImageUpload is a single uploaded file.
type ImageUpload struct {
	Filename string
	Data     []byte
}

type ImageService interface {
	ProcessImage(ctx context.Context, upload ImageUpload) (*domain.ImageInfo, error)
	DeleteImage(ctx context.Context, info domain.ImageInfo) error
}

// ImageStore persists image bytes under a relative path.
type ImageStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) error
	Delete(ctx context.Context, path string) error
}

type EventList struct {
	Events     []domain.Event    `json:"events"`
	Pagination domain.Pagination `json:"pagination"`
}

type EventService interface {
	CreateEvent(ctx context.Context, input domain.EventInput, uploads []ImageUpload, createdBy string) (*domain.Event, error)
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch, uploads []ImageUpload) (*domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	GetEvent(ctx context.Context, id string) (*domain.Event, error)
	GetEvents(ctx context.Context, filter domain.EventFilter, page domain.PageQuery) (*EventList, error)
}

type ContactList struct {
	Contacts   []domain.Contact  `json:"contacts"`
	Pagination domain.Pagination `json:"pagination"`
}

type ContactService interface {
	CreateContact(ctx context.Context, input domain.ContactInput, userID string) (*domain.Contact, error)
	GetContacts(ctx context.Context, filter domain.ContactFilter, page domain.PageQuery) (*ContactList, error)
	UpdateContactStatus(ctx context.Context, id string, update domain.ContactStatusUpdate) (*domain.Contact, error)
}

type NewsletterList struct {
	Newsletters []domain.Newsletter `json:"newsletters"`
	Pagination  domain.Pagination   `json:"pagination"`
}

type NewsletterService interface {
	Subscribe(ctx context.Context, input domain.SubscribeInput) (*domain.Newsletter, error)
	Unsubscribe(ctx context.Context, input domain.UnsubscribeInput) error
	ToggleSubscription(ctx context.Context, userID string, subscribed *bool) (*domain.User, error)
	Create(ctx context.Context, input domain.NewsletterInput, createdBy string) (*domain.Newsletter, error)
	Query(ctx context.Context, filter domain.NewsletterFilter, page domain.PageQuery) (*NewsletterList, error)
	Schedule(ctx context.Context, id string, date time.Time) (*domain.Newsletter, error)
	Send(ctx context.Context, id string) (*domain.SendReport, error)
}

type UserList struct {
	Users      []domain.User     `json:"users"`
	Pagination domain.Pagination `json:"pagination"`
}

type AdminService interface {
	GetUsers(ctx context.Context, filter UserFilter, page domain.PageQuery) (*UserList, error)
	GetAdmins(ctx context.Context, search string, page domain.PageQuery) (*UserList, error)
	UpdateAdmin(ctx context.Context, id string, update domain.AdminUpdate) (*domain.User, error)
	ChangeAdminPassword(ctx context.Context, id string, input domain.ChangePasswordInput) error
	// UpdateUserStatus and UpdateUserRole take the caller's role; only a
	// superAdmin may grant, revoke or deactivate superAdmin.
	UpdateUserStatus(ctx context.Context, actor domain.Role, id string, active bool) (*domain.User, error)
	UpdateUserRole(ctx context.Context, actor domain.Role, id string, role domain.Role) (*domain.User, error)
}

// EmailService handles outbound mail.
type EmailService interface {
	// SendTemplate renders a named template and sends it
	SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error

	SendWelcome(ctx context.Context, user *domain.User) error
	SendPasswordReset(ctx context.Context, user *domain.User, resetToken string) error
	SendNewsletter(ctx context.Context, to string, n *domain.Newsletter) error
	SendContactNotification(ctx context.Context, to string, c *domain.Contact) error
	SendContactConfirmation(ctx context.Context, c *domain.Contact) error
}
