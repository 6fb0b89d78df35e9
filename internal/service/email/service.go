package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/observability/telemetry"
	"github.com/seu-repo/ateleslie-api/internal/ports"
	"github.com/seu-repo/ateleslie-api/pkg/config"
)

const (
	TemplateWelcome             = "welcome"
	TemplatePasswordReset       = "password_reset"
	TemplateNewsletter          = "newsletter"
	TemplateContactNotification = "contact_notification"
	TemplateContactConfirmation = "contact_confirmation"
)

// Provider defines the interface for email providers
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config holds email service configuration
type Config struct {
	// Provider type: "sendgrid" or "smtp"
	Provider string

	FromEmail string
	FromName  string

	SendGridAPIKey string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool

	// BaseURL is the public site used in links.
	BaseURL string
	// SiteName appears in subjects and the mail header.
	SiteName string

	Breaker config.CircuitBreakerConfig
}

// ConfigFrom maps application config onto the email service config.
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		Provider:       cfg.Email.Provider,
		FromEmail:      cfg.Email.From,
		FromName:       cfg.Email.FromName,
		SendGridAPIKey: cfg.Email.APIKey,
		SMTPHost:       cfg.Email.Host,
		SMTPPort:       cfg.Email.Port,
		SMTPUsername:   cfg.Email.User,
		SMTPPassword:   cfg.Email.Password,
		SMTPUseTLS:     cfg.Email.UseTLS,
		BaseURL:        cfg.App.URL,
		SiteName:       cfg.Email.FromName,
		Breaker:        cfg.CircuitBreaker,
	}
}

// DefaultConfig returns a default configuration for development (Mailhog)
func DefaultConfig() *Config {
	return &Config{
		Provider:  "smtp",
		FromEmail: "no-reply@ateleslie.org",
		FromName:  "L'Atelier de Leslie",
		SMTPHost:  "localhost",
		SMTPPort:  1025, // Mailhog default port
		BaseURL:   "http://localhost:3000",
		SiteName:  "L'Atelier de Leslie",
	}
}

// Service implements ports.EmailService
type Service struct {
	config    *Config
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
}

func NewService(cfg *Config, log *zap.Logger) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var provider Provider
	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		provider = NewSendGridProvider(cfg.SendGridAPIKey, cfg.FromEmail, cfg.FromName)
	case "smtp":
		provider = NewSMTPProvider(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUsername,
			cfg.SMTPPassword,
			cfg.FromEmail,
			cfg.FromName,
			cfg.SMTPUseTLS,
		)
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.Provider)
	}

	if cfg.Breaker.Enabled {
		provider = newBreakerProvider(provider, cfg.Breaker, log)
	}

	log.Info("Email service initialized", zap.String("provider", cfg.Provider))
	return newService(cfg, provider, log), nil
}

func newService(cfg *Config, provider Provider, log *zap.Logger) *Service {
	return &Service{
		config:    cfg,
		provider:  provider,
		templates: parseTemplates(),
		log:       log,
	}
}

func parseTemplates() map[string]*template.Template {
	base := template.Must(template.New("layout").Parse(layoutTemplate))
	out := make(map[string]*template.Template, len(bodyTemplates))
	for name, body := range bodyTemplates {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.New("body").Parse(body))
	}
	return out
}

// SendHTML sends an HTML email
func (s *Service) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	s.log.Debug("Sending HTML email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, htmlBody, true); err != nil {
		s.log.Error("Failed to send HTML email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send HTML email: %w", err)
	}

	return nil
}

// SendTemplate renders templateName inside the shared layout and sends it.
// data["Subject"] sets the subject line.
func (s *Service) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	data["BaseURL"] = s.config.BaseURL
	data["SiteName"] = s.config.SiteName
	data["Year"] = time.Now().Year()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject, ok := data["Subject"].(string)
	if !ok {
		subject = s.config.SiteName
	}

	err := s.SendHTML(ctx, to, subject, buf.String())
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	telemetry.EmailsSentTotal.WithLabelValues(templateName, outcome).Inc()
	return err
}

func (s *Service) SendWelcome(ctx context.Context, user *domain.User) error {
	data := map[string]interface{}{
		"Subject":  fmt.Sprintf("Welcome to %s!", s.config.SiteName),
		"Username": user.Username,
	}
	return s.SendTemplate(ctx, user.Email, TemplateWelcome, data)
}

func (s *Service) SendPasswordReset(ctx context.Context, user *domain.User, resetToken string) error {
	data := map[string]interface{}{
		"Subject":  "Password reset request",
		"Username": user.Username,
		"ResetURL": fmt.Sprintf("%s/reset-password/%s", s.config.BaseURL, resetToken),
	}
	return s.SendTemplate(ctx, user.Email, TemplatePasswordReset, data)
}

func (s *Service) SendNewsletter(ctx context.Context, to string, n *domain.Newsletter) error {
	data := map[string]interface{}{
		"Subject":        n.Title,
		"Title":          n.Title,
		"Content":        n.Content,
		"UnsubscribeURL": fmt.Sprintf("%s/newsletter/unsubscribe?email=%s", s.config.BaseURL, to),
	}
	return s.SendTemplate(ctx, to, TemplateNewsletter, data)
}

func (s *Service) SendContactNotification(ctx context.Context, to string, c *domain.Contact) error {
	data := map[string]interface{}{
		"Subject": fmt.Sprintf("New %s request from %s", c.Type, c.Name),
		"Contact": c,
	}
	return s.SendTemplate(ctx, to, TemplateContactNotification, data)
}

func (s *Service) SendContactConfirmation(ctx context.Context, c *domain.Contact) error {
	data := map[string]interface{}{
		"Subject": "We received your message",
		"Contact": c,
	}
	return s.SendTemplate(ctx, c.Email, TemplateContactConfirmation, data)
}

var _ ports.EmailService = (*Service)(nil)

// breakerProvider fails fast while the upstream provider keeps failing.
type breakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker
}

func newBreakerProvider(next Provider, cfg config.CircuitBreakerConfig, log *zap.Logger) Provider {
	threshold := cfg.FailureThreshold
	if threshold <= 0 {
		threshold = 0.6
	}
	settings := gobreaker.Settings{
		Name:        "email-provider",
		MaxRequests: uint32(cfg.MaxRequests),
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && ratio >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return &breakerProvider{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breakerProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, to, subject, body, isHTML)
	})
	return err
}
