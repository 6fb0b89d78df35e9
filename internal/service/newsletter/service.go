package newsletter

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/observability/telemetry"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

const (
	msgSubscriptionNotFound = "Subscription not found"
	msgNewsletterNotFound   = "Newsletter not found"
	msgAlreadySent          = "Newsletter has already been sent"
	msgNoSubscribers        = "No active subscribers"
	msgScheduleInPast       = "Scheduled date must be in the future"
)

// Options tunes newsletter delivery.
type Options struct {
	BatchSize   int
	Concurrency int
}

type Service struct {
	repo   ports.NewsletterRepository
	users  ports.UserRepository
	mailer ports.EmailService
	opts   Options
	log    *zap.Logger
	now    func() time.Time
}

func NewService(repo ports.NewsletterRepository, users ports.UserRepository, mailer ports.EmailService, opts Options, log *zap.Logger) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	return &Service{
		repo:   repo,
		users:  users,
		mailer: mailer,
		opts:   opts,
		log:    log,
		now:    time.Now,
	}
}

// Subscribe upserts an active subscriber row and flags the matching user.
func (s *Service) Subscribe(ctx context.Context, input domain.SubscribeInput) (*domain.Newsletter, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}
	email := domain.NormalizeEmail(input.Email)
	now := s.now()

	row, err := s.repo.FindSubscriberByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if row == nil {
		row = &domain.Newsletter{
			ID:        uuid.New().String(),
			Type:      domain.NewsletterTypeSubscriber,
			Email:     email,
			CreatedAt: now,
		}
	}

	if input.FirstName != "" {
		row.FirstName = input.FirstName
	}
	row.Interests = domain.MergeInterests(row.Interests, input.Interests)
	switch {
	case input.Preferences != nil:
		prefs := *input.Preferences
		row.Preferences = &prefs
	case row.Preferences == nil:
		prefs := domain.DefaultPreferences()
		row.Preferences = &prefs
	}
	row.Source = input.Source
	if row.Source == "" {
		row.Source = domain.SourceWebsite
	}
	row.IsActive = true
	row.SubscribedAt = &now
	row.UnsubscribedAt = nil
	row.UnsubscribeReason = ""
	row.UpdatedAt = now

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, domain.Internal(err)
	}

	if err := s.syncUser(ctx, email, true, input.Interests); err != nil {
		return nil, err
	}

	s.log.Info("newsletter subscription", zap.String("subscriber_id", row.ID))
	return row, nil
}

func (s *Service) Unsubscribe(ctx context.Context, input domain.UnsubscribeInput) error {
	if err := domain.Validate(input); err != nil {
		return err
	}
	email := domain.NormalizeEmail(input.Email)

	row, err := s.repo.FindSubscriberByEmail(ctx, email)
	if err != nil {
		return domain.Internal(err)
	}
	if row == nil || !row.IsActive {
		return domain.NotFound(msgSubscriptionNotFound)
	}
	if err := s.deactivate(ctx, row, input.Reason); err != nil {
		return err
	}
	return s.syncUser(ctx, email, false, nil)
}

// ToggleSubscription sets the user's subscription to subscribed, or flips it
// when subscribed is nil.
func (s *Service) ToggleSubscription(ctx context.Context, userID string, subscribed *bool) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if user == nil {
		return nil, domain.NotFound("User not found")
	}

	target := !user.NewsletterSubscribed
	if subscribed != nil {
		target = *subscribed
	}

	if target {
		_, err := s.Subscribe(ctx, domain.SubscribeInput{
			Email:     user.Email,
			FirstName: user.Username,
			Interests: user.Interests,
			Source:    domain.SourceWebsite,
		})
		if err != nil {
			return nil, err
		}
	} else {
		row, err := s.repo.FindSubscriberByEmail(ctx, user.Email)
		if err != nil {
			return nil, domain.Internal(err)
		}
		if row != nil && row.IsActive {
			if err := s.deactivate(ctx, row, ""); err != nil {
				return nil, err
			}
		}
		if err := s.syncUser(ctx, user.Email, false, nil); err != nil {
			return nil, err
		}
	}

	updated, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if updated == nil {
		return nil, domain.NotFound("User not found")
	}
	return updated, nil
}

func (s *Service) Create(ctx context.Context, input domain.NewsletterInput, createdBy string) (*domain.Newsletter, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}
	now := s.now()
	n := &domain.Newsletter{
		ID:        uuid.New().String(),
		Type:      domain.NewsletterTypeNewsletter,
		Title:     input.Title,
		Content:   input.Content,
		Category:  input.Category,
		Tags:      input.Tags,
		Status:    domain.NewsletterStatusDraft,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if input.ScheduledDate != nil {
		if !input.ScheduledDate.After(now) {
			return nil, domain.BadRequest(msgScheduleInPast)
		}
		date := *input.ScheduledDate
		n.ScheduledDate = &date
		n.Status = domain.NewsletterStatusScheduled
	}
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, domain.Internal(err)
	}
	return n, nil
}

func (s *Service) Query(ctx context.Context, filter domain.NewsletterFilter, page domain.PageQuery) (*ports.NewsletterList, error) {
	page = page.Normalize()
	rows, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if rows == nil {
		rows = []domain.Newsletter{}
	}
	return &ports.NewsletterList{
		Newsletters: rows,
		Pagination:  domain.NewPagination(page, total).Named("totalNewsletters"),
	}, nil
}

func (s *Service) Schedule(ctx context.Context, id string, date time.Time) (*domain.Newsletter, error) {
	n, err := s.content(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status == domain.NewsletterStatusSent {
		return nil, domain.BadRequest(msgAlreadySent)
	}
	now := s.now()
	if !date.After(now) {
		return nil, domain.BadRequest(msgScheduleInPast)
	}

	n.Status = domain.NewsletterStatusScheduled
	n.ScheduledDate = &date
	n.UpdatedAt = now
	if err := s.repo.Save(ctx, n); err != nil {
		return nil, domain.Internal(err)
	}
	s.log.Info("newsletter scheduled", zap.String("newsletter_id", id), zap.Time("scheduled_date", date))
	return n, nil
}

// Send claims the newsletter and mails every matching active subscriber
// once. Individual delivery failures are counted, not retried.
func (s *Service) Send(ctx context.Context, id string) (*domain.SendReport, error) {
	n, err := s.content(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status == domain.NewsletterStatusSent {
		return nil, domain.BadRequest(msgAlreadySent)
	}

	subscribers, err := s.repo.ActiveSubscribers(ctx, n.Category)
	if err != nil {
		return nil, domain.Internal(err)
	}
	recipients := dedupeEmails(subscribers)
	if len(recipients) == 0 {
		return nil, domain.BadRequest(msgNoSubscribers)
	}

	claimed, err := s.repo.MarkSent(ctx, n.ID, s.now(), len(recipients))
	if err != nil {
		return nil, domain.Internal(err)
	}
	if !claimed {
		return nil, domain.BadRequest(msgAlreadySent)
	}

	dctx, span := telemetry.Tracer().Start(context.WithoutCancel(ctx), "newsletter.Deliver")
	span.SetAttributes(
		attribute.String("newsletter.id", n.ID),
		attribute.Int("newsletter.recipients", len(recipients)),
	)
	report := s.deliver(dctx, n, recipients)
	span.SetAttributes(attribute.Int("newsletter.failed", report.Failed))
	span.End()
	telemetry.NewslettersSentTotal.Inc()
	s.log.Info("newsletter sent",
		zap.String("newsletter_id", n.ID),
		zap.Int("recipients", report.Recipients),
		zap.Int("delivered", report.Delivered),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

func (s *Service) deliver(ctx context.Context, n *domain.Newsletter, recipients []string) *domain.SendReport {
	var delivered, failed atomic.Int64

	for start := 0; start < len(recipients); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(recipients))

		var g errgroup.Group
		g.SetLimit(s.opts.Concurrency)
		for _, to := range recipients[start:end] {
			g.Go(func() error {
				if err := s.mailer.SendNewsletter(ctx, to, n); err != nil {
					failed.Add(1)
					s.log.Warn("newsletter delivery failed", zap.String("newsletter_id", n.ID), zap.Error(err))
					return nil
				}
				delivered.Add(1)
				return nil
			})
		}
		_ = g.Wait()
	}

	return &domain.SendReport{
		NewsletterID: n.ID,
		Recipients:   len(recipients),
		Delivered:    int(delivered.Load()),
		Failed:       int(failed.Load()),
	}
}

func (s *Service) content(ctx context.Context, id string) (*domain.Newsletter, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if n == nil || n.Type != domain.NewsletterTypeNewsletter {
		return nil, domain.NotFound(msgNewsletterNotFound)
	}
	return n, nil
}

func (s *Service) deactivate(ctx context.Context, row *domain.Newsletter, reason string) error {
	now := s.now()
	row.IsActive = false
	row.UnsubscribedAt = &now
	row.UnsubscribeReason = reason
	row.UpdatedAt = now
	if err := s.repo.Save(ctx, row); err != nil {
		return domain.Internal(err)
	}
	return nil
}

// syncUser mirrors the subscription flag onto the user with that email, if any.
func (s *Service) syncUser(ctx context.Context, email string, subscribed bool, interests []string) error {
	if s.users == nil {
		return nil
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.Internal(err)
	}
	if user == nil {
		return nil
	}
	user.NewsletterSubscribed = subscribed
	if subscribed {
		user.Interests = domain.MergeInterests(user.Interests, interests)
	}
	user.UpdatedAt = s.now()
	if err := s.users.Save(ctx, user); err != nil {
		return domain.Internal(err)
	}
	return nil
}

func dedupeEmails(rows []domain.Newsletter) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		email := domain.NormalizeEmail(r.Email)
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

var _ ports.NewsletterService = (*Service)(nil)
