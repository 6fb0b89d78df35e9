package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/adapter/queue"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/observability/telemetry"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

const (
	msgDuplicateUser      = "Email or username already exists"
	msgInvalidCredentials = "Invalid email or password"
	msgInactiveAccount    = "Account is not active"
	msgInvalidResetToken  = "Token is invalid or has expired"
	msgPasswordMismatch   = "Passwords do not match"
	msgUserNotFound       = "User not found"
	msgNotAuthenticated   = "Not authenticated"
)

// NewsletterSubscriber is the slice of the newsletter service that
// registration needs.
type NewsletterSubscriber interface {
	Subscribe(ctx context.Context, input domain.SubscribeInput) (*domain.Newsletter, error)
}

type Service struct {
	users      ports.UserRepository
	tokens     *JWTService
	perms      *domain.PermissionTable
	mailer     ports.EmailService
	mq         queue.MessageQueue
	newsletter NewsletterSubscriber
	resetTTL   time.Duration
	log        *zap.Logger
	now        func() time.Time
}

func NewService(
	users ports.UserRepository,
	tokens *JWTService,
	perms *domain.PermissionTable,
	mailer ports.EmailService,
	mq queue.MessageQueue,
	newsletter NewsletterSubscriber,
	resetTTL time.Duration,
	log *zap.Logger,
) *Service {
	if perms == nil {
		perms = domain.DefaultPermissionTable()
	}
	return &Service{
		users:      users,
		tokens:     tokens,
		perms:      perms,
		mailer:     mailer,
		mq:         mq,
		newsletter: newsletter,
		resetTTL:   resetTTL,
		log:        log,
		now:        time.Now,
	}
}

func (s *Service) Register(ctx context.Context, input domain.RegisterInput) (*ports.AuthResult, error) {
	if input.Password != input.ConfirmPassword {
		return nil, domain.BadRequest(msgPasswordMismatch)
	}
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(input.Email)
	if err := s.ensureUnique(ctx, "", email, input.Username); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, domain.Internal(err)
	}

	now := s.now()
	user := &domain.User{
		ID:                   uuid.New().String(),
		Username:             input.Username,
		Email:                email,
		Password:             hashed,
		Role:                 domain.RoleUser,
		Permissions:          s.perms.Strings(domain.RoleUser),
		Interests:            domain.MergeInterests(nil, input.Interests),
		NewsletterSubscribed: input.NewsletterSubscribed,
		PhoneNumber:          input.PhoneNumber,
		IsActive:             true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict(msgDuplicateUser)
		}
		return nil, domain.Internal(err)
	}

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	if user.NewsletterSubscribed && s.newsletter != nil {
		_, err := s.newsletter.Subscribe(ctx, domain.SubscribeInput{
			Email:     user.Email,
			FirstName: user.Username,
			Interests: user.Interests,
			Source:    domain.SourceWebsite,
		})
		if err != nil {
			s.log.Warn("newsletter subscription at registration failed",
				zap.String("user_id", user.ID),
				zap.Error(err),
			)
		}
	}

	if s.mq != nil {
		err := queue.PublishJSON(s.mq, queue.SubjectUserRegistered, queue.UserRegistered{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
		if err != nil {
			s.log.Warn("failed to publish user.registered", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	telemetry.UserRegistrationsTotal.Inc()
	s.log.Info("user registered", zap.String("user_id", user.ID))
	return result, nil
}

func (s *Service) Login(ctx context.Context, input domain.LoginInput) (*ports.AuthResult, error) {
	if err := domain.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		return nil, domain.Internal(err)
	}
	if user == nil || !checkPassword(user.Password, input.Password) {
		telemetry.LoginAttemptsTotal.WithLabelValues("invalid").Inc()
		return nil, domain.Unauthorized(msgInvalidCredentials)
	}
	if !user.IsActive {
		telemetry.LoginAttemptsTotal.WithLabelValues("inactive").Inc()
		return nil, domain.Forbidden(msgInactiveAccount)
	}

	now := s.now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.users.Save(ctx, user); err != nil {
		return nil, domain.Internal(err)
	}

	telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()
	return s.issue(user)
}

// Logout revokes token when it is still valid. It never fails the request.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil
	}
	if err := s.tokens.RevokeToken(ctx, claims); err != nil {
		s.log.Warn("logout could not revoke token", zap.Error(err))
	}
	return nil
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if err := domain.Validate(domain.ForgotPasswordInput{Email: email}); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return domain.Internal(err)
	}
	if user == nil {
		return domain.NotFound("There is no user with that email")
	}

	raw, digest, err := newResetToken()
	if err != nil {
		return domain.Internal(err)
	}
	expires := s.now().Add(s.resetTTL)
	user.ResetPasswordToken = &digest
	user.ResetPasswordExpires = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return domain.Internal(err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user, raw); err != nil {
		s.log.Error("password reset email failed", zap.String("user_id", user.ID), zap.Error(err))
		user.ClearResetToken()
		if saveErr := s.users.Save(ctx, user); saveErr != nil {
			s.log.Error("failed to clear reset token", zap.String("user_id", user.ID), zap.Error(saveErr))
		}
		return domain.Internal(err)
	}

	s.log.Info("password reset requested", zap.String("user_id", user.ID))
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token string, input domain.ResetPasswordInput) error {
	if input.Password != input.ConfirmPassword {
		return domain.BadRequest(msgPasswordMismatch)
	}
	if err := domain.CheckPasswordStrength(input.Password); err != nil {
		return err
	}
	if token == "" {
		return domain.BadRequest(msgInvalidResetToken)
	}

	user, err := s.users.FindByResetToken(ctx, hashResetToken(token), s.now())
	if err != nil {
		return domain.Internal(err)
	}
	if user == nil {
		return domain.BadRequest(msgInvalidResetToken)
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return domain.Internal(err)
	}
	user.Password = hashed
	user.ClearResetToken()
	user.UpdatedAt = s.now()
	if err := s.users.Save(ctx, user); err != nil {
		return domain.Internal(err)
	}

	s.log.Info("password reset completed", zap.String("user_id", user.ID))
	return nil
}

func (s *Service) ChangePassword(ctx context.Context, userID string, input domain.ChangePasswordInput) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	return ChangeUserPassword(ctx, s.users, user, input, s.now())
}

// ChangeUserPassword verifies the current password and stores the new one.
// Admin password changes go through the same rules.
func ChangeUserPassword(ctx context.Context, users ports.UserRepository, user *domain.User, input domain.ChangePasswordInput, now time.Time) error {
	if err := domain.Validate(input); err != nil {
		return err
	}
	if !checkPassword(user.Password, input.CurrentPassword) {
		return domain.Unauthorized("Current password is incorrect")
	}
	if input.NewPassword != input.ConfirmNewPassword {
		return domain.BadRequest(msgPasswordMismatch)
	}
	if err := domain.CheckPasswordStrength(input.NewPassword); err != nil {
		return err
	}

	hashed, err := hashPassword(input.NewPassword)
	if err != nil {
		return domain.Internal(err)
	}
	user.Password = hashed
	user.UpdatedAt = now
	if err := users.Save(ctx, user); err != nil {
		return domain.Internal(err)
	}
	return nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if user == nil {
		return nil, domain.NotFound(msgUserNotFound)
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	if err := domain.Validate(update); err != nil {
		return nil, err
	}
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	email, username := "", ""
	if update.Email != nil {
		email = domain.NormalizeEmail(*update.Email)
		if email == user.Email {
			email = ""
		}
	}
	if update.Username != nil && *update.Username != user.Username {
		username = *update.Username
	}
	if err := s.ensureUnique(ctx, user.ID, email, username); err != nil {
		return nil, err
	}

	if email != "" {
		user.Email = email
	}
	if username != "" {
		user.Username = username
	}
	if update.PhoneNumber != nil {
		user.PhoneNumber = *update.PhoneNumber
	}
	if update.Interests != nil {
		user.Interests = domain.MergeInterests(nil, update.Interests)
	}
	user.UpdatedAt = s.now()

	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.Conflict(msgDuplicateUser)
		}
		return nil, domain.Internal(err)
	}
	return user, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Unauthorized(msgNotAuthenticated)
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, domain.Unauthorized("Invalid or expired token")
	}
	if s.tokens.IsTokenRevoked(ctx, claims.ID) {
		return nil, domain.Unauthorized("Token has been revoked")
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if user == nil {
		return nil, domain.Unauthorized("The user belonging to this token no longer exists")
	}
	if !user.IsActive {
		return nil, domain.Forbidden(msgInactiveAccount)
	}
	return user, nil
}

// ensureUnique rejects email or username (when non-empty) held by a user
// other than selfID.
func (s *Service) ensureUnique(ctx context.Context, selfID, email, username string) error {
	if email != "" {
		existing, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			return domain.Internal(err)
		}
		if existing != nil && existing.ID != selfID {
			return domain.Conflict(msgDuplicateUser)
		}
	}
	if username != "" {
		existing, err := s.users.FindByUsername(ctx, username)
		if err != nil {
			return domain.Internal(err)
		}
		if existing != nil && existing.ID != selfID {
			return domain.Conflict(msgDuplicateUser)
		}
	}
	return nil
}

func (s *Service) issue(user *domain.User) (*ports.AuthResult, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, domain.Internal(err)
	}
	return &ports.AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

var _ ports.AuthService = (*Service)(nil)
