package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/adapter/queue"
	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/mocks"
)

const testSecret = "test-secret-key"

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// userStore backs a MockUserRepository with a map.
type userStore struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newUserStore(seed ...*domain.User) (*userStore, *mocks.MockUserRepository) {
	s := &userStore{users: make(map[string]domain.User)}
	for _, u := range seed {
		s.users[u.ID] = *u
	}
	find := func(match func(domain.User) bool) (*domain.User, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, u := range s.users {
			if match(u) {
				cp := u
				return &cp, nil
			}
		}
		return nil, nil
	}
	repo := &mocks.MockUserRepository{
		SaveFunc: func(ctx context.Context, user *domain.User) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.users[user.ID] = *user
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			return find(func(u domain.User) bool { return u.ID == id })
		},
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return find(func(u domain.User) bool { return u.Email == email })
		},
		FindByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			return find(func(u domain.User) bool { return u.Username == username })
		},
		FindByResetTokenFunc: func(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
			return find(func(u domain.User) bool {
				return u.ResetPasswordToken != nil && *u.ResetPasswordToken == tokenHash &&
					u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now)
			})
		},
	}
	return s, repo
}

func (s *userStore) get(id string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id]
}

type fixture struct {
	service    *Service
	store      *userStore
	cache      *mocks.MockCache
	mailer     *mocks.MockEmailService
	mq         *mocks.MockMessageQueue
	newsletter *mocks.MockNewsletterService
}

func newFixture(seed ...*domain.User) *fixture {
	store, repo := newUserStore(seed...)
	cache := mocks.NewMockCache()
	mailer := &mocks.MockEmailService{}
	mq := mocks.NewMockMessageQueue()
	newsletter := &mocks.MockNewsletterService{}
	log := newTestLogger()
	tokens := NewJWTService(testSecret, "ateleslie-api", time.Hour, cache, log)
	svc := NewService(repo, tokens, domain.DefaultPermissionTable(), mailer, mq, newsletter, 10*time.Minute, log)
	return &fixture{service: svc, store: store, cache: cache, mailer: mailer, mq: mq, newsletter: newsletter}
}

func seededUser(t *testing.T, password string) *domain.User {
	t.Helper()
	hashed, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &domain.User{
		ID:       "user-123",
		Username: "leslie",
		Email:    "leslie@example.com",
		Password: hashed,
		Role:     domain.RoleUser,
		IsActive: true,
	}
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	appErr, ok := domain.AsAppError(err)
	if !ok {
		t.Fatalf("expected *AppError with status %d, got %v", want, err)
	}
	if appErr.Code != want {
		t.Fatalf("expected status %d, got %d (%s)", want, appErr.Code, appErr.Message)
	}
}

func validRegistration() domain.RegisterInput {
	return domain.RegisterInput{
		Username:        "newuser",
		Email:           "New@Example.com",
		Password:        "ValidPass123!",
		ConfirmPassword: "ValidPass123!",
		Interests:       []string{"arts", "music"},
	}
}

func TestRegister_ThenLogin(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture()

	// Act
	registered, err := f.service.Register(ctx, validRegistration())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if registered.Token == "" {
		t.Fatal("expected token on registration")
	}
	u := registered.User
	if u.Email != "new@example.com" {
		t.Errorf("expected lowercased email, got %s", u.Email)
	}
	if u.Role != domain.RoleUser {
		t.Errorf("expected role user, got %s", u.Role)
	}
	if u.Password == "ValidPass123!" {
		t.Error("password must be stored hashed")
	}
	if len(u.Permissions) == 0 {
		t.Error("expected permissions derived from role")
	}
	if !u.IsActive {
		t.Error("expected new user to be active")
	}

	loggedIn, err := f.service.Login(ctx, domain.LoginInput{Email: "new@example.com", Password: "ValidPass123!"})
	if err != nil {
		t.Fatalf("expected login to succeed, got %v", err)
	}
	if loggedIn.User.ID != u.ID {
		t.Errorf("expected same user, got %s", loggedIn.User.ID)
	}
	if f.store.get(u.ID).LastLogin == nil {
		t.Error("expected lastLogin to be recorded")
	}

	authed, err := f.service.Authenticate(ctx, loggedIn.Token)
	if err != nil {
		t.Fatalf("expected token to authenticate, got %v", err)
	}
	if authed.ID != u.ID {
		t.Errorf("expected authenticated user %s, got %s", u.ID, authed.ID)
	}
}

func TestRegister_PublishesUserRegistered(t *testing.T) {
	// Arrange
	f := newFixture()

	// Act
	result, err := f.service.Register(context.Background(), validRegistration())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	msgs := f.mq.GetPublishedMessages(queue.SubjectUserRegistered)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 user.registered message, got %d", len(msgs))
	}
	var payload queue.UserRegistered
	if err := json.Unmarshal(msgs[0], &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.UserID != result.User.ID {
		t.Errorf("expected payload for %s, got %s", result.User.ID, payload.UserID)
	}
}

func TestRegister_SubscribesToNewsletter(t *testing.T) {
	// Arrange
	f := newFixture()
	var subscribed string
	f.newsletter.SubscribeFunc = func(ctx context.Context, input domain.SubscribeInput) (*domain.Newsletter, error) {
		subscribed = input.Email
		return &domain.Newsletter{}, nil
	}
	input := validRegistration()
	input.NewsletterSubscribed = true

	// Act
	_, err := f.service.Register(context.Background(), input)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if subscribed != "new@example.com" {
		t.Errorf("expected newsletter subscription for new@example.com, got %q", subscribed)
	}
}

func TestRegister_PasswordMismatchCheckedFirst(t *testing.T) {
	// Arrange
	f := newFixture()
	input := validRegistration()
	input.Password = "weak"
	input.ConfirmPassword = "different"

	// Act
	_, err := f.service.Register(context.Background(), input)

	// Assert
	assertStatus(t, err, http.StatusBadRequest)
	appErr, _ := domain.AsAppError(err)
	if appErr.Message != msgPasswordMismatch {
		t.Errorf("expected mismatch message, got %q", appErr.Message)
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"no uppercase", "alllowercase1!"},
		{"longer than bcrypt accepts", "Aa1!" + strings.Repeat("x", 80)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture()
			input := validRegistration()
			input.Password = tt.password
			input.ConfirmPassword = tt.password

			// Act
			_, err := f.service.Register(context.Background(), input)

			// Assert
			assertStatus(t, err, http.StatusBadRequest)
			appErr, _ := domain.AsAppError(err)
			if _, ok := appErr.Fields["password"]; !ok {
				t.Errorf("expected password field error, got %v", appErr.Fields)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	// Arrange
	existing := seededUser(t, "ValidPass123!")
	existing.Email = "new@example.com"
	f := newFixture(existing)

	// Act
	_, err := f.service.Register(context.Background(), validRegistration())

	// Assert
	assertStatus(t, err, http.StatusConflict)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	// Arrange
	existing := seededUser(t, "ValidPass123!")
	existing.Username = "newuser"
	f := newFixture(existing)

	// Act
	_, err := f.service.Register(context.Background(), validRegistration())

	// Assert
	assertStatus(t, err, http.StatusConflict)
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Arrange
	f := newFixture()

	// Act
	_, err := f.service.Login(context.Background(), domain.LoginInput{Email: "nobody@example.com", Password: "whatever"})

	// Assert
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	f := newFixture(seededUser(t, "ValidPass123!"))

	// Act
	_, err := f.service.Login(context.Background(), domain.LoginInput{Email: "leslie@example.com", Password: "WrongPass123!"})

	// Assert
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestLogin_InactiveAccount(t *testing.T) {
	// Arrange
	user := seededUser(t, "ValidPass123!")
	user.IsActive = false
	f := newFixture(user)

	// Act
	_, err := f.service.Login(context.Background(), domain.LoginInput{Email: "leslie@example.com", Password: "ValidPass123!"})

	// Assert
	assertStatus(t, err, http.StatusForbidden)
}

func TestLogin_RepositoryError(t *testing.T) {
	// Arrange
	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, errors.New("database connection failed")
		},
	}
	log := newTestLogger()
	tokens := NewJWTService(testSecret, "", time.Hour, mocks.NewMockCache(), log)
	svc := NewService(repo, tokens, nil, &mocks.MockEmailService{}, nil, nil, 10*time.Minute, log)

	// Act
	_, err := svc.Login(context.Background(), domain.LoginInput{Email: "leslie@example.com", Password: "x"})

	// Assert
	assertStatus(t, err, http.StatusInternalServerError)
}

func TestLogout_RevokesToken(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(seededUser(t, "ValidPass123!"))
	result, err := f.service.Login(ctx, domain.LoginInput{Email: "leslie@example.com", Password: "ValidPass123!"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Act
	err = f.service.Logout(ctx, result.Token)

	// Assert
	if err != nil {
		t.Fatalf("expected logout to succeed, got %v", err)
	}
	_, err = f.service.Authenticate(ctx, result.Token)
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestLogout_GarbageTokenStillSucceeds(t *testing.T) {
	// Arrange
	f := newFixture()

	// Act
	err := f.service.Logout(context.Background(), "not-a-jwt")

	// Assert
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	// Arrange
	ctx := context.Background()
	user := seededUser(t, "ValidPass123!")
	f := newFixture(user)

	// Act
	if err := f.service.ForgotPassword(ctx, "leslie@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}

	// Assert
	sent := f.mailer.SentTo("password_reset")
	if len(sent) != 1 {
		t.Fatalf("expected 1 reset email, got %d", len(sent))
	}
	raw := sent[0].Token
	stored := f.store.get(user.ID)
	if stored.ResetPasswordToken == nil || *stored.ResetPasswordToken == raw {
		t.Fatal("expected only the token digest to be stored")
	}
	if *stored.ResetPasswordToken != hashResetToken(raw) {
		t.Error("stored digest does not match mailed token")
	}

	altered := []byte(raw)
	if altered[0] == 'a' {
		altered[0] = 'b'
	} else {
		altered[0] = 'a'
	}
	err := f.service.ResetPassword(ctx, string(altered), domain.ResetPasswordInput{Password: "NewValid456?", ConfirmPassword: "NewValid456?"})
	assertStatus(t, err, http.StatusBadRequest)
	if f.store.get(user.ID).ResetPasswordToken == nil {
		t.Fatal("an altered token must not consume the live one")
	}

	err = f.service.ResetPassword(ctx, raw, domain.ResetPasswordInput{Password: "NewValid456?", ConfirmPassword: "NewValid456?"})
	if err != nil {
		t.Fatalf("reset password: %v", err)
	}
	stored = f.store.get(user.ID)
	if stored.ResetPasswordToken != nil || stored.ResetPasswordExpires != nil {
		t.Error("expected reset fields to be cleared")
	}
	if _, err := f.service.Login(ctx, domain.LoginInput{Email: "leslie@example.com", Password: "NewValid456?"}); err != nil {
		t.Errorf("expected login with new password, got %v", err)
	}

	err = f.service.ResetPassword(ctx, raw, domain.ResetPasswordInput{Password: "Another789!", ConfirmPassword: "Another789!"})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	// Arrange
	f := newFixture()

	// Act
	err := f.service.ForgotPassword(context.Background(), "ghost@example.com")

	// Assert
	assertStatus(t, err, http.StatusNotFound)
}

func TestForgotPassword_MailFailureClearsToken(t *testing.T) {
	// Arrange
	user := seededUser(t, "ValidPass123!")
	f := newFixture(user)
	f.mailer.SendPasswordResetFunc = func(ctx context.Context, u *domain.User, token string) error {
		return errors.New("smtp down")
	}

	// Act
	err := f.service.ForgotPassword(context.Background(), "leslie@example.com")

	// Assert
	assertStatus(t, err, http.StatusInternalServerError)
	stored := f.store.get(user.ID)
	if stored.ResetPasswordToken != nil || stored.ResetPasswordExpires != nil {
		t.Error("expected reset fields to be cleared after mail failure")
	}
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	// Arrange
	user := seededUser(t, "ValidPass123!")
	digest := hashResetToken("expired-token")
	past := time.Now().Add(-time.Minute)
	user.ResetPasswordToken = &digest
	user.ResetPasswordExpires = &past
	f := newFixture(user)

	// Act
	err := f.service.ResetPassword(context.Background(), "expired-token", domain.ResetPasswordInput{
		Password: "NewValid456?", ConfirmPassword: "NewValid456?",
	})

	// Assert
	assertStatus(t, err, http.StatusBadRequest)
	appErr, _ := domain.AsAppError(err)
	if appErr.Message != msgInvalidResetToken {
		t.Errorf("expected %q, got %q", msgInvalidResetToken, appErr.Message)
	}
}

func TestChangePassword(t *testing.T) {
	user := seededUser(t, "ValidPass123!")

	tests := []struct {
		name  string
		input domain.ChangePasswordInput
		want  int
	}{
		{"missing field", domain.ChangePasswordInput{CurrentPassword: "ValidPass123!"}, http.StatusBadRequest},
		{"wrong current", domain.ChangePasswordInput{CurrentPassword: "Nope123!x", NewPassword: "NewValid456?", ConfirmNewPassword: "NewValid456?"}, http.StatusUnauthorized},
		{"mismatch", domain.ChangePasswordInput{CurrentPassword: "ValidPass123!", NewPassword: "NewValid456?", ConfirmNewPassword: "Other456?x"}, http.StatusBadRequest},
		{"weak", domain.ChangePasswordInput{CurrentPassword: "ValidPass123!", NewPassword: "weakpass", ConfirmNewPassword: "weakpass"}, http.StatusBadRequest},
		{"too long", domain.ChangePasswordInput{CurrentPassword: "ValidPass123!", NewPassword: "Aa1!" + strings.Repeat("x", 80), ConfirmNewPassword: "Aa1!" + strings.Repeat("x", 80)}, http.StatusBadRequest},
		{"ok", domain.ChangePasswordInput{CurrentPassword: "ValidPass123!", NewPassword: "NewValid456?", ConfirmNewPassword: "NewValid456?"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(user)
			err := f.service.ChangePassword(context.Background(), user.ID, tt.input)
			if tt.want == http.StatusOK {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				if !checkPassword(f.store.get(user.ID).Password, "NewValid456?") {
					t.Error("expected new password to be stored")
				}
				return
			}
			assertStatus(t, err, tt.want)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	// Arrange
	user := seededUser(t, "ValidPass123!")
	other := &domain.User{ID: "user-456", Username: "taken", Email: "taken@example.com", IsActive: true}
	f := newFixture(user, other)
	newName := "leslie_b"
	phone := "+33612345678"

	// Act
	updated, err := f.service.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdate{
		Username:    &newName,
		PhoneNumber: &phone,
		Interests:   []string{"Travel"},
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Username != newName || updated.PhoneNumber != phone {
		t.Errorf("unexpected profile: %+v", updated)
	}
	if len(updated.Interests) != 1 || updated.Interests[0] != "travel" {
		t.Errorf("expected interests [travel], got %v", updated.Interests)
	}

	taken := "taken@example.com"
	_, err = f.service.UpdateProfile(context.Background(), user.ID, domain.ProfileUpdate{Email: &taken})
	assertStatus(t, err, http.StatusConflict)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	// Arrange
	f := newFixture()
	token, _, err := f.service.tokens.GenerateToken(&domain.User{ID: "gone", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Act
	_, err = f.service.Authenticate(context.Background(), token)

	// Assert
	assertStatus(t, err, http.StatusUnauthorized)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	// Arrange
	log := newTestLogger()
	issuer := NewJWTService("other-secret", "", time.Hour, mocks.NewMockCache(), log)
	verifier := NewJWTService(testSecret, "", time.Hour, mocks.NewMockCache(), log)
	token, _, _ := issuer.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleUser})

	// Act
	_, err := verifier.ValidateToken(token)

	// Assert
	if err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestJWTService_ExpiredToken(t *testing.T) {
	// Arrange
	svc := NewJWTService(testSecret, "", time.Hour, mocks.NewMockCache(), newTestLogger())
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ID:        "jti-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		Role: domain.RoleUser,
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

	// Act
	_, err := svc.ValidateToken(token)

	// Assert
	if err == nil || !strings.Contains(err.Error(), "invalid token") {
		t.Fatalf("expected expired token error, got %v", err)
	}
}

func TestJWTService_RevokeTTLMatchesRemainingLifetime(t *testing.T) {
	// Arrange
	cache := mocks.NewMockCache()
	svc := NewJWTService(testSecret, "", time.Hour, cache, newTestLogger())
	token, _, _ := svc.GenerateToken(&domain.User{ID: "u1", Role: domain.RoleUser})
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	// Act
	if err := svc.RevokeToken(context.Background(), claims); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	// Assert
	ttl := cache.TTLs[revokedKey(claims.ID)]
	if ttl <= 59*time.Minute || ttl > time.Hour {
		t.Errorf("expected ttl close to one hour, got %v", ttl)
	}
	if !svc.IsTokenRevoked(context.Background(), claims.ID) {
		t.Error("expected token to be revoked")
	}
}

func TestRBACService_CheckPermission(t *testing.T) {
	rbac := NewRBACService(domain.DefaultPermissionTable(), newTestLogger())
	ctx := context.Background()

	if !rbac.CheckPermission(ctx, domain.RoleAdmin, domain.ResourceEvent, domain.ActionCreate) {
		t.Error("admin should create events")
	}
	if rbac.CheckPermission(ctx, domain.RoleUser, domain.ResourceEvent, domain.ActionCreate) {
		t.Error("user should not create events")
	}
	if rbac.CheckPermission(ctx, domain.Role("operator"), domain.ResourceEvent, domain.ActionRead) {
		t.Error("unknown role should be denied")
	}
	if rbac.GetPermissions(domain.Role("operator")) != nil {
		t.Error("unknown role should have no permissions")
	}

	perms := rbac.GetPermissions(domain.RoleGuest)
	perms[0] = domain.Permission{Resource: "x", Action: "y"}
	if rbac.GetPermissions(domain.RoleGuest)[0].Resource == "x" {
		t.Error("GetPermissions must return a copy")
	}
}

func TestSubscribeWelcomeMailer(t *testing.T) {
	// Arrange
	mq := mocks.NewMockMessageQueue()
	mq.Deliver = true
	mailer := &mocks.MockEmailService{}
	if err := SubscribeWelcomeMailer(mq, mailer, newTestLogger()); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Act
	_ = queue.PublishJSON(mq, queue.SubjectUserRegistered, queue.UserRegistered{UserID: "u1", Username: "leslie", Email: "leslie@example.com"})

	// Assert
	sent := mailer.SentTo("welcome")
	if len(sent) != 1 || sent[0].To != "leslie@example.com" {
		t.Fatalf("expected welcome mail to leslie@example.com, got %+v", sent)
	}
}
