//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
	"github.com/seu-repo/ateleslie-api/pkg/config"
)

// setupDB connects to DATABASE_URL when set (CI) or starts a postgres
// container otherwise.
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()
	logger, _ := zap.NewDevelopment()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		container, err := tcpostgres.RunContainer(ctx,
			testcontainers.WithImage("postgres:16-alpine"),
			tcpostgres.WithDatabase("ateleslie_test"),
			tcpostgres.WithUsername("ateleslie"),
			tcpostgres.WithPassword("ateleslie_test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			t.Skipf("postgres container unavailable: %v", err)
		}
		t.Cleanup(func() { _ = container.Terminate(context.Background()) })

		host, err := container.Host(ctx)
		if err != nil {
			t.Fatalf("Failed to get postgres host: %v", err)
		}
		port, err := container.MappedPort(ctx, "5432")
		if err != nil {
			t.Fatalf("Failed to get postgres port: %v", err)
		}
		url = fmt.Sprintf("postgres://ateleslie:ateleslie_test@%s:%s/ateleslie_test?sslmode=disable", host, port.Port())
	}

	// Wait for connection
	raw, err := sql.Open("postgres", url)
	if err != nil {
		t.Fatalf("Failed to open postgres: %v", err)
	}
	for i := 0; i < 30; i++ {
		if err := raw.Ping(); err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	raw.Close()

	db, err := NewConnection(config.DatabaseConfig{URL: url}, logger)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	if err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	for _, table := range []string{"users", "events", "contacts", "newsletters"} {
		db.Exec("TRUNCATE TABLE " + table + " CASCADE")
	}
	return db
}

func newUser(username, email string) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  "hashed",
		Role:      domain.RoleUser,
		IsActive:  true,
		Interests: []string{"arts"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	db := setupDB(t)
	logger, _ := zap.NewDevelopment()
	repo := NewUserRepository(db, logger)
	ctx := context.Background()

	if err := repo.Save(ctx, newUser("leslie", "leslie@example.com")); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	err := repo.Save(ctx, newUser("other", "leslie@example.com"))
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate email, got %v", err)
	}
}

func TestUserRepository_FindByResetToken(t *testing.T) {
	db := setupDB(t)
	logger, _ := zap.NewDevelopment()
	repo := NewUserRepository(db, logger)
	ctx := context.Background()

	user := newUser("resetme", "reset@example.com")
	hash := "abc123"
	expires := time.Now().Add(10 * time.Minute)
	user.ResetPasswordToken = &hash
	user.ResetPasswordExpires = &expires
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	found, err := repo.FindByResetToken(ctx, hash, time.Now())
	if err != nil || found == nil {
		t.Fatalf("expected user by reset token, got %v, %v", found, err)
	}

	found, err = repo.FindByResetToken(ctx, hash, expires.Add(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != nil {
		t.Error("expired token must not match")
	}
}

func TestEventRepository_ListPaginates(t *testing.T) {
	db := setupDB(t)
	logger, _ := zap.NewDevelopment()
	repo := NewEventRepository(db, logger)
	ctx := context.Background()

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		e := &domain.Event{
			ID:          uuid.New().String(),
			Title:       fmt.Sprintf("Atelier %d", i),
			Description: "Painting workshop for beginners",
			StartDate:   base.AddDate(0, 0, i),
			EndDate:     base.AddDate(0, 0, i).Add(2 * time.Hour),
			Location:    "Paris",
			Category:    "arts",
			IsActive:    true,
		}
		if err := repo.Save(ctx, e); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	events, total, err := repo.List(ctx, domain.EventFilter{Search: "atelier"}, domain.PageQuery{Page: 2, Limit: 3})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 7 {
		t.Errorf("expected total 7, got %d", total)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events on page 2, got %d", len(events))
	}
	if len(events) > 0 && events[0].Title != "Atelier 3" {
		t.Errorf("expected ascending start dates, first was %s", events[0].Title)
	}
}

func TestNewsletterRepository_MarkSentClaimsOnce(t *testing.T) {
	db := setupDB(t)
	logger, _ := zap.NewDevelopment()
	repo := NewNewsletterRepository(db, logger)
	ctx := context.Background()

	n := &domain.Newsletter{
		ID:      uuid.New().String(),
		Type:    domain.NewsletterTypeNewsletter,
		Title:   "Spring news",
		Content: "Our spring programme is out.",
		Status:  domain.NewsletterStatusScheduled,
	}
	if err := repo.Save(ctx, n); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	ok, err := repo.MarkSent(ctx, n.ID, time.Now(), 3)
	if err != nil || !ok {
		t.Fatalf("first claim should win, got %v, %v", ok, err)
	}
	ok, err = repo.MarkSent(ctx, n.ID, time.Now(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("second claim must lose")
	}
}

func TestUserRepository_SearchTreatsWildcardsLiterally(t *testing.T) {
	db := setupDB(t)
	logger, _ := zap.NewDevelopment()
	repo := NewUserRepository(db, logger)
	ctx := context.Background()

	for _, u := range []*domain.User{
		newUser("leslie", "leslie@example.com"),
		newUser("under_score", "under@example.com"),
	} {
		if err := repo.Save(ctx, u); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	tests := []struct {
		search string
		want   int
	}{
		{"%", 0},
		{"_", 1},
		{"les", 1},
	}
	for _, tt := range tests {
		users, total, err := repo.List(ctx, ports.UserFilter{Search: tt.search}, domain.PageQuery{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("list %q failed: %v", tt.search, err)
		}
		if int(total) != tt.want || len(users) != tt.want {
			t.Errorf("search %q: expected %d match(es), got total %d len %d", tt.search, tt.want, total, len(users))
		}
	}
}
