package admin

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/mocks"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func assertStatus(t *testing.T, err error, want int) {
	t.Helper()
	appErr, ok := domain.AsAppError(err)
	if !ok || appErr.Code != want {
		t.Fatalf("expected status %d, got %v", want, err)
	}
}

func usersRepo(users ...domain.User) *mocks.MockUserRepository {
	byID := make(map[string]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return &mocks.MockUserRepository{
		SaveFunc: func(ctx context.Context, u *domain.User) error {
			byID[u.ID] = *u
			return nil
		},
		FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
			if u, ok := byID[id]; ok {
				return &u, nil
			}
			return nil, nil
		},
		FindByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			for _, u := range byID {
				if u.Email == email {
					return &u, nil
				}
			}
			return nil, nil
		},
		FindByUsernameFunc: func(ctx context.Context, username string) (*domain.User, error) {
			for _, u := range byID {
				if u.Username == username {
					return &u, nil
				}
			}
			return nil, nil
		},
	}
}

func TestGetUsers_DefaultsToUserRole(t *testing.T) {
	// Arrange
	var got ports.UserFilter
	repo := &mocks.MockUserRepository{
		ListFunc: func(ctx context.Context, f ports.UserFilter, p domain.PageQuery) ([]domain.User, int64, error) {
			got = f
			return []domain.User{{ID: "u1"}}, 1, nil
		},
	}
	svc := NewService(repo, nil, newTestLogger())

	// Act
	list, err := svc.GetUsers(context.Background(), ports.UserFilter{Search: "ann"}, domain.PageQuery{})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got.Roles) != 1 || got.Roles[0] != domain.RoleUser || got.Search != "ann" {
		t.Errorf("unexpected filter %+v", got)
	}
	if list.Pagination.TotalKey != "totalUsers" || list.Pagination.Total != 1 {
		t.Errorf("unexpected pagination %+v", list.Pagination)
	}

	_, err = svc.GetUsers(context.Background(), ports.UserFilter{Roles: []domain.Role{"owner"}}, domain.PageQuery{})
	assertStatus(t, err, http.StatusBadRequest)
}

func TestGetAdmins_ListsAdminRoles(t *testing.T) {
	var got ports.UserFilter
	repo := &mocks.MockUserRepository{
		ListFunc: func(ctx context.Context, f ports.UserFilter, p domain.PageQuery) ([]domain.User, int64, error) {
			got = f
			return nil, 0, nil
		},
	}
	svc := NewService(repo, nil, newTestLogger())

	list, err := svc.GetAdmins(context.Background(), "", domain.PageQuery{})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got.Roles) != 2 || got.Roles[0] != domain.RoleAdmin || got.Roles[1] != domain.RoleSuperAdmin {
		t.Errorf("unexpected roles %v", got.Roles)
	}
	if list.Users == nil {
		t.Error("expected empty slice, not nil")
	}
}

func TestUpdateAdmin(t *testing.T) {
	repo := usersRepo(
		domain.User{ID: "a1", Username: "alice", Email: "alice@example.com", Role: domain.RoleAdmin},
		domain.User{ID: "a2", Username: "bob", Email: "bob@example.com", Role: domain.RoleAdmin},
		domain.User{ID: "u1", Username: "carol", Email: "carol@example.com", Role: domain.RoleUser},
	)
	svc := NewService(repo, nil, newTestLogger())

	updated, err := svc.UpdateAdmin(context.Background(), "a1", domain.AdminUpdate{Username: "alice_b", Email: "Alice.B@Example.com"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Username != "alice_b" || updated.Email != "alice.b@example.com" {
		t.Errorf("unexpected admin %+v", updated)
	}

	_, err = svc.UpdateAdmin(context.Background(), "a1", domain.AdminUpdate{Username: "bob", Email: "alice@example.com"})
	assertStatus(t, err, http.StatusConflict)

	_, err = svc.UpdateAdmin(context.Background(), "u1", domain.AdminUpdate{Username: "carol", Email: "carol@example.com"})
	assertStatus(t, err, http.StatusNotFound)
}

func TestChangeAdminPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("OldPassw0rd!"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	repo := usersRepo(domain.User{ID: "a1", Username: "alice", Email: "alice@example.com", Role: domain.RoleSuperAdmin, Password: string(hash)})
	svc := NewService(repo, nil, newTestLogger())

	tests := []struct {
		name  string
		id    string
		input domain.ChangePasswordInput
		want  int
	}{
		{"unknown admin", "nope", domain.ChangePasswordInput{CurrentPassword: "OldPassw0rd!", NewPassword: "NewPassw0rd!", ConfirmNewPassword: "NewPassw0rd!"}, http.StatusNotFound},
		{"wrong current", "a1", domain.ChangePasswordInput{CurrentPassword: "wrong", NewPassword: "NewPassw0rd!", ConfirmNewPassword: "NewPassw0rd!"}, http.StatusUnauthorized},
		{"weak new", "a1", domain.ChangePasswordInput{CurrentPassword: "OldPassw0rd!", NewPassword: "weak", ConfirmNewPassword: "weak"}, http.StatusBadRequest},
		{"ok", "a1", domain.ChangePasswordInput{CurrentPassword: "OldPassw0rd!", NewPassword: "NewPassw0rd!", ConfirmNewPassword: "NewPassw0rd!"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangeAdminPassword(context.Background(), tt.id, tt.input)
			if tt.want == http.StatusOK {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			assertStatus(t, err, tt.want)
		})
	}

	stored, _ := repo.FindByID(context.Background(), "a1")
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("NewPassw0rd!")) != nil {
		t.Error("expected new password stored")
	}
}

func TestUpdateUserStatus(t *testing.T) {
	repo := usersRepo(domain.User{ID: "u1", IsActive: true})
	svc := NewService(repo, nil, newTestLogger())

	u, err := svc.UpdateUserStatus(context.Background(), domain.RoleAdmin, "u1", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if u.IsActive {
		t.Error("expected user deactivated")
	}

	_, err = svc.UpdateUserStatus(context.Background(), domain.RoleAdmin, "ghost", true)
	assertStatus(t, err, http.StatusNotFound)
}

func TestUpdateUserRole_RederivesPermissions(t *testing.T) {
	// Arrange
	table := domain.DefaultPermissionTable()
	repo := usersRepo(domain.User{ID: "u1", Role: domain.RoleUser, Permissions: table.Strings(domain.RoleUser)})
	svc := NewService(repo, table, newTestLogger())

	// Act
	u, err := svc.UpdateUserRole(context.Background(), domain.RoleAdmin, "u1", domain.RoleAdmin)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if u.Role != domain.RoleAdmin {
		t.Errorf("expected admin, got %s", u.Role)
	}
	found := false
	for _, p := range u.Permissions {
		if p == "user:manage" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected user:manage in %v", u.Permissions)
	}

	_, err = svc.UpdateUserRole(context.Background(), domain.RoleAdmin, "u1", "owner")
	assertStatus(t, err, http.StatusBadRequest)
}

func TestSuperAdminAccountsNeedSuperAdmin(t *testing.T) {
	tests := []struct {
		name   string
		actor  domain.Role
		target domain.Role
		act    func(svc *Service, actor domain.Role) error
		want   int
	}{
		{"admin cannot grant superAdmin", domain.RoleAdmin, domain.RoleAdmin, func(svc *Service, actor domain.Role) error {
			_, err := svc.UpdateUserRole(context.Background(), actor, "t1", domain.RoleSuperAdmin)
			return err
		}, http.StatusForbidden},
		{"admin cannot demote superAdmin", domain.RoleAdmin, domain.RoleSuperAdmin, func(svc *Service, actor domain.Role) error {
			_, err := svc.UpdateUserRole(context.Background(), actor, "t1", domain.RoleUser)
			return err
		}, http.StatusForbidden},
		{"admin cannot deactivate superAdmin", domain.RoleAdmin, domain.RoleSuperAdmin, func(svc *Service, actor domain.Role) error {
			_, err := svc.UpdateUserStatus(context.Background(), actor, "t1", false)
			return err
		}, http.StatusForbidden},
		{"superAdmin can grant superAdmin", domain.RoleSuperAdmin, domain.RoleAdmin, func(svc *Service, actor domain.Role) error {
			_, err := svc.UpdateUserRole(context.Background(), actor, "t1", domain.RoleSuperAdmin)
			return err
		}, http.StatusOK},
		{"superAdmin can deactivate superAdmin", domain.RoleSuperAdmin, domain.RoleSuperAdmin, func(svc *Service, actor domain.Role) error {
			_, err := svc.UpdateUserStatus(context.Background(), actor, "t1", false)
			return err
		}, http.StatusOK},
		{"admin can still deactivate a user", domain.RoleAdmin, domain.RoleUser, func(svc *Service, actor domain.Role) error {
			_, err := svc.UpdateUserStatus(context.Background(), actor, "t1", false)
			return err
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			repo := usersRepo(domain.User{ID: "t1", Role: tt.target, IsActive: true})
			svc := NewService(repo, nil, newTestLogger())

			// Act
			err := tt.act(svc, tt.actor)

			// Assert
			if tt.want == http.StatusOK {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			assertStatus(t, err, tt.want)
			stored, _ := repo.FindByID(context.Background(), "t1")
			if stored.Role != tt.target || !stored.IsActive {
				t.Errorf("expected account unchanged, got %+v", stored)
			}
		})
	}
}
