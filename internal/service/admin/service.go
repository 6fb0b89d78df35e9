package admin

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
	"github.com/seu-repo/ateleslie-api/internal/service/auth"
)

const (
	msgUserNotFound   = "User not found"
	msgAdminNotFound  = "Administrator not found"
	msgDuplicateUser  = "Email or username already exists"
	msgSuperAdminOnly = "Only a super administrator can change super administrator accounts"
)

// Service implements AdminService
type Service struct {
	users ports.UserRepository
	perms *domain.PermissionTable
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a new admin service
func NewService(users ports.UserRepository, perms *domain.PermissionTable, log *zap.Logger) *Service {
	if perms == nil {
		perms = domain.DefaultPermissionTable()
	}
	return &Service{users: users, perms: perms, log: log, now: time.Now}
}

// GetUsers lists accounts with the given roles, regular users by default.
func (s *Service) GetUsers(ctx context.Context, filter ports.UserFilter, page domain.PageQuery) (*ports.UserList, error) {
	for _, r := range filter.Roles {
		if !r.Valid() {
			return nil, domain.BadRequest("Invalid role filter")
		}
	}
	if len(filter.Roles) == 0 {
		filter.Roles = []domain.Role{domain.RoleUser}
	}
	return s.list(ctx, filter, page)
}

func (s *Service) GetAdmins(ctx context.Context, search string, page domain.PageQuery) (*ports.UserList, error) {
	return s.list(ctx, ports.UserFilter{
		Roles:  []domain.Role{domain.RoleAdmin, domain.RoleSuperAdmin},
		Search: search,
	}, page)
}

func (s *Service) list(ctx context.Context, filter ports.UserFilter, page domain.PageQuery) (*ports.UserList, error) {
	page = page.Normalize()
	users, total, err := s.users.List(ctx, filter, page)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return &ports.UserList{
		Users:      users,
		Pagination: domain.NewPagination(page, total).Named("totalUsers"),
	}, nil
}

func (s *Service) UpdateAdmin(ctx context.Context, id string, update domain.AdminUpdate) (*domain.User, error) {
	if err := domain.Validate(update); err != nil {
		return nil, err
	}
	user, err := s.admin(ctx, id)
	if err != nil {
		return nil, err
	}

	email := domain.NormalizeEmail(update.Email)
	if err := s.ensureUnique(ctx, id, email, update.Username); err != nil {
		return nil, err
	}

	user.Username = update.Username
	user.Email = email
	user.UpdatedAt = s.now()
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("Administrator updated", zap.String("user_id", id))
	return user, nil
}

func (s *Service) ChangeAdminPassword(ctx context.Context, id string, input domain.ChangePasswordInput) error {
	user, err := s.admin(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.ChangeUserPassword(ctx, s.users, user, input, s.now()); err != nil {
		return err
	}
	s.log.Info("Administrator password changed", zap.String("user_id", id))
	return nil
}

func (s *Service) UpdateUserStatus(ctx context.Context, actor domain.Role, id string, active bool) (*domain.User, error) {
	user, err := s.user(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleSuperAdmin && actor != domain.RoleSuperAdmin {
		return nil, domain.Forbidden(msgSuperAdminOnly)
	}
	user.IsActive = active
	user.UpdatedAt = s.now()
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("User status updated", zap.String("user_id", id), zap.Bool("active", active))
	return user, nil
}

// UpdateUserRole changes the role and replaces the stored permission list
// with the role's grants.
func (s *Service) UpdateUserRole(ctx context.Context, actor domain.Role, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.BadRequest("Invalid role")
	}
	user, err := s.user(ctx, id)
	if err != nil {
		return nil, err
	}
	if (role == domain.RoleSuperAdmin || user.Role == domain.RoleSuperAdmin) && actor != domain.RoleSuperAdmin {
		return nil, domain.Forbidden(msgSuperAdminOnly)
	}
	user.Role = role
	user.Permissions = s.perms.Strings(role)
	user.UpdatedAt = s.now()
	if err := s.save(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("User role updated", zap.String("user_id", id), zap.String("role", string(role)))
	return user, nil
}

func (s *Service) user(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if user == nil {
		return nil, domain.NotFound(msgUserNotFound)
	}
	return user, nil
}

func (s *Service) admin(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, domain.Internal(err)
	}
	if user == nil || !user.Role.IsAdmin() {
		return nil, domain.NotFound(msgAdminNotFound)
	}
	return user, nil
}

func (s *Service) ensureUnique(ctx context.Context, selfID, email, username string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return domain.Internal(err)
	}
	if existing != nil && existing.ID != selfID {
		return domain.Conflict(msgDuplicateUser)
	}
	existing, err = s.users.FindByUsername(ctx, username)
	if err != nil {
		return domain.Internal(err)
	}
	if existing != nil && existing.ID != selfID {
		return domain.Conflict(msgDuplicateUser)
	}
	return nil
}

func (s *Service) save(ctx context.Context, user *domain.User) error {
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Conflict(msgDuplicateUser)
		}
		return domain.Internal(err)
	}
	return nil
}

var _ ports.AdminService = (*Service)(nil)
