package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/seu-repo/ateleslie-api/internal/domain"
	"github.com/seu-repo/ateleslie-api/internal/ports"
)

// RBACService answers permission checks against an immutable role table.
type RBACService struct {
	table *domain.PermissionTable
	log   *zap.Logger
}

// NewRBACService wraps table. A nil table falls back to the default
// guest → user → admin → superAdmin hierarchy.
func NewRBACService(table *domain.PermissionTable, log *zap.Logger) *RBACService {
	if table == nil {
		table = domain.DefaultPermissionTable()
	}

	log.Info("RBAC service initialized")

	return &RBACService{
		table: table,
		log:   log,
	}
}

// CheckPermission verifies whether the given role may perform action on resource.
func (s *RBACService) CheckPermission(ctx context.Context, role domain.Role, resource, action string) bool {
	if !role.Valid() {
		s.log.Warn("unknown role attempted access",
			zap.String("role", string(role)),
			zap.String("resource", resource),
			zap.String("action", action),
		)
		return false
	}

	if s.table.Allows(role, resource, action) {
		s.log.Debug("permission granted",
			zap.String("role", string(role)),
			zap.String("resource", resource),
			zap.String("action", action),
		)
		return true
	}

	s.log.Warn("permission denied",
		zap.String("role", string(role)),
		zap.String("resource", resource),
		zap.String("action", action),
	)
	return false
}

// GetPermissions returns a copy of the grants for role, or nil for an unknown role.
func (s *RBACService) GetPermissions(role domain.Role) []domain.Permission {
	if !role.Valid() {
		s.log.Warn("requested permissions for unknown role",
			zap.String("role", string(role)),
		)
		return nil
	}
	return s.table.For(role)
}

func (s *RBACService) PermissionStrings(role domain.Role) []string {
	return s.table.Strings(role)
}

var _ ports.RBACService = (*RBACService)(nil)
