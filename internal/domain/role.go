package domain

import "fmt"

type Role string

const (
	RoleGuest      Role = "guest"
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superAdmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleGuest, RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Permission is a single {resource, action} grant.
type Permission struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

func (p Permission) String() string {
	return fmt.Sprintf("%s:%s", p.Resource, p.Action)
}

const (
	ResourceUser       = "user"
	ResourceEvent      = "event"
	ResourceContact    = "contact"
	ResourceNewsletter = "newsletter"

	ActionRead      = "read"
	ActionWrite     = "write"
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionManage    = "manage"
	ActionSubscribe = "subscribe"
	ActionSend      = "send"
)

// PermissionTable maps each role to its grants. Values are never mutated
// after construction; lookups hand out copies.
type PermissionTable struct {
	grants map[Role]map[Permission]struct{}
	order  map[Role][]Permission
}

// NewPermissionTable builds a table from role → permissions.
func NewPermissionTable(entries map[Role][]Permission) *PermissionTable {
	t := &PermissionTable{
		grants: make(map[Role]map[Permission]struct{}, len(entries)),
		order:  make(map[Role][]Permission, len(entries)),
	}
	for role, perms := range entries {
		set := make(map[Permission]struct{}, len(perms))
		list := make([]Permission, 0, len(perms))
		for _, p := range perms {
			if _, dup := set[p]; dup {
				continue
			}
			set[p] = struct{}{}
			list = append(list, p)
		}
		t.grants[role] = set
		t.order[role] = list
	}
	return t
}

// DefaultPermissionTable is the association's role hierarchy. Each role
// inherits the grants of the role below it.
func DefaultPermissionTable() *PermissionTable {
	guest := []Permission{
		{ResourceEvent, ActionRead},
		{ResourceNewsletter, ActionSubscribe},
	}
	user := append(append([]Permission{}, guest...),
		Permission{ResourceUser, ActionRead},
		Permission{ResourceUser, ActionWrite},
		Permission{ResourceContact, ActionWrite},
	)
	admin := append(append([]Permission{}, user...),
		Permission{ResourceUser, ActionManage},
		Permission{ResourceEvent, ActionCreate},
		Permission{ResourceEvent, ActionUpdate},
		Permission{ResourceEvent, ActionDelete},
		Permission{ResourceContact, ActionRead},
		Permission{ResourceContact, ActionManage},
		Permission{ResourceNewsletter, ActionSend},
	)
	superAdmin := append(append([]Permission{}, admin...),
		Permission{ResourceUser, ActionDelete},
	)

	return NewPermissionTable(map[Role][]Permission{
		RoleGuest:      guest,
		RoleUser:       user,
		RoleAdmin:      admin,
		RoleSuperAdmin: superAdmin,
	})
}

func (t *PermissionTable) Allows(role Role, resource, action string) bool {
	set, ok := t.grants[role]
	if !ok {
		return false
	}
	_, ok = set[Permission{Resource: resource, Action: action}]
	return ok
}

// For returns a copy of the permissions granted to role.
func (t *PermissionTable) For(role Role) []Permission {
	list := t.order[role]
	out := make([]Permission, len(list))
	copy(out, list)
	return out
}

// Strings returns the grants of role in "resource:action" form, as stored on User.
func (t *PermissionTable) Strings(role Role) []string {
	list := t.order[role]
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.String()
	}
	return out
}
