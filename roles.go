package idp

// Role is a named role granted to a user.
type Role = string

const (
	// RoleGuest can authenticate and manage its own credentials
	RoleGuest Role = "guest"
	// RoleAdmin can additionally manage other accounts
	RoleAdmin Role = "admin"
)

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r Role) bool {
	switch r {
	case RoleGuest, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRoles validates a role set; an empty set is invalid, every user holds
// at least the guest role.
func ParseRoles(raws []string) ([]Role, error) {
	if len(raws) == 0 {
		return nil, newValidationError("at least one role is required")
	}
	out := make([]Role, 0, len(raws))
	for _, raw := range raws {
		if !IsValidRole(raw) {
			return nil, newValidationError("unknown role: " + raw)
		}
		out = append(out, raw)
	}
	return out, nil
}

// Capability is the set of administrative commands a role set admits. It is
// resolved from the persisted roles on every load, never stored.
type Capability interface {
	CanCreateUsers() bool
	CanDeleteUsers() bool
	CanUpdateRoles() bool
}

type adminCapability struct{}

func (adminCapability) CanCreateUsers() bool { return true }
func (adminCapability) CanDeleteUsers() bool { return true }
func (adminCapability) CanUpdateRoles() bool { return true }

type guestCapability struct{}

func (guestCapability) CanCreateUsers() bool { return false }
func (guestCapability) CanDeleteUsers() bool { return false }
func (guestCapability) CanUpdateRoles() bool { return false }

// ResolveCapability maps a role set to its behavior. Any set containing the
// admin role gets the admin capability; everything else is a guest.
func ResolveCapability(roles []Role) Capability {
	for _, role := range roles {
		if role == RoleAdmin {
			return adminCapability{}
		}
	}
	return guestCapability{}
}
