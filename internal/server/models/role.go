package models

// Role is the closed set of account roles the system recognises.
type Role string

const (
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether r grants access to privileged operations.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) String() string { return string(r) }
