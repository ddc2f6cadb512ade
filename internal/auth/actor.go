package auth

// Role is the coarse permission level assigned by the identity provider.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleCleaner Role = "cleaner"
)

// Actor describes the authenticated user attached to a request. Identity is
// owned by the external provider; this service only consumes it.
type Actor struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	CompanyID int64  `json:"company_id"`
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanViewActivity reports whether the actor may read the activity log.
func (a Actor) CanViewActivity() bool {
	return a.Role == RoleAdmin || a.Role == RoleManager
}
