package auth

const (
	RoleAdmin    = "ADMIN"
	RoleHR       = "HR"
	RoleManager  = "MANAGER"
	RoleEmployee = "EMPLOYEE"
)

var Roles = []string{RoleAdmin, RoleHR, RoleManager, RoleEmployee}

const UserStatusActive = "active"

// Principal is the identity attached to a request. It is built once from
// verified token claims and never mutated; a role change requires a new token.
type Principal struct {
	UserID     int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	CompanyID  int64  `json:"companyId"`
	EmployeeID int64  `json:"employeeId,omitempty"`
	SessionID  string `json:"-"`
}

func (p Principal) HasEmployee() bool {
	return p.EmployeeID > 0
}

func ValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
