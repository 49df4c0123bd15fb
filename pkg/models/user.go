package models

// Role of a backend user
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an account on the backend
type User struct {
	ID       int64  `json:"id" db:"id"`
	Email    string `json:"email" db:"email"`
	Password string `json:"password,omitempty" db:"password"`
	Role     Role   `json:"role" db:"role"`
}

// IsAdmin reports whether the user may use the admin console
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Credentials are sent on login and registration
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
