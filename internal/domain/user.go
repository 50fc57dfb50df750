package domain

import "time"

// Role of a platform user
type Role string

const (
	RoleDefault Role = "default"
	RoleAdmin   Role = "admin"
)

// User is a registered customer or administrator
type User struct {
	ID               int64
	FirstName        string
	LastName         string
	Email            string
	PasswordHash     string
	Phone            *string
	Role             Role
	AcceptTerms      bool
	AcceptNewsletter bool
	CreatedAt        time.Time
}

// IsAdmin reports whether the user has admin rights
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName returns "First Last"
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
