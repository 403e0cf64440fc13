package domain

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
)

type User struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      Role
	Address   string
	CreatedAt time.Time
}

// Session is the identity record resolved from a session token.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}
