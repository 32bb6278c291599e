package domain

import "time"

// Role is the caller's role as resolved by the auth layer.
type Role string

const (
	RoleStudent Role = "Student"
	RoleFaculty Role = "Faculty"
	RoleAdmin   Role = "Admin"
)

// User is a registered participant. IDs are university serial numbers
// (e.g. "1rv23is071") assigned outside this service.
type User struct {
	ID        string
	Name      string
	Role      Role
	CreatedAt time.Time
}
