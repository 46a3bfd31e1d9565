package models

// Roles a user can hold. Admins create and run projects; members get
// assigned to them.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	Theme        string `json:"theme"`
}
