package user

import "github.com/voltdepot/genstore-backend/internal/auth"

type User struct {
	ID        int    `json:"userId"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// ValidRole reports whether role is one of the supported account roles.
func ValidRole(role string) bool {
	switch role {
	case auth.RoleUser, auth.RoleStaff, auth.RoleAdmin:
		return true
	}
	return false
}
