package auth

// Roles carried in the token and checked by middleware.RequireRole.
const (
	RoleParent  = "PARENT"
	RoleKitchen = "KITCHEN"
	RoleAdmin   = "ADMIN"
)

func ValidRole(role string) bool {
	switch role {
	case RoleParent, RoleKitchen, RoleAdmin:
		return true
	}
	return false
}

// User is an account. Every account also owns a profile row with its
// display name and school.
type User struct {
	ID         string
	FullName   string
	Email      string
	Password   string
	Role       string
	SchoolCode string
}
