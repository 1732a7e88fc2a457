package enums

import "fmt"

// UserRole is the account role carried on users and access tokens.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleStaff    UserRole = "staff"
	UserRoleCustomer UserRole = "customer"
	UserRoleGuest    UserRole = "guest"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleStaff,
	UserRoleCustomer,
	UserRoleGuest,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// CanAdminister reports whether the role may use the admin console.
func (r UserRole) CanAdminister() bool {
	return r == UserRoleAdmin || r == UserRoleStaff
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
