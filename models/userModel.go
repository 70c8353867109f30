package models

import "strings"

type Role string

const (
	RoleChef     Role = "chef"
	RoleDriver   Role = "driver"
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// NormalizeRole maps the free-form user_type strings different backend
// versions emit onto the closed Role enum. Matching is by substring, the way
// the dashboards have always detected roles ("cook", "cocina", "repartidor"
// and friends all appear in the wild). Unrecognized strings normalize to
// customer, the role with no staff actions.
func NormalizeRole(raw string) Role {
	r := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case r == "cook" || strings.Contains(r, "chef") || strings.Contains(r, "cocina") ||
		strings.Contains(r, "cocinero") || strings.Contains(r, "kitchen"):
		return RoleChef
	case r == "driver" || strings.Contains(r, "repartidor") || strings.Contains(r, "delivery") ||
		strings.Contains(r, "courier"):
		return RoleDriver
	case strings.Contains(r, "admin") || strings.Contains(r, "manager"):
		return RoleAdmin
	default:
		return RoleCustomer
	}
}

type User struct {
	User_id   string `json:"user_id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	User_type string `json:"user_type"` // raw backend string, kept for the wire
	Role      Role   `json:"role"`      // normalized, drives every policy table
}

// Session is the single owner of the bearer token. It lives in the session
// store and nowhere else.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
