package models

// Role is the closed set of principals. A customer cannot change their own
// role; admins are provisioned by other admins of the same vertical.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}
