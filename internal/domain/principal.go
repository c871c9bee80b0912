package domain

// Role tags a principal as one of the two disjoint account types. The two
// identity tables are independent; role is a tag, never inheritance.
type Role string

const (
	RoleBorrower Role = "borrower"
	RoleInvestor Role = "investor"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleBorrower || r == RoleInvestor
}

// Principal is the authenticated identity resolved from a request, either a
// borrower or an investor depending on Role.
type Principal struct {
	ID    string
	Role  Role
	Name  string
	Email string
}
