package domain

import "time"

// Borrower is an account that creates funding pools against properties it
// owns. Email is unique within the borrowers table.
type Borrower struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	DateOfBirth  time.Time
	PasswordHash string // argon2id encoded
	Verified     bool
	CreatedAt    time.Time
}

// DisplayName is the name shown to investors browsing pools.
func (b Borrower) DisplayName() string {
	return b.FirstName + " " + b.LastName
}

// Principal returns the borrower as an authenticated principal.
func (b Borrower) Principal() Principal {
	return Principal{ID: b.ID, Role: RoleBorrower, Name: b.DisplayName(), Email: b.Email}
}
