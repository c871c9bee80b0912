package domain

import "time"

// Investor is an account that commits capital to pools. Carries the KYC
// attributes collected at signup. Email is unique within the investors table.
type Investor struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	DateOfBirth  time.Time
	SSN          string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string
	Country      string
	PasswordHash string // argon2id encoded
	Verified     bool
	CreatedAt    time.Time
}

func (i Investor) DisplayName() string {
	return i.FirstName + " " + i.LastName
}

// Principal returns the investor as an authenticated principal.
func (i Investor) Principal() Principal {
	return Principal{ID: i.ID, Role: RoleInvestor, Name: i.DisplayName(), Email: i.Email}
}
