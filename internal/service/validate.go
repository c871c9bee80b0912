package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrValidation is the sentinel every field-level validation failure wraps, so
// handlers can map the whole class to 400 with errors.Is.
var ErrValidation = errors.New("invalid_input")

// ValidationError carries the field and message for a 400 response body.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalidField(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\d{10}$`)
	ssnRe   = regexp.MustCompile(`^\d{9}$`)
)

func validEmail(email string) bool { return emailRe.MatchString(email) }

// digitsOnly strips every non-digit so "(555) 123-4567" and "555.123.4567"
// normalize to the same value before length checks.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validPhone(phone string) bool { return phoneRe.MatchString(digitsOnly(phone)) }
func validSSN(ssn string) bool     { return ssnRe.MatchString(digitsOnly(ssn)) }

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// parseCurrency converts user-facing money input ("$10,000.50") into an exact
// decimal. Only `$`, `,` and spaces are tolerated; anything else fails.
func parseCurrency(s string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if cleaned == "" {
		return decimal.Zero, errors.New("empty amount")
	}
	return decimal.NewFromString(cleaned)
}

// parseOptionalCurrency resolves empty or unparseable optional numerics to
// absent rather than zero.
func parseOptionalCurrency(s string) *decimal.Decimal {
	d, err := parseCurrency(s)
	if err != nil {
		return nil
	}
	return &d
}
