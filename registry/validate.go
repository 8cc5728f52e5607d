package registry

import (
	"regexp"
	"strings"

	"github.com/Skryldev/userdb/models"
)

// Validation is deliberately asymmetric: registration is strict, login only
// checks shape, and profile updates are not validated at all. Tightening any
// of these would change observable behavior.

var (
	nameRe = regexp.MustCompile(`^[A-Za-z]+$`)

	// Registration accepts gmail addresses only.
	registerEmailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@gmail\.com$`)

	// Login only checks a loose something@something.something shape.
	loginEmailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// passwordSpecials is the fixed special-character set a registration
// password must draw from.
const passwordSpecials = "!@#$%^&*"

const (
	msgName          = "Name must contain only letters and no spaces or special characters."
	msgRegisterEmail = "Invalid Gmail address."
	msgAddress       = "Address cannot be empty."
	msgPassword      = "Password must be at least 6 characters long, contain at least one uppercase letter, and one special character."
	msgLoginEmail    = "Invalid email format."
	msgLoginPassword = "Password must be at least 6 characters long."
)

// validateRegistration applies the strict registration rules and returns a
// field-keyed error, or nil when every rule passes.
func validateRegistration(p models.RegisterParams) *ValidationError {
	fields := map[string]string{}

	if !nameRe.MatchString(p.Name) {
		fields["name"] = msgName
	}
	if !registerEmailRe.MatchString(p.Email) {
		fields["email"] = msgRegisterEmail
	}
	if strings.TrimSpace(p.Address) == "" {
		fields["address"] = msgAddress
	}
	if !validRegistrationPassword(p.Password) {
		fields["password"] = msgPassword
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// validRegistrationPassword checks length >= 6, at least one uppercase
// letter, at least one character from passwordSpecials, and that every
// character is a letter, digit, or one of the allowed specials.
func validRegistrationPassword(pw string) bool {
	if len(pw) < 6 {
		return false
	}
	var hasUpper, hasSpecial bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		default:
			return false
		}
	}
	return hasUpper && hasSpecial
}

// validateLogin applies the loose login shape checks.
func validateLogin(email, password string) *ValidationError {
	fields := map[string]string{}

	if !loginEmailRe.MatchString(email) {
		fields["email"] = msgLoginEmail
	}
	if len(password) < 6 {
		fields["password"] = msgLoginPassword
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
