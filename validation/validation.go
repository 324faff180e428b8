// Package validation provides pure input validation for the user-facing payloads.
package validation

import (
	"regexp"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RegisterInput is the registration payload shape checked by ValidateRegistration.
type RegisterInput struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
}

// LoginInput is the login payload shape checked by ValidateLogin.
type LoginInput struct {
	Email    string
	Password string
}

// Result is the outcome of a validation run. Errors holds one message per
// invalid field; a later check on the same field replaces the earlier one,
// and no check touches another field's entry. Message is the message of the
// last check that failed, which is what the response envelope surfaces.
type Result struct {
	Errors  map[string]string
	Message string
}

// IsValid reports whether every check passed.
func (r Result) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *Result) fail(field, message string) {
	r.Errors[field] = message
	r.Message = message
}

// ValidateRegistration checks presence and format of a registration payload.
func ValidateRegistration(in RegisterInput) Result {
	res := Result{Errors: make(map[string]string)}

	if in.Username == "" {
		res.fail("username", "Username field is required")
	}

	if in.Email == "" {
		res.fail("email", "Email field is required")
	} else if !emailRegex.MatchString(in.Email) {
		res.fail("email", "Email is invalid")
	}

	if in.Password == "" {
		res.fail("password", "Password field is required")
	}

	if in.PasswordConfirmation == "" {
		res.fail("passwordConfirmation", "Confirm password field is required")
	}

	if n := utf8.RuneCountInString(in.Password); n < 6 || n > 30 {
		res.fail("password", "Password must be at least 6 characters")
	}

	if in.Password != in.PasswordConfirmation {
		res.fail("passwordConfirmation", "Passwords must match")
	}

	return res
}

// ValidateLogin checks presence and format of a login payload.
func ValidateLogin(in LoginInput) Result {
	res := Result{Errors: make(map[string]string)}

	if in.Email == "" {
		res.fail("email", "Email field is required")
	} else if !emailRegex.MatchString(in.Email) {
		res.fail("email", "Email is invalid")
	}

	if in.Password == "" {
		res.fail("password", "Password field is required")
	}

	return res
}
