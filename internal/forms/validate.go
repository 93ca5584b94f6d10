// internal/forms/validate.go
//
// Per-endpoint submission validation.
//
// Context
// -------
// Validation runs before any outbound call.  Rules are the field-presence
// checks of each endpoint plus one email-syntax rule: local@domain.tld
// where the label after the last dot is at least two letters.  "x@y"
// fails, "a@b.co" passes.  Registration additionally requires the
// confirmation address to equal the primary one.
//
// Validate methods are pure.  They never mutate the request and have no
// side effects.

package forms

import "regexp"

// emailPattern accepts local@domain with a final label of ≥2 letters.
// Deliberately stricter than net/mail, which accepts dotless domains.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`)

// ValidEmail reports whether s satisfies the syntax rule above.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validate checks a mailing-list signup.  The CAPTCHA token is checked by
// the verifier stage, not here, so that the missing-token error keeps its
// own kind.
func (s *SignupRequest) Validate() *Error {
	if s.Name == "" {
		return errInvalid("name is required")
	}
	if s.Email == "" {
		return errInvalid("email address is required")
	}
	if !ValidEmail(s.Email) {
		return errInvalid("email address is not valid")
	}
	if len(s.Lists) == 0 {
		return errInvalid("select at least one mailing list")
	}
	return nil
}

// Validate checks a meeting registration, including that the address and
// its confirmation match.
func (r *RegistrationRequest) Validate() *Error {
	if r.FirstName == "" {
		return errInvalid("first name is required")
	}
	if r.LastName == "" {
		return errInvalid("last name is required")
	}
	if r.Email == "" {
		return errInvalid("email address is required")
	}
	if !ValidEmail(r.Email) {
		return errInvalid("email address is not valid")
	}
	if r.EmailConfirm == "" {
		return errInvalid("email confirmation is required")
	}
	if r.Email != r.EmailConfirm {
		return errInvalid("email addresses do not match")
	}
	return nil
}
