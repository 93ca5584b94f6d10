// internal/forms/request.go
//
// Typed request structs per endpoint.
//
// Context
// -------
// Each endpoint owns an explicit struct built exactly once at the parsing
// boundary, replacing free-form field bags.  Parsing is total: absent
// fields become zero values and are caught by Validate, not here.  Only a
// body that fails form decoding is an error at this stage.
//
// Field names follow the deployed HTML forms: "address" is the email
// field, "affiliation" maps onto the registrant's org on the provider
// side, "signup-checkbox" repeats once per selected list, and the CAPTCHA
// widget posts its token as "h-captcha-response".

package forms

import (
	"net/http"
	"net/url"
	"strings"
)

// Form field names shared by the endpoints.
const (
	fieldName         = "name"
	fieldFirstName    = "firstname"
	fieldLastName     = "lastname"
	fieldEmail        = "address"
	fieldEmailConfirm = "addressconfirm"
	fieldAffiliation  = "affiliation"
	fieldMayContact   = "maycontact"
	fieldSignup       = "signup-checkbox"
	fieldCaptcha      = "h-captcha-response"
)

// SignupRequest is a /mailinglist submission.
type SignupRequest struct {
	Name         string
	Email        string
	Lists        []string // client-supplied codes, in posted order
	CaptchaToken string
}

// RegistrationRequest is a /register submission.
type RegistrationRequest struct {
	FirstName    string
	LastName     string
	Email        string
	EmailConfirm string
	Affiliation  string
	MayContact   bool // consent checkbox; drives the derived list signup
	CaptchaToken string
}

// DisplayName is the registrant's full name as used in the confirmation
// email.
func (r *RegistrationRequest) DisplayName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// parseBody decodes the POST body as form data.  ParseForm tolerates an
// empty body, so the only failure mode is an undecodable one.
func parseBody(r *http.Request) (url.Values, *Error) {
	if err := r.ParseForm(); err != nil {
		return nil, &Error{Kind: MalformedBody, Reason: "request body is not form data", Err: err}
	}
	return r.PostForm, nil
}

// ParseSignup builds a SignupRequest from the inbound request.
func ParseSignup(r *http.Request) (*SignupRequest, *Error) {
	v, err := parseBody(r)
	if err != nil {
		return nil, err
	}
	return &SignupRequest{
		Name:         strings.TrimSpace(v.Get(fieldName)),
		Email:        strings.TrimSpace(v.Get(fieldEmail)),
		Lists:        v[fieldSignup],
		CaptchaToken: v.Get(fieldCaptcha),
	}, nil
}

// ParseRegistration builds a RegistrationRequest from the inbound request.
func ParseRegistration(r *http.Request) (*RegistrationRequest, *Error) {
	v, err := parseBody(r)
	if err != nil {
		return nil, err
	}
	return &RegistrationRequest{
		FirstName:    strings.TrimSpace(v.Get(fieldFirstName)),
		LastName:     strings.TrimSpace(v.Get(fieldLastName)),
		Email:        strings.TrimSpace(v.Get(fieldEmail)),
		EmailConfirm: strings.TrimSpace(v.Get(fieldEmailConfirm)),
		Affiliation:  strings.TrimSpace(v.Get(fieldAffiliation)),
		MayContact:   v.Get(fieldMayContact) != "",
		CaptchaToken: v.Get(fieldCaptcha),
	}, nil
}
