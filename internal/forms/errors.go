// internal/forms/errors.go
//
// Pipeline error taxonomy.
//
// Context
// -------
// Every stage of the submission pipeline fails with an *Error carrying a
// Kind.  The HTTP layer maps Kind to a status code and a short, safe,
// user-facing reason; provider status codes and transport errors stay in
// the struct for logging and never reach the response body.
//
// MailFailed is special: it is recorded on the pipeline Result instead of
// aborting it, because the list/registration submissions that preceded the
// confirmation email are already durable on the provider side.

package forms

import (
	"fmt"
	"net/http"
)

// Kind classifies a pipeline failure.
type Kind int

const (
	// MalformedBody means the inbound body could not be decoded as form data.
	MalformedBody Kind = iota

	// InvalidSubmission covers missing fields, bad email syntax, and a
	// confirmation address that differs from the primary one.
	InvalidSubmission

	// MissingCaptchaToken means the CAPTCHA field was absent.  Detected
	// before any network call.
	MissingCaptchaToken

	// CaptchaRejected means the verification service answered success=false.
	CaptchaRejected

	// CaptchaUnavailable means the verification call itself failed.  Treated
	// as fatal rather than an implicit pass.
	CaptchaUnavailable

	// UnknownTarget means a signup code outside the closed target table.
	UnknownTarget

	// SubmissionFailed means a list or registrant call was refused by the
	// provider, or did not complete.
	SubmissionFailed

	// MailFailed means the confirmation email could not be sent.  Non-fatal.
	MailFailed

	// Unexpected covers everything else.  Mapped to 500 with no diagnostics
	// in the body.
	Unexpected
)

func (k Kind) String() string {
	switch k {
	case MalformedBody:
		return "malformed_body"
	case InvalidSubmission:
		return "invalid_submission"
	case MissingCaptchaToken:
		return "missing_captcha_token"
	case CaptchaRejected:
		return "captcha_rejected"
	case CaptchaUnavailable:
		return "captcha_unavailable"
	case UnknownTarget:
		return "unknown_target"
	case SubmissionFailed:
		return "submission_failed"
	case MailFailed:
		return "mail_failed"
	default:
		return "unexpected"
	}
}

// Error is the single failure type threaded through the pipeline.
type Error struct {
	Kind   Kind
	Reason string // user-facing, safe to echo
	Target string // target code, when the failure is per-target
	Status int    // provider HTTP status, when one was received
	Err    error  // wrapped transport or decode error, logging only
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Target != "" {
		msg += " target=" + e.Target
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" status=%d", e.Status)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the failure to the caller-facing status code.  Everything
// except Unexpected is a client-visible 4xx.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case UnknownTarget:
		return http.StatusForbidden
	case Unexpected:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// errInvalid builds an InvalidSubmission error with a field-level reason.
func errInvalid(reason string) *Error {
	return &Error{Kind: InvalidSubmission, Reason: reason}
}
