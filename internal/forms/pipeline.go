// internal/forms/pipeline.go
//
// Submission pipeline.
//
// Context
// -------
// One pipeline run serves one inbound request: parse → validate → verify
// CAPTCHA → submit to each target in posted order → send confirmation
// email.  Every stage short-circuits on its first error; nothing is
// retried or rolled back.  Outbound calls are strictly sequential because
// the fail-fast policy depends on ordered short-circuiting — a target that
// was accepted before a later one failed stays accepted.
//
// The confirmation email is the one non-fatal stage.  Its failure is
// recorded on the Result so the HTTP layer can report "accepted, but the
// confirmation email could not be sent".
//
// Collaborators are small interfaces so tests substitute counting stubs.

package forms

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/virtualscienceforum/forms/internal/metrics"
)

// Member is one mailing-list membership as forwarded to the list provider.
// Subscribed and Upsert are pipeline annotations, set here and never
// derived from user input.
type Member struct {
	Address    string
	Name       string
	Subscribed bool
	Upsert     bool
}

// Registrant is one meeting registration as forwarded to the meeting API.
type Registrant struct {
	FirstName   string
	LastName    string
	Email       string
	Affiliation string
}

// CaptchaVerifier checks a client-supplied challenge token.  A nil return
// means verified.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) error
}

// ListProvider adds one member to one mailing list.
type ListProvider interface {
	AddMember(ctx context.Context, list string, m Member) error
}

// MeetingRegistrar adds one registrant to the configured meeting.
type MeetingRegistrar interface {
	AddRegistrant(ctx context.Context, reg Registrant) error
}

// ConfirmationMailer sends the post-submission confirmation email.
type ConfirmationMailer interface {
	SendSignupConfirmation(ctx context.Context, address, name string, targets []Target) error
	SendRegistrationConfirmation(ctx context.Context, address, name string) error
}

// Pipeline composes the collaborators in fixed order.  It holds no mutable
// state; one value serves any number of concurrent requests.
type Pipeline struct {
	Captcha  CaptchaVerifier
	Lists    ListProvider
	Meetings MeetingRegistrar
	Mailer   ConfirmationMailer
}

// Result is the outcome of a successful run.  MailErr is non-nil when the
// submissions were accepted but the confirmation email failed.
type Result struct {
	Targets []Target
	MailErr *Error
}

// RunSignup executes the mailing-list pipeline.
func (p *Pipeline) RunSignup(ctx context.Context, req *SignupRequest) (*Result, *Error) {
	metrics.SubmissionsTotal.WithLabelValues("mailinglist").Inc()

	if err := req.Validate(); err != nil {
		return nil, p.fail("mailinglist", err)
	}

	// Resolve every code against the closed table before any outbound
	// call.  One unknown code rejects the whole submission.
	targets, err := ResolveTargets(req.Lists)
	if err != nil {
		return nil, p.fail("mailinglist", err)
	}

	if err := p.verifyCaptcha(ctx, req.CaptchaToken); err != nil {
		return nil, p.fail("mailinglist", err)
	}

	member := Member{Address: req.Email, Name: req.Name, Subscribed: true, Upsert: true}
	for _, t := range targets {
		if err := p.addMember(ctx, t, member); err != nil {
			return nil, p.fail("mailinglist", err)
		}
	}

	res := &Result{Targets: targets}
	if err := p.Mailer.SendSignupConfirmation(ctx, req.Email, req.Name, targets); err != nil {
		res.MailErr = p.mailFailure("mailinglist", err)
	}
	return res, nil
}

// RunRegistration executes the meeting-registration pipeline.  When the
// registrant consented to contact, membership in the general announcement
// list is derived from that consent after the registration succeeds.
func (p *Pipeline) RunRegistration(ctx context.Context, req *RegistrationRequest) (*Result, *Error) {
	metrics.SubmissionsTotal.WithLabelValues("register").Inc()

	if err := req.Validate(); err != nil {
		return nil, p.fail("register", err)
	}
	if err := p.verifyCaptcha(ctx, req.CaptchaToken); err != nil {
		return nil, p.fail("register", err)
	}

	reg := Registrant{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Affiliation: req.Affiliation,
	}
	if err := p.Meetings.AddRegistrant(ctx, reg); err != nil {
		return nil, p.fail("register", classify(err))
	}

	res := &Result{}
	if req.MayContact {
		t, _ := LookupTarget("signup-general")
		member := Member{Address: req.Email, Name: req.DisplayName(), Subscribed: true, Upsert: true}
		if err := p.addMember(ctx, t, member); err != nil {
			return nil, p.fail("register", err)
		}
		res.Targets = []Target{t}
	}

	if err := p.Mailer.SendRegistrationConfirmation(ctx, req.Email, req.DisplayName()); err != nil {
		res.MailErr = p.mailFailure("register", err)
	}
	return res, nil
}

// verifyCaptcha rejects an absent token before the verifier can issue any
// network call.
func (p *Pipeline) verifyCaptcha(ctx context.Context, token string) *Error {
	if token == "" {
		return &Error{Kind: MissingCaptchaToken, Reason: "CAPTCHA token is missing"}
	}
	if err := p.Captcha.Verify(ctx, token); err != nil {
		return classify(err)
	}
	return nil
}

func (p *Pipeline) addMember(ctx context.Context, t Target, m Member) *Error {
	if err := p.Lists.AddMember(ctx, t.List, m); err != nil {
		perr := classify(err)
		if perr.Target == "" {
			perr.Target = t.Code
		}
		return perr
	}
	return nil
}

// classify coerces a collaborator error into *Error, defaulting to
// Unexpected for anything untyped.
func classify(err error) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	return &Error{Kind: Unexpected, Err: err}
}

func (p *Pipeline) fail(endpoint string, err *Error) *Error {
	metrics.PipelineErrorsTotal.WithLabelValues(endpoint, err.Kind.String()).Inc()
	zap.L().Warn("submission rejected",
		zap.String("endpoint", endpoint),
		zap.String("kind", err.Kind.String()),
		zap.String("target", err.Target),
		zap.Int("provider_status", err.Status),
		zap.Error(err.Err),
	)
	return err
}

func (p *Pipeline) mailFailure(endpoint string, err error) *Error {
	perr := classify(err)
	perr.Kind = MailFailed
	metrics.PipelineErrorsTotal.WithLabelValues(endpoint, perr.Kind.String()).Inc()
	zap.L().Warn("confirmation email failed",
		zap.String("endpoint", endpoint),
		zap.Int("provider_status", perr.Status),
		zap.Error(perr.Err),
	)
	return perr
}
