// internal/mailer/mailer.go
//
// Confirmation email rendering and dispatch.
//
// Context
// -------
// The mailer substitutes the recipient's name and a generated summary
// sentence into a fixed HTML template and submits the result as one
// Mailgun send.  The summary enumerates the selected lists with English
// conjunction rules; the implemented rule for three or more items uses the
// Oxford comma ("the X mailing list, the Y mailing list, and the Z
// mailing list").
//
// Mail failure never undoes or masks an accepted submission; the pipeline
// records it on the Result instead.

package mailer

import (
	"bytes"
	"context"
	"html/template"

	"github.com/virtualscienceforum/forms/internal/forms"
	"github.com/virtualscienceforum/forms/internal/mailgun"
)

// Sender is the slice of the Mailgun client the mailer needs.
type Sender interface {
	Send(ctx context.Context, msg mailgun.Message) error
}

// Mailer renders and sends confirmation email.  Safe for concurrent use.
type Mailer struct {
	sender Sender
	from   string // e.g. "Virtual Science Forum <no-reply@mail.virtualscienceforum.org>"
}

// New returns a Mailer sending through sender with the given From header.
func New(sender Sender, from string) *Mailer {
	return &Mailer{sender: sender, from: from}
}

var signupTemplate = template.Must(template.New("signup").Parse(`<html>
<body>
<p>Dear {{.Name}},</p>
<p>{{.Summary}}</p>
<p>Best regards,<br>
The Virtual Science Forum team</p>
</body>
</html>
`))

var registrationTemplate = template.Must(template.New("registration").Parse(`<html>
<body>
<p>Dear {{.Name}},</p>
<p>Thank you for registering!  You will receive the talk link by email closer to the event.</p>
<p>Best regards,<br>
The Virtual Science Forum team</p>
</body>
</html>
`))

// SignupSummary builds the thank-you sentence for the selected targets.
func SignupSummary(targets []forms.Target) string {
	items := make([]string, len(targets))
	for i, t := range targets {
		items[i] = "the " + t.Display + " mailing list"
	}
	return "Thank you for signing up for " + joinEnglish(items) + "."
}

// joinEnglish joins items as an English enumeration: "a", "a and b", or
// "a, b, and c" (Oxford comma for three or more).
func joinEnglish(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	out := ""
	for _, it := range items[:len(items)-1] {
		out += it + ", "
	}
	return out + "and " + items[len(items)-1]
}

// SendSignupConfirmation emails the mailing-list signup confirmation.
func (m *Mailer) SendSignupConfirmation(ctx context.Context, address, name string, targets []forms.Target) error {
	var body bytes.Buffer
	err := signupTemplate.Execute(&body, struct {
		Name    string
		Summary string
	}{Name: name, Summary: SignupSummary(targets)})
	if err != nil {
		return &forms.Error{Kind: forms.Unexpected, Err: err}
	}

	return m.sender.Send(ctx, mailgun.Message{
		From:    m.from,
		To:      address,
		Subject: "Thank you for signing up!",
		HTML:    body.String(),
	})
}

// SendRegistrationConfirmation emails the meeting-registration
// confirmation.
func (m *Mailer) SendRegistrationConfirmation(ctx context.Context, address, name string) error {
	var body bytes.Buffer
	err := registrationTemplate.Execute(&body, struct{ Name string }{Name: name})
	if err != nil {
		return &forms.Error{Kind: forms.Unexpected, Err: err}
	}

	return m.sender.Send(ctx, mailgun.Message{
		From:    m.from,
		To:      address,
		Subject: "Thank you for registering!",
		HTML:    body.String(),
	})
}
