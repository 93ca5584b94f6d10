// internal/mailgun/mailgun.go
//
// Mailgun client: list membership and transactional email.
//
// Context
// -------
// Two operations, both single-shot form-encoded POSTs authenticated with
// HTTP basic auth ("api", key):
//
//   • AddMember — POST {base}/lists/{list}@{domain}/members with address,
//     name, and the subscribed/upsert annotations the pipeline set.
//   • Send      — POST {base}/{domain}/messages with from, to, subject,
//     and html.
//
// A non-2xx provider reply or a transport error is a SubmissionFailed
// (MailFailed reclassification for confirmation email happens in the
// pipeline).  No retry; the provider's own already-subscribed semantics
// are surfaced as-is.

package mailgun

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/virtualscienceforum/forms/internal/forms"
	"github.com/virtualscienceforum/forms/internal/metrics"
)

// DefaultBaseURL is the EU Mailgun API root the deployment uses.
const DefaultBaseURL = "https://api.eu.mailgun.net/v3"

const callTimeout = 10 * time.Second

// Client talks to one Mailgun domain.  Safe for concurrent use.
type Client struct {
	baseURL string
	domain  string // sending/list domain, e.g. mail.virtualscienceforum.org
	apiKey  string
	client  *http.Client
}

// New returns a Client for domain on baseURL (DefaultBaseURL when empty).
func New(baseURL, domain, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		domain:  domain,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: callTimeout},
	}
}

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// AddMember subscribes m to the list with the given local-part.  The full
// list address is list@domain.
func (c *Client) AddMember(ctx context.Context, list string, m forms.Member) error {
	body := url.Values{
		"address":    {m.Address},
		"name":       {m.Name},
		"subscribed": {yesNo(m.Subscribed)},
		"upsert":     {yesNo(m.Upsert)},
	}
	endpoint := c.baseURL + "/lists/" + list + "@" + c.domain + "/members"
	return c.post(ctx, endpoint, body)
}

// Send submits one transactional email through the domain's messages
// endpoint.
func (c *Client) Send(ctx context.Context, msg Message) error {
	body := url.Values{
		"from":    {msg.From},
		"to":      {msg.To},
		"subject": {msg.Subject},
		"html":    {msg.HTML},
	}
	endpoint := c.baseURL + "/" + c.domain + "/messages"
	return c.post(ctx, endpoint, body)
}

func (c *Client) post(ctx context.Context, endpoint string, body url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(body.Encode()))
	if err != nil {
		return &forms.Error{Kind: forms.SubmissionFailed, Reason: "provider request failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth("api", c.apiKey)

	resp, err := c.client.Do(req)
	metrics.ObserveOutbound("mailgun", statusOf(resp), err)
	if err != nil {
		return &forms.Error{Kind: forms.SubmissionFailed, Reason: "provider request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Body is provider diagnostics; keep it in the log, not the error
		// the caller may echo.
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<14))
		zap.L().Warn("mailgun refused request",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return &forms.Error{
			Kind:   forms.SubmissionFailed,
			Reason: "provider refused the submission",
			Status: resp.StatusCode,
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
