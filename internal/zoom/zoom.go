// internal/zoom/zoom.go
//
// Zoom meeting-registrant client.
//
// Context
// -------
// Registration is one form-encoded POST to
// {base}/meetings/{id}/registrants.  Authentication is a short-lived HS256
// JWT (iss = API key, exp = now + lifetime) minted per call and presented
// as a bearer token, matching the provider's server-to-server JWT scheme.
//
// One call, no retry.  Non-2xx and transport errors both surface as
// SubmissionFailed so the pipeline's fail-fast policy applies uniformly.

package zoom

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/virtualscienceforum/forms/internal/forms"
	"github.com/virtualscienceforum/forms/internal/metrics"
)

// DefaultBaseURL is the Zoom REST API root.
const DefaultBaseURL = "https://api.zoom.us/v2"

const (
	callTimeout   = 10 * time.Second
	tokenLifetime = 90 * time.Second
)

// instructionsQuestion records consent to the participant instructions.
// The form only submits once the box is ticked, so the answer is fixed.
const instructionsQuestion = "Please confirm you agree to follow the participant instructions: " +
	"http://virtualscienceforum.org/#/attendeeguide"

// customQuestions is the JSON-encoded custom_questions entry sent with
// every registrant.
var customQuestions = func() string {
	raw, err := json.Marshal([]map[string]string{{
		"title": instructionsQuestion,
		"value": "Yes",
	}})
	if err != nil {
		panic(err)
	}
	return string(raw)
}()

// Client registers participants into one configured meeting.  Safe for
// concurrent use.
type Client struct {
	baseURL   string
	meetingID int64
	apiKey    string
	apiSecret string
	client    *http.Client
	now       func() time.Time // injectable for token tests
}

// New returns a Client for meetingID on baseURL (DefaultBaseURL when
// empty), signing bearer tokens with apiSecret.
func New(baseURL string, meetingID int64, apiKey, apiSecret string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		meetingID: meetingID,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    &http.Client{Timeout: callTimeout},
		now:       time.Now,
	}
}

// bearerToken mints the short-lived signed token for one call.
func (c *Client) bearerToken() (string, error) {
	claims := jwt.MapClaims{
		"iss": c.apiKey,
		"exp": c.now().Add(tokenLifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.apiSecret))
}

// AddRegistrant registers reg into the configured meeting.
func (c *Client) AddRegistrant(ctx context.Context, reg forms.Registrant) error {
	token, err := c.bearerToken()
	if err != nil {
		return &forms.Error{Kind: forms.Unexpected, Err: err}
	}

	// auto_approve keeps registrants from sitting pending on the provider
	// side; custom_questions carries the instructions consent.
	body := url.Values{
		"first_name":       {reg.FirstName},
		"last_name":        {reg.LastName},
		"email":            {reg.Email},
		"org":              {reg.Affiliation},
		"auto_approve":     {"1"},
		"custom_questions": {customQuestions},
	}
	endpoint := c.baseURL + "/meetings/" + strconv.FormatInt(c.meetingID, 10) + "/registrants"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(body.Encode()))
	if err != nil {
		return &forms.Error{Kind: forms.SubmissionFailed, Reason: "provider request failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	metrics.ObserveOutbound("zoom", statusOf(resp), err)
	if err != nil {
		return &forms.Error{Kind: forms.SubmissionFailed, Reason: "provider request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<14))
		zap.L().Warn("zoom refused registrant",
			zap.Int64("meeting_id", c.meetingID),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", raw),
		)
		return &forms.Error{
			Kind:   forms.SubmissionFailed,
			Reason: "registration was refused",
			Status: resp.StatusCode,
		}
	}
	return nil
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}
