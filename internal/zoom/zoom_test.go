// internal/zoom/zoom_test.go
//
// Unit-tests for the Zoom registrant client and its bearer tokens.

package zoom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/virtualscienceforum/forms/internal/forms"
)

func TestAddRegistrant_WireFormat(t *testing.T) {
	var gotPath, gotAuth string
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		_ = r.ParseForm()
		gotForm = r.PostForm
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, 123456789, "api-key", "api-secret")
	reg := forms.Registrant{
		FirstName:   "Jo",
		LastName:    "Researcher",
		Email:       "jo@example.org",
		Affiliation: "Example University",
	}
	if err := c.AddRegistrant(context.Background(), reg); err != nil {
		t.Fatalf("AddRegistrant: %v", err)
	}

	if gotPath != "/meetings/123456789/registrants" {
		t.Fatalf("path = %q", gotPath)
	}
	for key, want := range map[string]string{
		"first_name":   "Jo",
		"last_name":    "Researcher",
		"email":        "jo@example.org",
		"org":          "Example University",
		"auto_approve": "1",
	} {
		if got := gotForm.Get(key); got != want {
			t.Errorf("form[%q] = %q, want %q", key, got, want)
		}
	}
	if got := gotForm.Get("custom_questions"); !strings.Contains(got, "attendeeguide") ||
		!strings.Contains(got, `"value":"Yes"`) {
		t.Fatalf("custom_questions = %q, want instructions consent entry", got)
	}

	// The bearer token must be an HS256 JWT signed with the configured
	// secret, carrying the API key as issuer.
	raw := strings.TrimPrefix(gotAuth, "Bearer ")
	if raw == gotAuth {
		t.Fatalf("Authorization = %q, want bearer token", gotAuth)
	}
	tok, err := jwt.Parse(raw, func(tk *jwt.Token) (any, error) {
		if tk.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("wrong signing method")
		}
		return []byte("api-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if iss, _ := tok.Claims.GetIssuer(); iss != "api-key" {
		t.Fatalf("iss = %q, want api-key", iss)
	}
}

func TestBearerToken_ShortLived(t *testing.T) {
	c := New("", 1, "api-key", "api-secret")
	fixed := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	raw, err := c.bearerToken()
	if err != nil {
		t.Fatalf("bearerToken: %v", err)
	}
	tok, err := jwt.Parse(raw, func(*jwt.Token) (any, error) { return []byte("api-secret"), nil },
		jwt.WithTimeFunc(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	exp, err := tok.Claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("exp claim: %v", err)
	}
	if got := exp.Time.Sub(fixed); got != tokenLifetime {
		t.Fatalf("token lifetime = %v, want %v", got, tokenLifetime)
	}
}

func TestAddRegistrant_Refusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code": 300, "message": "Meeting is over"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := New(srv.URL, 1, "k", "s")
	err := c.AddRegistrant(context.Background(), forms.Registrant{Email: "jo@example.org"})

	var perr *forms.Error
	if !errors.As(err, &perr) || perr.Kind != forms.SubmissionFailed {
		t.Fatalf("err = %v, want SubmissionFailed", err)
	}
	if perr.Status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", perr.Status)
	}
}
