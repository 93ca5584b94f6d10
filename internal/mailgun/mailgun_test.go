// internal/mailgun/mailgun_test.go
//
// Unit-tests for the Mailgun client's wire format.

package mailgun

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/virtualscienceforum/forms/internal/forms"
)

func TestAddMember_WireFormat(t *testing.T) {
	var gotPath string
	var gotForm url.Values
	var gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		_ = r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"message": "Mailing list member has been created"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "mail.virtualscienceforum.org", "key-secret")
	m := forms.Member{Address: "jo@example.org", Name: "Jo", Subscribed: true, Upsert: true}
	if err := c.AddMember(context.Background(), "vsf-announce", m); err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	if gotPath != "/lists/vsf-announce@mail.virtualscienceforum.org/members" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotUser != "api" || gotPass != "key-secret" {
		t.Fatalf("basic auth = %q:%q", gotUser, gotPass)
	}
	for key, want := range map[string]string{
		"address":    "jo@example.org",
		"name":       "Jo",
		"subscribed": "yes",
		"upsert":     "yes",
	} {
		if got := gotForm.Get(key); got != want {
			t.Errorf("form[%q] = %q, want %q", key, got, want)
		}
	}
}

func TestSend_WireFormat(t *testing.T) {
	var gotPath string
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"message": "Queued"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "mail.virtualscienceforum.org", "key-secret")
	err := c.Send(context.Background(), Message{
		From:    "no-reply@mail.virtualscienceforum.org",
		To:      "jo@example.org",
		Subject: "Thank you for signing up!",
		HTML:    "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/mail.virtualscienceforum.org/messages" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotForm.Get("to") != "jo@example.org" || gotForm.Get("html") != "<p>hi</p>" {
		t.Fatalf("form = %v", gotForm)
	}
}

func TestAddMember_ProviderRefusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "forbidden"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "mail.virtualscienceforum.org", "bad-key")
	err := c.AddMember(context.Background(), "vsf-announce", forms.Member{Address: "jo@example.org"})

	var perr *forms.Error
	if !errors.As(err, &perr) || perr.Kind != forms.SubmissionFailed {
		t.Fatalf("err = %v, want SubmissionFailed", err)
	}
	if perr.Status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", perr.Status)
	}
}

func TestSend_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New(srv.URL, "mail.virtualscienceforum.org", "key")
	err := c.Send(context.Background(), Message{To: "jo@example.org"})

	var perr *forms.Error
	if !errors.As(err, &perr) || perr.Kind != forms.SubmissionFailed {
		t.Fatalf("err = %v, want SubmissionFailed", err)
	}
	if perr.Status != 0 {
		t.Fatalf("status = %d, want 0 for transport error", perr.Status)
	}
}
