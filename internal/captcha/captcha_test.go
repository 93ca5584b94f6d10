// internal/captcha/captcha_test.go
//
// Unit-tests for the CAPTCHA verifier against an httptest endpoint.

package captcha

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/virtualscienceforum/forms/internal/forms"
)

func TestVerify_Success(t *testing.T) {
	var gotSecret, gotResponse string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/siteverify" {
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
		_ = r.ParseForm()
		gotSecret = r.PostForm.Get("secret")
		gotResponse = r.PostForm.Get("response")
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := New(srv.URL, "shh")
	if err := v.Verify(context.Background(), "tok"); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if gotSecret != "shh" || gotResponse != "tok" {
		t.Fatalf("posted secret=%q response=%q", gotSecret, gotResponse)
	}
}

func TestVerify_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer srv.Close()

	err := New(srv.URL, "shh").Verify(context.Background(), "tok")
	var perr *forms.Error
	if !errors.As(err, &perr) || perr.Kind != forms.CaptchaRejected {
		t.Fatalf("err = %v, want CaptchaRejected", err)
	}
}

func TestVerify_TransportError_IsHardFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	err := New(srv.URL, "shh").Verify(context.Background(), "tok")
	var perr *forms.Error
	if !errors.As(err, &perr) || perr.Kind != forms.CaptchaUnavailable {
		t.Fatalf("err = %v, want CaptchaUnavailable", err)
	}
}

func TestVerify_UndecodableReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	err := New(srv.URL, "shh").Verify(context.Background(), "tok")
	var perr *forms.Error
	if !errors.As(err, &perr) || perr.Kind != forms.CaptchaUnavailable {
		t.Fatalf("err = %v, want CaptchaUnavailable", err)
	}
}
