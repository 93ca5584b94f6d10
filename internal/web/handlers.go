// internal/web/handlers.go
//
// Endpoint handlers: parse, run the pipeline, map the outcome.
//
// Context
// -------
// Handlers stay thin.  Each one parses its typed request, runs the
// pipeline, and writes a plain-text reply.  Pipeline errors carry their
// own status mapping; a 500 never echoes diagnostics, only a generic
// line, with the detail left to the structured log.

package web

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/virtualscienceforum/forms/internal/forms"
)

type handlers struct {
	pipeline *forms.Pipeline
}

// live answers health probes and the curious.
func (h *handlers) live(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "Hello VSF participant!")
}

func (h *handlers) signup(w http.ResponseWriter, r *http.Request) {
	req, perr := forms.ParseSignup(r)
	if perr != nil {
		writeError(w, perr)
		return
	}

	res, perr := h.pipeline.RunSignup(r.Context(), req)
	if perr != nil {
		writeError(w, perr)
		return
	}

	msg := "Thank you for signing up!  A confirmation email is on its way."
	if res.MailErr != nil {
		msg = "Thank you for signing up!  Sending the confirmation email failed, " +
			"but your subscription was recorded."
	}
	writeText(w, http.StatusOK, msg)
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	req, perr := forms.ParseRegistration(r)
	if perr != nil {
		writeError(w, perr)
		return
	}

	res, perr := h.pipeline.RunRegistration(r.Context(), req)
	if perr != nil {
		writeError(w, perr)
		return
	}

	msg := "Thank you for registering!  A confirmation email is on its way."
	if res.MailErr != nil {
		msg = "Thank you for registering!  Sending the confirmation email failed, " +
			"but your registration was recorded."
	}
	writeText(w, http.StatusOK, msg)
}

// writeError maps a pipeline error onto the response.  Client-visible
// failures echo the short reason; anything mapped to 500 gets a generic
// body so provider diagnostics and internals never leak.
func writeError(w http.ResponseWriter, perr *forms.Error) {
	status := perr.HTTPStatus()
	if status == http.StatusInternalServerError {
		zap.L().Error("unexpected pipeline failure", zap.Error(perr))
		writeText(w, status, "Something went wrong on our side.  Please try again later.")
		return
	}
	writeText(w, status, perr.Reason)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
