package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// errUnauthorized means the request carries no live session.
var errUnauthorized = errors.New("unauthorized")

// badRequestError is a client mistake; Message is returned as the body.
type badRequestError struct {
	Message string
}

func (e *badRequestError) Error() string { return e.Message }

// reportError is a failure while assembling a report from GitHub.
type reportError struct {
	Err error
}

func (e *reportError) Error() string { return "Failed to generate report: " + e.Err.Error() }

func (e *reportError) Unwrap() error { return e.Err }

// writeError maps err to a status and a plain-text body. Clients show the
// body to the user verbatim.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := LoggerFrom(r.Context())

	var bad *badRequestError
	var rep *reportError
	switch {
	case errors.Is(err, errUnauthorized):
		log.Debug("request without session")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)

	case errors.As(err, &bad):
		log.Info("bad request", zap.String("reason", bad.Message))
		http.Error(w, bad.Message, http.StatusBadRequest)

	case errors.As(err, &rep):
		log.Warn("report generation failed", zap.Error(rep.Err))
		http.Error(w, rep.Error(), http.StatusInternalServerError)

	default:
		log.Error("unexpected error", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
