package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"cms/internal/domain"
	"cms/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
//
// A missing document or a signed-out user is not a failure the page can
// show inline: the message goes into the session and the browser returns to
// the listing. Validation and credential errors are 422 with a reason code.
// Everything else is logged and reported as a generic 500.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		notFound   *domain.NotFoundError
		notSigned  *domain.UnauthorizedError
		invalid    *domain.ValidationError
		credential *domain.CredentialError
	)

	switch {
	case errors.As(err, &notFound), errors.As(err, &notSigned):
		httputil.GetSession(r).SetMessage(err.Error())
		httputil.Redirect(w, r, "/")
	case errors.As(err, &invalid):
		httputil.RespondErrorWithExtras(w, invalid.StatusCode(), invalid.Message, map[string]interface{}{
			"reason": invalid.Reason,
		})
	case errors.As(err, &credential):
		httputil.RespondErrorWithExtras(w, credential.StatusCode(), credential.Message, map[string]interface{}{
			"reason": credential.Reason,
		})
	default:
		logger.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r),
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// handleFormError responds to a form that could not be read
func handleFormError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	httputil.RespondError(w, http.StatusBadRequest, err.Error())
}
