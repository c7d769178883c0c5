package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/hanzi-srs/internal/api/shared"
	"github.com/phrazzld/hanzi-srs/internal/domain"
)

// getPathKey extracts the vocabulary key from the URL path. chi matches on
// the raw path when one is set, so the parameter may still be escaped.
func getPathKey(r *http.Request) (string, error) {
	key := chi.URLParam(r, "key")
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", domain.ErrEmptyKey
	}
	return key, nil
}

// handleServiceError writes the mapped status code and safe message for err.
// fallback replaces the generic message for unexpected 5xx errors.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	statusCode := MapErrorToStatusCode(err)
	safeMessage := GetSafeErrorMessage(err)
	if statusCode == http.StatusInternalServerError && fallback != "" {
		safeMessage = fallback
	}
	shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
}

// decodeAndValidate decodes the JSON body into v and validates it, writing
// a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}
