package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteAppError(w, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid JSON body"))
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// errorBody is the JSON error envelope the SPA consumes. RedirectTo is only
// set for expired sessions, instructing the SPA to hard-navigate to login.
type errorBody struct {
	Error      string   `json:"error"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
	RedirectTo string   `json:"redirect_to,omitempty"`
}

// WriteAppError translates an application error into the HTTP status and
// notice code the SPA expects. Domain errors carry the upstream messages
// verbatim; everything else maps to a fixed notice.
func WriteAppError(w http.ResponseWriter, err error) {
	body := errorBody{Message: err.Error(), Details: apperrors.GetDetails(err)}

	var status int
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
		body.Error = "session_expired"
		body.RedirectTo = "/login"
	case apperrors.ErrCodeForbidden:
		status = http.StatusForbidden
		body.Error = "forbidden"
	case apperrors.ErrCodeUpstream:
		status = http.StatusBadGateway
		body.Error = "server_error"
	case apperrors.ErrCodeNetwork:
		status = http.StatusBadGateway
		body.Error = "network_error"
	case apperrors.ErrCodeValidation:
		status = http.StatusBadRequest
		body.Error = "validation_error"
	case apperrors.ErrCodeDomain:
		status = http.StatusUnprocessableEntity
		body.Error = "domain_error"
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
		body.Error = "not_found"
	default:
		status = http.StatusInternalServerError
		body.Error = "internal_error"
	}

	WriteJSON(w, status, body)
}
