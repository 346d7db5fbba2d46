package httpx

import (
	"bytes"
	"io"
	"net/http"
	"strconv"

	apperrors "github.com/clinicdesk/ui-gateway/internal/errors"
	"github.com/clinicdesk/ui-gateway/internal/upstream"
)

// pathID parses the named path segment as a positive integer ID. On failure
// it writes a validation error and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteAppError(w, apperrors.Validationf("invalid %s %q", name, raw))
		return 0, false
	}
	return id, true
}

// queryInt parses an integer query parameter, falling back to def when absent
// or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

const maxUploadBytes = 8 << 20

// formUpload extracts an optional file part from a multipart request.
// A missing part returns (nil, true); only read failures are errors.
func formUpload(w http.ResponseWriter, r *http.Request, field string) (*upstream.Upload, bool) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return nil, true
	}
	if err != nil {
		WriteAppError(w, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "reading %s upload", field))
		return nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		WriteAppError(w, apperrors.Wrapf(err, apperrors.ErrCodeValidation, "reading %s upload", field))
		return nil, false
	}
	return &upstream.Upload{FieldName: field, FileName: header.Filename, Content: bytes.NewReader(content)}, true
}
