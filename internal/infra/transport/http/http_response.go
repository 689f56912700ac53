package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/mkrupp/bookshop/internal/domain"
)

// MaxBodyBytes caps request bodies decoded by DecodeBody.
const MaxBodyBytes = 1 << 20

// ErrUnsupportedContentType is returned for bodies that are neither JSON nor a form.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}

// WriteMessage writes a {"message": ...} JSON body.
func WriteMessage(w http.ResponseWriter, status int, message string) error {
	return WriteJSON(w, status, domain.MessageResponse{Message: message})
}

// DecodeBody decodes a JSON body into v. Form-encoded bodies are accepted when
// fromForm is given; it receives the parsed form values.
func DecodeBody(w http.ResponseWriter, r *http.Request, v any, fromForm func(get func(string) string)) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	mediaType := "application/json"

	if ct := r.Header.Get("Content-Type"); ct != "" {
		parsed, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return errors.Join(domain.ErrValidation, fmt.Errorf("parse content type: %w", err))
		}

		mediaType = parsed
	}

	switch {
	case mediaType == "application/json":
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			return errors.Join(domain.ErrValidation, fmt.Errorf("decode json: %w", err))
		}
	case fromForm != nil && (mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"):
		if err := r.ParseForm(); err != nil {
			return errors.Join(domain.ErrValidation, fmt.Errorf("parse form: %w", err))
		}

		fromForm(r.FormValue)
	default:
		return errors.Join(domain.ErrValidation, fmt.Errorf("%w: %s", ErrUnsupportedContentType, mediaType))
	}

	return nil
}
