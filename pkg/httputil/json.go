package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	bmerrors "github.com/matzehuels/battlemap/pkg/errors"
)

// MaxBodyBytes bounds request bodies read by DecodeJSON.
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Code    bmerrors.Code `json:"code"`
	Message string        `json:"message"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorBody with the status for its code.
func WriteError(w http.ResponseWriter, err error) {
	code := bmerrors.GetCode(err)
	if code == "" {
		code = bmerrors.ErrCodeInternal
	}
	msg := bmerrors.UserMessage(err)
	if code == bmerrors.ErrCodeInternal {
		msg = "internal error"
	}
	WriteJSON(w, bmerrors.HTTPStatus(code), ErrorBody{Code: code, Message: msg})
}

// DecodeJSON decodes the request body into v. Malformed bodies yield an
// INVALID_INPUT error.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return bmerrors.New(bmerrors.ErrCodeInvalidInput, "request body is empty")
		}
		return bmerrors.Wrap(bmerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	if dec.More() {
		return bmerrors.New(bmerrors.ErrCodeInvalidInput, "request body has trailing data")
	}
	return nil
}
