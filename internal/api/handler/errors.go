package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/draftboard/internal/api/apierr"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// decodeJSON reads a JSON body into v, reporting malformed bodies as
// invalid requests
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return false
	}
	return true
}
