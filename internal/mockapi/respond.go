package mockapi

import (
	"encoding/json"
	"net/http"

	"github.com/absensi/absensi/internal/api"
)

const (
	msgSuccess      = "Success"
	msgUnauthorized = "Unauthorized"
	msgNotFound     = "Data not found"
	msgBadRequest   = "Invalid request body"
	msgReason       = "Please provide a reason"
)

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(w http.ResponseWriter, status int, content any, msg string) {
	writeJSON(w, status, api.Envelope[any]{Content: content, Message: msg})
}

func fail(w http.ResponseWriter, status int, msg string, errs map[string][]string) {
	env := api.Envelope[any]{Message: msg}
	if len(errs) > 0 {
		env.Errors = errs
	}
	writeJSON(w, status, env)
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
