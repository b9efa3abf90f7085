package api

import (
	"encoding/json"
	"errors"
)

const (
	successMessage      = "Success"
	defaultErrorMessage = "Something went wrong"
)

// Envelope is the body convention of every backend response. Errors is
// only populated on failures.
type Envelope[T any] struct {
	Content T      `json:"content"`
	Message string `json:"message"`
	Errors  any    `json:"errors"`
}

// ErrorEnvelope turns any error into an envelope fit for display.
func ErrorEnvelope(err error) Envelope[json.RawMessage] {
	var he *HTTPError
	if errors.As(err, &he) && he.Response != nil {
		data := he.Response.Data
		msg := data.Message
		if msg == "" {
			msg = defaultErrorMessage
		}
		return Envelope[json.RawMessage]{
			Content: data.Content,
			Message: msg,
			Errors:  data.Errors,
		}
	}

	msg := defaultErrorMessage
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return Envelope[json.RawMessage]{Message: msg}
}

// FieldErrors returns the per field validation messages of a failed call.
func FieldErrors(err error) map[string]string {
	env := ErrorEnvelope(err)
	m, ok := env.Errors.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch vv := v.(type) {
		case string:
			out[k] = vv
		case []any:
			if len(vv) > 0 {
				if s, ok := vv[0].(string); ok {
					out[k] = s
				}
			}
		}
	}
	return out
}

func decodeEnvelope[T any](raw *Envelope[json.RawMessage]) (*Envelope[T], error) {
	out := Envelope[T]{
		Message: raw.Message,
		Errors:  raw.Errors,
	}
	if len(raw.Content) == 0 || string(raw.Content) == "null" {
		return &out, nil
	}
	if err := json.Unmarshal(raw.Content, &out.Content); err != nil {
		return nil, err
	}
	return &out, nil
}
