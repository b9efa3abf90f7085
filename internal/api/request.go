package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Request issues a call and decodes the envelope content into T.
func Request[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (*Envelope[T], error) {
	raw, err := c.Do(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope[T](raw)
	if err != nil {
		return nil, newError(KindDecode, err)
	}

	return env, nil
}

// Get issues a GET call.
func Get[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (*Envelope[T], error) {
	opts.Method = http.MethodGet
	return Request[T](ctx, c, endpoint, opts)
}

// Post issues a POST call with data encoded as JSON. A nil data sends no body.
func Post[T any](ctx context.Context, c *Client, endpoint string, data any, opts RequestOptions) (*Envelope[T], error) {
	return withBody[T](ctx, c, http.MethodPost, endpoint, data, opts)
}

// Put issues a PUT call with data encoded as JSON. A nil data sends no body.
func Put[T any](ctx context.Context, c *Client, endpoint string, data any, opts RequestOptions) (*Envelope[T], error) {
	return withBody[T](ctx, c, http.MethodPut, endpoint, data, opts)
}

// Delete issues a DELETE call.
func Delete[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (*Envelope[T], error) {
	opts.Method = http.MethodDelete
	return Request[T](ctx, c, endpoint, opts)
}

func withBody[T any](ctx context.Context, c *Client, method, endpoint string, data any, opts RequestOptions) (*Envelope[T], error) {
	opts.Method = method
	if data != nil {
		bb, err := json.Marshal(data)
		if err != nil {
			return nil, newError(KindDecode, err)
		}
		opts.Body = bb
	}

	return Request[T](ctx, c, endpoint, opts)
}
