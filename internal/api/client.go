// Package api implements the backend HTTP client: a base URL with default
// headers, ordered request and response interceptor chains, the
// {content, message, errors} body convention and a single error shape.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/absensi/absensi/internal/metrics"
)

const (
	headerContentType = "Content-Type"
	jsonContentType   = "application/json"
)

// Options configures a Client. The client sets no deadline of its own,
// calls are bounded by the context they are given.
type Options struct {
	BaseURL   string
	Headers   map[string]string
	Transport http.RoundTripper
	Logger    *slog.Logger
}

// RequestConfig is the fully resolved description of an outgoing request.
// Request interceptors receive and return it.
type RequestConfig struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Header returns a header value, matching names case-insensitively.
func (c *RequestConfig) Header(name string) string {
	for k, v := range c.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// SetHeader sets a header, replacing any variant of the same name.
func (c *RequestConfig) SetHeader(name, value string) {
	if c.Headers == nil {
		c.Headers = make(map[string]string)
	}
	for k := range c.Headers {
		if strings.EqualFold(k, name) {
			delete(c.Headers, k)
		}
	}
	c.Headers[name] = value
}

// RequestOptions are the per call settings.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	Query   url.Values
	Body    []byte
}

// Client talks to the backend.
type Client struct {
	baseURL  string
	headers  map[string]string
	http     *http.Client
	log      *slog.Logger
	mx       sync.RWMutex
	reqChain []RequestInterceptor
	resChain []ResponseInterceptor
}

// NewClient returns a new client.
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	headers := map[string]string{headerContentType: jsonContentType}
	for k, v := range opts.Headers {
		for dk := range headers {
			if strings.EqualFold(dk, k) {
				delete(headers, dk)
			}
		}
		headers[k] = v
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		headers: headers,
		http: &http.Client{
			Transport: metrics.InstrumentRoundTripper(opts.Transport),
		},
		log: logger.With("component", "api"),
	}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AddRequestInterceptor appends an interceptor to the request chain.
func (c *Client) AddRequestInterceptor(i RequestInterceptor) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.reqChain = append(c.reqChain, i)
}

// AddResponseInterceptor appends an interceptor to the response chain.
func (c *Client) AddResponseInterceptor(i ResponseInterceptor) {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.resChain = append(c.resChain, i)
}

func (c *Client) chains() ([]RequestInterceptor, []ResponseInterceptor) {
	c.mx.RLock()
	defer c.mx.RUnlock()
	return append([]RequestInterceptor(nil), c.reqChain...),
		append([]ResponseInterceptor(nil), c.resChain...)
}

func (c *Client) resolve(endpoint string, opts RequestOptions) *RequestConfig {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}
	u := c.baseURL + endpoint
	if len(opts.Query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + opts.Query.Encode()
	}
	cfg := RequestConfig{
		Method:  method,
		URL:     u,
		Headers: make(map[string]string, len(c.headers)+len(opts.Headers)),
		Body:    opts.Body,
	}
	for k, v := range c.headers {
		cfg.Headers[k] = v
	}
	for k, v := range opts.Headers {
		cfg.SetHeader(k, v)
	}

	return &cfg
}

// Do issues a request and returns the raw envelope. Non 2xx answers and
// every other failure come back as *HTTPError.
func (c *Client) Do(ctx context.Context, endpoint string, opts RequestOptions) (*Envelope[json.RawMessage], error) {
	env, err := c.do(ctx, endpoint, opts)
	if err != nil {
		if he, ok := AsHTTPError(err); ok {
			metrics.HTTPErrors.WithLabelValues(he.Kind.String()).Inc()
		}
		return nil, err
	}

	return env, nil
}

func (c *Client) do(ctx context.Context, endpoint string, opts RequestOptions) (*Envelope[json.RawMessage], error) {
	reqChain, resChain := c.chains()

	cfg := c.resolve(endpoint, opts)
	for _, i := range reqChain {
		next, err := i.InterceptRequest(ctx, cfg)
		if err != nil {
			return nil, newError(KindTransport, err)
		}
		if next != nil {
			cfg = next
		}
	}

	var body io.Reader
	if cfg.Body != nil {
		body = bytes.NewReader(cfg.Body)
	}
	req, err := http.NewRequestWithContext(ctx, cfg.Method, cfg.URL, body)
	if err != nil {
		return nil, newError(KindTransport, err)
	}
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", cfg.Method, "url", cfg.URL, "error", err)
		return nil, newError(KindTransport, err)
	}
	for _, i := range resChain {
		next, err := i.InterceptResponse(ctx, resp)
		if err != nil {
			resp.Body.Close()
			return nil, newError(KindTransport, err)
		}
		if next != nil && next != resp {
			resp.Body.Close()
			resp = next
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindDecode, err)
	}
	env, isJSON, err := parseBody(resp.StatusCode, resp.Header.Get(headerContentType), raw)
	if err != nil {
		return nil, newError(KindDecode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newProtocolError(resp.StatusCode, env, isJSON)
	}

	return env, nil
}

// parseBody decodes JSON bodies and wraps anything else as a successful
// text envelope. An empty JSON body is only accepted on 204 No Content.
func parseBody(status int, contentType string, raw []byte) (*Envelope[json.RawMessage], bool, error) {
	if !strings.Contains(contentType, jsonContentType) {
		text, err := json.Marshal(string(raw))
		if err != nil {
			return nil, false, err
		}
		return &Envelope[json.RawMessage]{Content: text, Message: successMessage}, false, nil
	}

	var env Envelope[json.RawMessage]
	if status == http.StatusNoContent && len(bytes.TrimSpace(raw)) == 0 {
		return &env, true, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, true, err
	}

	return &env, true, nil
}
