package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per call correlation id.
const RequestIDHeader = "X-Request-ID"

// RequestInterceptor transforms an outgoing request. It may block.
type RequestInterceptor interface {
	InterceptRequest(ctx context.Context, cfg *RequestConfig) (*RequestConfig, error)
}

// ResponseInterceptor transforms an incoming response. It may block.
type ResponseInterceptor interface {
	InterceptResponse(ctx context.Context, resp *http.Response) (*http.Response, error)
}

// RequestInterceptorFunc adapts a function to a RequestInterceptor.
type RequestInterceptorFunc func(ctx context.Context, cfg *RequestConfig) (*RequestConfig, error)

func (f RequestInterceptorFunc) InterceptRequest(ctx context.Context, cfg *RequestConfig) (*RequestConfig, error) {
	return f(ctx, cfg)
}

// ResponseInterceptorFunc adapts a function to a ResponseInterceptor.
type ResponseInterceptorFunc func(ctx context.Context, resp *http.Response) (*http.Response, error)

func (f ResponseInterceptorFunc) InterceptResponse(ctx context.Context, resp *http.Response) (*http.Response, error) {
	return f(ctx, resp)
}

// TokenSource hands out the current access token.
type TokenSource interface {
	Token() string
}

// BearerToken sets the Authorization header from src unless the call
// already carries one.
func BearerToken(src TokenSource) RequestInterceptor {
	return RequestInterceptorFunc(func(_ context.Context, cfg *RequestConfig) (*RequestConfig, error) {
		if cfg.Header("Authorization") != "" {
			return cfg, nil
		}
		if tok := src.Token(); tok != "" {
			cfg.SetHeader("Authorization", "Bearer "+tok)
		}
		return cfg, nil
	})
}

// RequestID tags every call with a fresh correlation id.
func RequestID() RequestInterceptor {
	return RequestInterceptorFunc(func(_ context.Context, cfg *RequestConfig) (*RequestConfig, error) {
		if cfg.Header(RequestIDHeader) == "" {
			cfg.SetHeader(RequestIDHeader, uuid.NewString())
		}
		return cfg, nil
	})
}

// LogResponses logs every response at debug level.
func LogResponses(logger *slog.Logger) ResponseInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return ResponseInterceptorFunc(func(ctx context.Context, resp *http.Response) (*http.Response, error) {
		attrs := []any{"status", resp.StatusCode}
		if req := resp.Request; req != nil {
			attrs = append(attrs,
				"method", req.Method,
				"url", req.URL.String(),
				"request_id", req.Header.Get(RequestIDHeader),
			)
		}
		logger.DebugContext(ctx, "http response", attrs...)
		return resp, nil
	})
}
