// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package transport provides the cross-cutting processing chain for outgoing HTTP requests.

It acts as a series of decorators around [http.RoundTripper], injecting
traceability, politeness and credentials into every call made to the LMS.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Log: Structured activity logging (slog).
  - Guard: Client-side token bucket rate limiting.
  - Auth: Static headers scoped to the API host.

This package ensures that the gateway can focus purely on the API schema
without worrying about infrastructure-level concerns.
*/
package transport

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/constants"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/ctxutil"
	"github.com/zahardimidov/cu-lms-materials-downloader/pkg/uuidv7"
)

// Middleware decorates a [http.RoundTripper].
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts an ordinary function to [http.RoundTripper].
type RoundTripperFunc func(*http.Request) (*http.Response, error)

// RoundTrip implements [http.RoundTripper].
func (fn RoundTripperFunc) RoundTrip(request *http.Request) (*http.Response, error) {
	return fn(request)
}

// Chain wraps base with the given middleware. The first middleware is the outermost.
func Chain(base http.RoundTripper, middlewares ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		base = middlewares[i](base)
	}
	return base
}

// # Request Tracing

// RequestID attaches a correlation ID to every outgoing request.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {

			// 1. Keep an ID the caller already assigned
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = ctxutil.GetRequestID(request.Context())
			}

			// 2. Generate a new one if missing (UUID v7 keeps log lines time-sortable)
			if requestID == "" {
				requestID = uuidv7.New()
			}

			// 3. Inject into a clone, a RoundTripper must not modify its input
			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			outgoing := request.Clone(ctx)
			outgoing.Header.Set(constants.HeaderXRequestID, requestID)

			return next.RoundTrip(outgoing)
		})
	}
}

// # Activity Logging

// StructuredLogger logs the status and latency of every request.
//
// Only the host and path are logged; query strings of signed download links
// carry credentials.
func StructuredLogger(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			startTime := time.Now()

			attrs := []any{
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("host", request.URL.Host),
				slog.String("path", request.URL.Path),
			}
			if runID := ctxutil.GetRunID(request.Context()); runID != "" {
				attrs = append(attrs, slog.String(constants.FieldRunID, runID))
			}

			response, err := next.RoundTrip(request)
			attrs = append(attrs, slog.Int64("latency_ms", time.Since(startTime).Milliseconds()))

			if err != nil {
				attrs = append(attrs, slog.Any(constants.FieldError, err))
				logger.Log(request.Context(), slog.LevelWarn, "http_request_failed", attrs...)
				return nil, err
			}

			logLevel := slog.LevelDebug
			if response.StatusCode >= 500 {
				logLevel = slog.LevelError
			} else if response.StatusCode >= 400 {
				logLevel = slog.LevelWarn
			}

			attrs = append(attrs, slog.Int("status", response.StatusCode))
			logger.Log(request.Context(), logLevel, "http_request_finished", attrs...)

			return response, nil
		})
	}
}

// # Rate Limiting

// RateLimit delays requests with a token bucket shared by every caller of the client.
//
// Waiting honours the request context, a cancelled run does not queue further calls.
func RateLimit(limiter *rate.Limiter) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			if err := limiter.Wait(request.Context()); err != nil {
				return nil, err
			}
			return next.RoundTrip(request)
		})
	}
}

// NewLimiter creates the limiter used by [RateLimit].
func NewLimiter(rps float64, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// # Credentials

// StaticHeaders sets the given headers on requests addressed to host.
//
// Requests to any other host (signed storage URLs) are forwarded untouched so
// the session cookie never leaves the API origin. Headers the caller set
// explicitly are kept.
func StaticHeaders(host string, headers http.Header) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			if len(headers) == 0 || !strings.EqualFold(request.URL.Host, host) {
				return next.RoundTrip(request)
			}

			outgoing := request.Clone(request.Context())
			for name, values := range headers {
				if outgoing.Header.Get(name) != "" {
					continue
				}
				for _, value := range values {
					outgoing.Header.Add(name, value)
				}
			}

			return next.RoundTrip(outgoing)
		})
	}
}

// UserAgent sets a default User-Agent when the caller did not provide one.
func UserAgent(agent string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			if request.Header.Get(constants.HeaderUserAgent) != "" {
				return next.RoundTrip(request)
			}

			outgoing := request.Clone(request.Context())
			outgoing.Header.Set(constants.HeaderUserAgent, agent)
			return next.RoundTrip(outgoing)
		})
	}
}
