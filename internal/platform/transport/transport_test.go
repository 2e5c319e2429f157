// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transport_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/ctxutil"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/transport"
)

// recorder captures the last request that reached the end of the chain.
type recorder struct {
	last   *http.Request
	status int
}

func (r *recorder) RoundTrip(request *http.Request) (*http.Response, error) {
	r.last = request
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{StatusCode: status, Body: http.NoBody, Request: request}, nil
}

func newRequest(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	request, err := http.NewRequestWithContext(context.Background(), http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	return request
}

/*
TestRequestID verifies that an ID is generated, propagated and not overwritten.
*/
func TestRequestID(t *testing.T) {
	base := &recorder{}
	client := transport.Chain(base, transport.RequestID())

	// 1. Generated when absent
	original := newRequest(t, "https://lms.example/api")
	_, err := client.RoundTrip(original)
	require.NoError(t, err)

	generated := base.last.Header.Get("X-Request-ID")
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, ctxutil.GetRequestID(base.last.Context()))
	assert.Empty(t, original.Header.Get("X-Request-ID"), "input request must not be mutated")

	// 2. Kept when provided
	provided := newRequest(t, "https://lms.example/api")
	provided.Header.Set("X-Request-ID", "fixed")
	_, err = client.RoundTrip(provided)
	require.NoError(t, err)
	assert.Equal(t, "fixed", base.last.Header.Get("X-Request-ID"))
}

/*
TestStaticHeaders_ScopedToHost ensures credentials are only sent to the API host.
*/
func TestStaticHeaders_ScopedToHost(t *testing.T) {
	base := &recorder{}
	headers := http.Header{}
	headers.Set("Cookie", "bff.cookie=secret")

	client := transport.Chain(base, transport.StaticHeaders("lms.example", headers))

	_, err := client.RoundTrip(newRequest(t, "https://lms.example/api/micro-lms/courses/student"))
	require.NoError(t, err)
	assert.Equal(t, "bff.cookie=secret", base.last.Header.Get("Cookie"))

	_, err = client.RoundTrip(newRequest(t, "https://storage.example/bucket/file.pdf?sig=1"))
	require.NoError(t, err)
	assert.Empty(t, base.last.Header.Get("Cookie"))
}

/*
TestStructuredLogger logs status without leaking query strings.
*/
func TestStructuredLogger(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	base := &recorder{status: http.StatusNotFound}
	client := transport.Chain(base, transport.RequestID(), transport.StructuredLogger(logger))

	request := newRequest(t, "https://storage.example/file.pdf?X-Amz-Signature=topsecret")
	request = request.WithContext(ctxutil.WithRunID(request.Context(), "run-7"))

	_, err := client.RoundTrip(request)
	require.NoError(t, err)

	output := buffer.String()
	assert.Contains(t, output, `"msg":"http_request_finished"`)
	assert.Contains(t, output, `"status":404`)
	assert.Contains(t, output, `"run_id":"run-7"`)
	assert.Contains(t, output, `"level":"WARN"`)
	assert.NotContains(t, output, "topsecret")
}

/*
TestRateLimit_HonoursCancellation verifies that a cancelled context stops the wait.
*/
func TestRateLimit_HonoursCancellation(t *testing.T) {
	base := &recorder{}
	limiter := rate.NewLimiter(rate.Limit(0.001), 1)
	client := transport.Chain(base, transport.RateLimit(limiter))

	// 1. The burst token lets the first call through
	_, err := client.RoundTrip(newRequest(t, "https://lms.example/a"))
	require.NoError(t, err)

	// 2. The second call must wait and observes cancellation
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	request := newRequest(t, "https://lms.example/b").WithContext(ctx)
	_, err = client.RoundTrip(request)
	assert.Error(t, err)
}

/*
TestChain_Order runs against a live server to check decorators compose.
*/
func TestChain_Order(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("User-Agent") != "lmsdl-test" || request.Header.Get("X-Request-ID") == "" {
			writer.WriteHeader(http.StatusBadRequest)
			return
		}
		writer.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := &http.Client{Transport: transport.Chain(http.DefaultTransport,
		transport.RequestID(),
		transport.UserAgent("lmsdl-test"),
	)}

	response, err := client.Get(server.URL)
	require.NoError(t, err)
	defer response.Body.Close()

	assert.Equal(t, http.StatusNoContent, response.StatusCode)
}

/*
TestRoundTripperFunc_PropagatesErrors checks that transport errors pass through the chain.
*/
func TestRoundTripperFunc_PropagatesErrors(t *testing.T) {
	boom := errors.New("dial tcp: refused")
	failing := transport.RoundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	})

	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	_, err := transport.Chain(failing, transport.StructuredLogger(logger)).RoundTrip(newRequest(t, "https://lms.example/x"))

	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buffer.String(), "http_request_failed")
}
