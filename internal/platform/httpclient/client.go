// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package httpclient provides the single pooled HTTP session used for every LMS call.

Core Responsibilities:

  - Timing: A connect timeout for dialing and the TLS handshake, and a read
    timeout that bounds both the wait for response headers and every body read.
    Idle pooled connections are not subject to the read timeout.
  - Pooling: Keep-alive connections are reused across all calls of a run.
  - Chain: The [transport.Middleware] stack is applied on top of the pool.

There is deliberately no overall request timeout, a large file may take
longer than the read timeout as long as bytes keep arriving.
*/
package httpclient

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/transport"
)

// ErrReadTimeout is returned by a response body that received no bytes within the read timeout.
var ErrReadTimeout = errors.New("httpclient: read timeout")

// Opiniated pool sizing for a single remote origin plus its storage host.
const (
	maxIdleConns        = 32
	maxIdleConnsPerHost = 16
	idleConnTimeout     = 90 * time.Second
	keepAlive           = 30 * time.Second
)

// Config holds the timing and decoration of a client.
type Config struct {
	// ConnectTimeout bounds dialing and the TLS handshake.
	ConnectTimeout time.Duration
	// ReadTimeout bounds the wait for response headers and each read from the connection.
	ReadTimeout time.Duration
	// Middleware is applied around the pooled transport, outermost first.
	Middleware []transport.Middleware
}

// New builds the [*http.Client].
//
// # Parameters
//   - config: Timeouts and the middleware chain.
//
// # Returns
//   - A client safe for concurrent use, read-only after construction.
func New(config Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   config.ConnectTimeout,
		KeepAlive: keepAlive,
	}

	pool := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          maxIdleConns,
		MaxIdleConnsPerHost:   maxIdleConnsPerHost,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   config.ConnectTimeout,
		ResponseHeaderTimeout: config.ReadTimeout,
		ExpectContinueTimeout: time.Second,
	}

	// The body timeout sits innermost so its timer starts with the response.
	middleware := make([]transport.Middleware, 0, len(config.Middleware)+1)
	middleware = append(middleware, config.Middleware...)
	middleware = append(middleware, bodyTimeout(config.ReadTimeout))

	return &http.Client{
		Transport: transport.Chain(pool, middleware...),
	}
}

// bodyTimeout cancels a request whose body stalls for longer than timeout.
// The timer restarts on every read that returns data.
func bodyTimeout(timeout time.Duration) transport.Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if timeout <= 0 {
			return next
		}

		return transport.RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
			ctx, cancel := context.WithCancelCause(request.Context())

			response, err := next.RoundTrip(request.WithContext(ctx))
			if err != nil {
				cancel(nil)
				return nil, err
			}

			body := &idleBody{ReadCloser: response.Body, ctx: ctx, cancel: cancel, timeout: timeout}
			body.timer = time.AfterFunc(timeout, func() { cancel(ErrReadTimeout) })
			response.Body = body
			return response, nil
		})
	}
}

// idleBody is a response body guarded by an idle timer.
type idleBody struct {
	io.ReadCloser
	ctx     context.Context
	cancel  context.CancelCauseFunc
	timeout time.Duration
	timer   *time.Timer
	once    sync.Once
}

// Read implements [io.Reader].
func (body *idleBody) Read(buffer []byte) (int, error) {
	n, err := body.ReadCloser.Read(buffer)
	if n > 0 {
		body.timer.Reset(body.timeout)
	}
	if err != nil && errors.Is(context.Cause(body.ctx), ErrReadTimeout) {
		return n, ErrReadTimeout
	}
	return n, err
}

// Close implements [io.Closer].
func (body *idleBody) Close() error {
	err := body.ReadCloser.Close()
	body.once.Do(func() {
		body.timer.Stop()
		body.cancel(nil)
	})
	return err
}
