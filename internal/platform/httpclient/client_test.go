// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package httpclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/httpclient"
	"github.com/zahardimidov/cu-lms-materials-downloader/internal/platform/transport"
)

/*
TestNew_ReadTimeout verifies that a stalled response is cut by the read timeout.
*/
func TestNew_ReadTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		select {
		case <-release:
		case <-request.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := httpclient.New(httpclient.Config{
		ConnectTimeout: time.Second,
		ReadTimeout:    100 * time.Millisecond,
	})

	request, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	startTime := time.Now()
	_, err = client.Do(request)

	assert.Error(t, err)
	assert.Less(t, time.Since(startTime), 5*time.Second)
}

/*
TestNew_SlowBodyWithinTimeout verifies that progress keeps the connection alive.
*/
func TestNew_SlowBodyWithinTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		flusher := writer.(http.Flusher)
		for i := 0; i < 4; i++ {
			_, _ = writer.Write([]byte("chunk"))
			flusher.Flush()
			time.Sleep(50 * time.Millisecond)
		}
	}))
	defer server.Close()

	client := httpclient.New(httpclient.Config{
		ConnectTimeout: time.Second,
		ReadTimeout:    150 * time.Millisecond,
	})

	response, err := client.Get(server.URL)
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Equal(t, "chunkchunkchunkchunk", string(body))
}

/*
TestNew_AppliesMiddleware verifies that the chain wraps the pooled transport.
*/
func TestNew_AppliesMiddleware(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, request.Header.Get("User-Agent"))
	}))
	defer server.Close()

	client := httpclient.New(httpclient.Config{
		ConnectTimeout: time.Second,
		ReadTimeout:    time.Second,
		Middleware:     []transport.Middleware{transport.UserAgent("lmsdl/test")},
	})

	response, err := client.Get(server.URL)
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	assert.Equal(t, "lmsdl/test", string(body))
}

/*
TestNew_StalledBodyIsCut verifies that a body with no progress fails with ErrReadTimeout.
*/
func TestNew_StalledBodyIsCut(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte("chunk"))
		writer.(http.Flusher).Flush()
		select {
		case <-release:
		case <-request.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := httpclient.New(httpclient.Config{
		ConnectTimeout: time.Second,
		ReadTimeout:    100 * time.Millisecond,
	})

	response, err := client.Get(server.URL)
	require.NoError(t, err)
	defer response.Body.Close()

	startTime := time.Now()
	body, err := io.ReadAll(response.Body)

	assert.True(t, errors.Is(err, httpclient.ErrReadTimeout), "got %v", err)
	assert.Equal(t, "chunk", string(body))
	assert.Less(t, time.Since(startTime), 5*time.Second)
}

/*
TestNew_IdleConnectionOutlivesReadTimeout verifies that a pooled connection is
reused after staying idle for longer than the read timeout.
*/
func TestNew_IdleConnectionOutlivesReadTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = io.WriteString(writer, "ok")
	}))
	defer server.Close()

	client := httpclient.New(httpclient.Config{
		ConnectTimeout: time.Second,
		ReadTimeout:    50 * time.Millisecond,
	})

	get := func() bool {
		var reused bool
		trace := &httptrace.ClientTrace{
			GotConn: func(info httptrace.GotConnInfo) { reused = info.Reused },
		}

		request, err := http.NewRequestWithContext(
			httptrace.WithClientTrace(context.Background(), trace), http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		response, err := client.Do(request)
		require.NoError(t, err)

		body, err := io.ReadAll(response.Body)
		require.NoError(t, err)
		require.NoError(t, response.Body.Close())
		assert.Equal(t, "ok", string(body))

		return reused
	}

	assert.False(t, get())
	time.Sleep(200 * time.Millisecond)
	assert.True(t, get())
}
