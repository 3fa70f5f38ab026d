package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Symbol string `json:"symbol"`
}

func TestGetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "IBM", r.URL.Query().Get("symbol"))
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`{"symbol":"IBM"}`))
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, Timeout: time.Second})

	var got payload
	resp, err := client.GetJSON(context.Background(), "/query", map[string]string{"symbol": "IBM"}, &got)
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, "IBM", got.Symbol)
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"symbol":"MSFT"}`))
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, Timeout: time.Second, RetryCount: 2})

	var got payload
	resp, err := client.GetJSON(context.Background(), "/query", nil, &got)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "MSFT", got.Symbol)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGetJSONClientError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(Options{BaseURL: server.URL, Timeout: time.Second, RetryCount: 3})

	resp, err := client.GetJSON(context.Background(), "/missing", nil, &payload{})
	require.NoError(t, err)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResponseIsSuccessOnNil(t *testing.T) {
	var resp *Response
	assert.False(t, resp.IsSuccess())
}
