package http

import (
	"context"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		assert.Equal(t, "bar", r.URL.Query().Get("foo"))
		assert.Contains(t, r.Header.Get("User-Agent"), "cryptopulse")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := &Client{StdClient: server.Client()}
	body, err := client.Get(context.Background(), server.URL, map[string]string{"foo": "bar"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

func TestGet_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusBadRequest)
		w.Write([]byte(`{"msg":"Invalid symbol."}`))
	}))
	defer server.Close()

	client := &Client{StdClient: server.Client()}
	body, err := client.Get(context.Background(), server.URL, nil)
	require.Error(t, err)

	var respErr *ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Contains(t, respErr.Status, "400")
	// The body is still returned, most non-200 responses carry valid json
	assert.JSONEq(t, `{"msg":"Invalid symbol."}`, string(body))
}

func TestGet_CancelledContext(t *testing.T) {
	server := httptest.NewServer(stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &Client{StdClient: server.Client()}
	_, err := client.Get(ctx, server.URL, nil)
	require.Error(t, err)
}

func TestResponseError_TruncatesLongBodies(t *testing.T) {
	err := &ResponseError{Status: "500 Internal Server Error", Body: []byte(strings.Repeat("x", 1000))}
	assert.LessOrEqual(t, len(err.Error()), 300)

	short := &ResponseError{Status: "404 Not Found", Body: []byte("nope")}
	assert.Contains(t, short.Error(), "nope")
}
