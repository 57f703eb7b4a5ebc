package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dizid/shipkit/services/gateway/datatypes"
)

func testRequest() Request {
	return Request{
		Messages:    []datatypes.Message{{Role: "user", Content: "write a headline"}},
		Temperature: 0.7,
		MaxTokens:   1500,
	}
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(Config{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.timeout)
}

func TestSend_Success(t *testing.T) {
	upstreamBody := `{"id":"msg_1","model":"claude-sonnet-4-6","content":[{"type":"text","text":"generated"}],"usage":{"input_tokens":12,"output_tokens":34}}`
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, upstreamBody)
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := c.Send(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, gotReq.Model)
	require.NotNil(t, gotReq.Temperature)
	assert.InDelta(t, 0.7, *gotReq.Temperature, 1e-9)
	assert.Equal(t, 1500, gotReq.MaxTokens)

	assert.Equal(t, upstreamBody, string(resp.Raw))
	assert.Equal(t, "generated", resp.Text)
	assert.True(t, resp.HasUsage)
	assert.Equal(t, 12, resp.InputTokens)
	assert.Equal(t, 34, resp.OutputTokens)
}

func TestSend_ConcatenatesTextBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"content":[{"type":"text","text":"part one "},{"type":"tool_use"},{"type":"text","text":"part two"}]}`)
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	resp, err := c.Send(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "part one part two", resp.Text)
	assert.False(t, resp.HasUsage)
}

func TestSend_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read can detect the
		// client disconnect and cancel r.Context(); otherwise srv.Close
		// deadlocks waiting on this handler.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL, Timeout: 30 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), testRequest())
	var timeoutErr *TimeoutError
	assert.ErrorAs(t, err, &timeoutErr)
}

func TestSend_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), testRequest())
	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestSend_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Send(context.Background(), testRequest())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Status)
}

func TestSend_ShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>bad gateway</html>`},
		{"api error object", `{"error":{"type":"overloaded_error","message":"busy"}}`},
		{"empty content", `{"content":[]}`},
		{"no text block", `{"content":[{"type":"tool_use"}]}`},
		{"empty text", `{"content":[{"type":"text","text":""}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			c, err := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = c.Send(context.Background(), testRequest())
			var shapeErr *ShapeError
			assert.ErrorAs(t, err, &shapeErr)
		})
	}
}
