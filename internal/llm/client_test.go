package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haimng/Bestopia/pkg/httpclient"
	"github.com/haimng/Bestopia/pkg/logger"
)

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	c := NewClient(httpclient.New(httpclient.Config{Timeout: 5 * time.Second}), "sk-test", logger.New("llm-test", "error"))
	c.baseURL = serverURL
	return c
}

func TestClient_Complete_Success(t *testing.T) {
	var gotAuth string
	var gotReq map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"name\tdescription\nMouse A\tGreat mouse"}}]}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	text, err := c.Complete(context.Background(), ModelDefault, "draft a review")
	require.NoError(t, err)

	assert.Equal(t, "name\tdescription\nMouse A\tGreat mouse", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, ModelDefault, gotReq["model"])
	assert.EqualValues(t, 3000, gotReq["max_tokens"])
}

func TestClient_Complete_SearchModelTokenBudget(t *testing.T) {
	var gotReq map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Complete(context.Background(), ModelSearch, "find products")
	require.NoError(t, err)
	assert.EqualValues(t, 1500, gotReq["max_tokens"])
}

func TestClient_Complete_StripsHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[{"message":{"content":"<p>Mouse A</p> is <b>great</b>"}}]}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	text, err := c.Complete(context.Background(), ModelDefault, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Mouse A is great", text)
}

func TestClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit_error"}}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Complete(context.Background(), ModelDefault, "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClient_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	_, err := c.Complete(context.Background(), ModelDefault, "prompt")
	assert.Error(t, err)
}
