package mastodon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/accounts/verify_credentials", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-ok" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(apiError{ErrStr: "The access token is invalid"})
			return
		}
		json.NewEncoder(w).Encode(Account{ID: "109", Acct: "bot", Username: "bot"})
	})

	mux.HandleFunc("/api/v1/statuses", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "unlisted", r.PostForm.Get("visibility"))
		json.NewEncoder(w).Encode(Status{
			ID:      "42",
			URL:     "https://example.social/@bot/42",
			Content: "<p>" + r.PostForm.Get("status") + "</p>",
		})
	})

	mux.HandleFunc("/api/v1/accounts/109/statuses", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("exclude_reblogs"))
		assert.Equal(t, "40", r.URL.Query().Get("since_id"))
		json.NewEncoder(w).Encode([]*Status{
			{ID: "42", Content: "<p>newest</p>"},
			{ID: "41", Content: "<p>older</p>"},
		})
	})

	return httptest.NewServer(mux)
}

func TestVerifyCredentials(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	srv := testServer(t)
	defer srv.Close()

	client := &Client{Host: srv.URL, Token: "token-ok", Client: srv.Client()}
	acct, err := client.VerifyCredentials(ctx)
	require.NoError(err)
	assert.Equal("109", acct.ID)

	bad := &Client{Host: srv.URL, Token: "nope", Client: srv.Client()}
	_, err = bad.VerifyCredentials(ctx)
	require.Error(err)
}

func TestPostStatus(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := testServer(t)
	defer srv.Close()

	client := &Client{Host: srv.URL, Token: "token-ok", Client: srv.Client()}
	status, err := client.PostStatus(context.Background(), "hello fediverse", "unlisted")
	require.NoError(err)
	assert.Equal("https://example.social/@bot/42", status.URL)
}

func TestAccountStatuses(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	srv := testServer(t)
	defer srv.Close()

	client := &Client{Host: srv.URL, Token: "token-ok", Client: srv.Client()}
	statuses, err := client.AccountStatuses(context.Background(), "109", 50, "40")
	require.NoError(err)
	require.Len(statuses, 2)
	assert.Equal("42", statuses[0].ID)
	assert.Equal("<p>newest</p>", statuses[0].Content)
}
