package bsky

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

	mux.HandleFunc("/xrpc/com.atproto.server.createSession", func(w http.ResponseWriter, r *http.Request) {
		var in createSessionInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if in.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(XRPCError{ErrStr: "AuthenticationRequired", Message: "Invalid identifier or password"})
			return
		}
		json.NewEncoder(w).Encode(AuthInfo{
			AccessJwt:  "access-token",
			RefreshJwt: "refresh-token",
			Handle:     in.Identifier,
			Did:        "did:plc:abc123",
		})
	})

	mux.HandleFunc("/xrpc/com.atproto.repo.createRecord", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		var in createRecordInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "app.bsky.feed.post", in.Collection)
		assert.Equal(t, "did:plc:abc123", in.Repo)
		json.NewEncoder(w).Encode(createRecordOutput{
			Uri: "at://did:plc:abc123/app.bsky.feed.post/3k1",
			Cid: "bafyexample",
		})
	})

	mux.HandleFunc("/xrpc/com.atproto.repo.listRecords", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "app.bsky.feed.post", r.URL.Query().Get("collection"))
		assert.Equal(t, "did:plc:abc123", r.URL.Query().Get("repo"))
		w.Write([]byte(`{
			"cursor": "next-page",
			"records": [
				{"uri": "at://did:plc:abc123/app.bsky.feed.post/1", "value": {"$type": "app.bsky.feed.post", "text": "first post"}},
				{"uri": "at://did:plc:abc123/app.bsky.feed.post/2", "value": {"$type": "app.bsky.feed.post", "text": "second post"}},
				{"uri": "at://did:plc:abc123/app.bsky.feed.post/3", "value": {"$type": "app.bsky.graph.follow"}}
			]
		}`))
	})

	return httptest.NewServer(mux)
}

func TestClientSession(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	srv := testServer(t)
	defer srv.Close()

	client := &Client{Host: srv.URL, Client: srv.Client()}
	require.NoError(client.CreateSession(ctx, "bot.example.com", "hunter2"))
	assert.Equal("did:plc:abc123", client.Auth.Did)

	uri, err := client.CreatePost(ctx, "hello world")
	require.NoError(err)
	assert.Equal("at://did:plc:abc123/app.bsky.feed.post/3k1", uri)
}

func TestClientSessionRejected(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	srv := testServer(t)
	defer srv.Close()

	client := &Client{Host: srv.URL, Client: srv.Client()}
	err := client.CreateSession(ctx, "bot.example.com", "wrong")
	require.Error(err)

	var apiErr *Error
	require.ErrorAs(err, &apiErr)
	require.Equal(http.StatusUnauthorized, apiErr.StatusCode)

	var xe *XRPCError
	require.ErrorAs(err, &xe)
	require.Equal("AuthenticationRequired", xe.ErrStr)
}

func TestClientListPosts(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	srv := testServer(t)
	defer srv.Close()

	client := &Client{Host: srv.URL, Client: srv.Client()}
	texts, cursor, err := client.ListPosts(ctx, "did:plc:abc123", 50, "")
	require.NoError(err)

	// the non-post record is skipped
	assert.Equal([]string{"first post", "second post"}, texts)
	assert.Equal("next-page", cursor)
}

func TestClientPostRequiresAuth(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()

	client := &Client{Host: srv.URL, Client: srv.Client()}
	_, err := client.CreatePost(context.Background(), "hello")
	require.Error(t, err)
}
