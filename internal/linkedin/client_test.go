package linkedin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

var (
	testCreds = models.Credentials{APIKey: "sk", AccessToken: "li-token", AuthorID: "abc123"}
	testDraft = models.NewDraft("Ship small changes.", []string{"#DevOps", "#SRE"}, "prompt", models.ContentTechnicalTip, "CI/CD")
	fixedNow  = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
)

func newTestClient(url string) *Client {
	return NewClient(Config{APIURL: url, Now: func() time.Time { return fixedNow }})
}

func TestPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/ugcPosts", r.URL.Path)
		assert.Equal(t, "Bearer li-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2.0.0", r.Header.Get("X-Restli-Protocol-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "urn:li:person:abc123", body["author"])
		assert.Equal(t, "PUBLISHED", body["lifecycleState"])

		share := body["specificContent"].(map[string]any)["com.linkedin.ugc.ShareContent"].(map[string]any)
		assert.Equal(t, "Ship small changes.\n\n#DevOps #SRE", share["shareCommentary"].(map[string]any)["text"])
		assert.Equal(t, "NONE", share["shareMediaCategory"])
		assert.Equal(t, "PUBLIC", body["visibility"].(map[string]any)["com.linkedin.ugc.MemberNetworkVisibility"])

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"urn:li:share:7001"}`)
	}))
	defer server.Close()

	record, err := newTestClient(server.URL).Publish(context.Background(), testDraft, testCreds)
	require.NoError(t, err)
	assert.Equal(t, &models.PostRecord{
		Body:           "Ship small changes.",
		Hashtags:       []string{"#DevOps", "#SRE"},
		ExternalPostID: "urn:li:share:7001",
		Timestamp:      fixedNow,
	}, record)
}

func TestPublishIDFromHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-restli-id", "urn:li:share:7002")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	record, err := newTestClient(server.URL).Publish(context.Background(), testDraft, testCreds)
	require.NoError(t, err)
	assert.Equal(t, "urn:li:share:7002", record.ExternalPostID)
}

func TestPublishNonCreatedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"message":"Invalid access token"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Publish(context.Background(), testDraft, testCreds)

	var pubErr *models.PublishError
	require.True(t, errors.As(err, &pubErr))
	assert.Equal(t, http.StatusUnauthorized, pubErr.StatusCode)
	assert.Contains(t, pubErr.Body, "Invalid access token")
}

func TestPublishNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := newTestClient(server.URL).Publish(context.Background(), testDraft, testCreds)

	var pubErr *models.PublishError
	require.True(t, errors.As(err, &pubErr))
	assert.Zero(t, pubErr.StatusCode)
}

func TestPublishIncompleteCredentialsSendsNothing(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Publish(context.Background(), testDraft, models.Credentials{AccessToken: "t"})

	var cfgErr *models.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"author_sub"}, cfgErr.Missing)
	assert.Zero(t, calls.Load())
}

func TestUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/userinfo", r.URL.Path)
		assert.Equal(t, "Bearer li-token", r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"sub":"abc123","name":"Ada Lovelace","given_name":"Ada","family_name":"Lovelace","email":"ada@example.com"}`)
	}))
	defer server.Close()

	info, err := newTestClient(server.URL).UserInfo(context.Background(), testCreds)
	require.NoError(t, err)
	assert.Equal(t, "abc123", info.Sub)
	assert.Equal(t, "Ada Lovelace", info.Name)
}

func TestUserInfoErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).UserInfo(context.Background(), testCreds)
	assert.ErrorContains(t, err, "status 401")
}
