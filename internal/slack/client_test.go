package slack

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, posted *[]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth.test", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":true,"user_id":"U123","team":"acme"}`)
	})
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		*posted = append(*posted, r.Form.Get("channel")+":"+r.Form.Get("text"))
		fmt.Fprint(w, `{"ok":true,"channel":"C1","ts":"1700000000.000100"}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestNewClientAndSendMessage(t *testing.T) {
	var posted []string
	server := newTestServer(t, &posted)

	client, err := NewClient(context.Background(), "xoxb-test", slack.OptionAPIURL(server.URL+"/"))
	require.NoError(t, err)
	assert.Equal(t, "U123", client.GetBotID())

	require.NoError(t, client.SendMessageWithBlocks(context.Background(), "C1", "fallback",
		[]slack.Block{slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "*hi*", false, false), nil, nil)}))

	assert.Equal(t, []string{"C1:fallback"}, posted)
}

func TestNewClientAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error":"invalid_auth"}`)
	}))
	defer server.Close()

	_, err := NewClient(context.Background(), "bad", slack.OptionAPIURL(server.URL+"/"))
	assert.ErrorContains(t, err, "invalid_auth")
}
