package linkedin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
)

const DefaultAPIURL = "https://api.linkedin.com"

// Config configures the LinkedIn API client. Zero values use the defaults.
type Config struct {
	APIURL  string
	Timeout time.Duration
	Logger  logging.Logger
	// Now stamps PostRecords; defaults to time.Now.
	Now func() time.Time
}

// Client publishes posts and reads the member profile through the LinkedIn REST API.
type Client struct {
	apiURL     string
	httpClient *http.Client
	log        logging.Logger
	now        func() time.Time
}

// NewClient builds a client for cfg.APIURL, or api.linkedin.com when empty.
func NewClient(cfg Config) *Client {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		now:        now,
	}
}

// Publish creates a public text post for the draft. It does not look at any
// review result; callers must only pass approved drafts. Incomplete
// credentials return a *models.ConfigurationError without sending anything.
func (c *Client) Publish(ctx context.Context, draft models.Draft, creds models.Credentials) (*models.PostRecord, error) {
	if missing := creds.MissingForPublishing(); len(missing) > 0 {
		return nil, &models.ConfigurationError{Missing: missing}
	}

	payload, err := json.Marshal(newShareRequest(creds.AuthorURN(), draft.Text()))
	if err != nil {
		return nil, &models.PublishError{Err: fmt.Errorf("failed to marshal post: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v2/ugcPosts", bytes.NewReader(payload))
	if err != nil {
		return nil, &models.PublishError{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &models.PublishError{Err: fmt.Errorf("failed to call LinkedIn API: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.PublishError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode != http.StatusCreated {
		c.log.WithField("status", resp.StatusCode).Errorf("LinkedIn API error: %s", string(body))
		return nil, &models.PublishError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var created struct {
		ID string `json:"id"`
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &created); err != nil {
			return nil, &models.PublishError{StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to parse response: %w", err)}
		}
	}
	postID := created.ID
	if postID == "" {
		postID = resp.Header.Get("X-Restli-Id")
	}
	if postID == "" {
		return nil, &models.PublishError{StatusCode: resp.StatusCode, Err: fmt.Errorf("response has no post id")}
	}

	c.log.WithField("post_id", postID).Info("🚀 Published to LinkedIn")
	return models.NewPostRecord(draft, postID, c.now()), nil
}

// UserInfo returns the OpenID profile of the token's owner. Its "sub" field
// is the author id posts are created under.
func (c *Client) UserInfo(ctx context.Context, creds models.Credentials) (*UserInfo, error) {
	if creds.AccessToken == "" {
		return nil, &models.ConfigurationError{Missing: []string{"access_token"}}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/v2/userinfo", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call LinkedIn API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse userinfo: %w", err)
	}
	return &info, nil
}
