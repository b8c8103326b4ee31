package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shubh-37/linkedin-autoposter/internal/logging"
)

const defaultBaseURL = "https://api.linear.app/graphql"

// ErrNoIssues is returned by TopicHint when nothing was completed in the window.
var ErrNoIssues = errors.New("no recently completed issues")

type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	now        func() time.Time
	log        logging.Logger
}

type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

type GraphQLError struct {
	Message string   `json:"message"`
	Path    []string `json:"path"`
}

type Issue struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	State       IssueState `json:"state"`
	CompletedAt *time.Time `json:"completedAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Team        Team       `json:"team"`
}

type IssueState struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Team struct {
	Name string `json:"name"`
}

type Option func(*Client)

// WithBaseURL points the client at another GraphQL endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithLogger(log logging.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("LINEAR_API_KEY is required")
	}

	c := &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		now:        time.Now,
		log:        logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.log.Debug("linear client initialized")
	return c, nil
}

func (c *Client) query(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	reqBody := GraphQLRequest{
		Query:     query,
		Variables: variables,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("linear API error (status %d): %s", resp.StatusCode, string(body))
	}

	var gqlResp GraphQLResponse
	if err := json.Unmarshal(body, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(gqlResp.Errors) > 0 {
		return nil, fmt.Errorf("GraphQL error: %s", gqlResp.Errors[0].Message)
	}

	return gqlResp.Data, nil
}

func (c *Client) GetRecentlyCompletedIssues(ctx context.Context, days int) ([]Issue, error) {
	c.log.WithField("days", days).Debug("fetching completed issues")

	threshold := c.now().AddDate(0, 0, -days).Format("2006-01-02")

	query := `
		query($filter: IssueFilter) {
			issues(filter: $filter, first: 50) {
				nodes {
					id
					title
					description
					state {
						name
						type
					}
					completedAt
					updatedAt
					team {
						name
					}
				}
			}
		}
	`

	variables := map[string]any{
		"filter": map[string]any{
			"completedAt": map[string]any{
				"gte": threshold,
			},
		},
	}

	data, err := c.query(ctx, query, variables)
	if err != nil {
		return nil, err
	}

	var result struct {
		Issues struct {
			Nodes []Issue `json:"nodes"`
		} `json:"issues"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse issues: %w", err)
	}

	c.log.WithField("count", len(result.Issues.Nodes)).Debug("found completed issues")

	return result.Issues.Nodes, nil
}

// TopicHint returns the title of the most recently completed issue in the
// last `days` days, prefixed with its team name when there is one.
func (c *Client) TopicHint(ctx context.Context, days int) (string, error) {
	issues, err := c.GetRecentlyCompletedIssues(ctx, days)
	if err != nil {
		return "", err
	}

	var done []Issue
	for _, issue := range issues {
		if issue.CompletedAt != nil && strings.TrimSpace(issue.Title) != "" {
			done = append(done, issue)
		}
	}
	if len(done) == 0 {
		return "", ErrNoIssues
	}

	sort.SliceStable(done, func(i, j int) bool {
		return done[i].CompletedAt.After(*done[j].CompletedAt)
	})

	latest := done[0]
	hint := strings.TrimSpace(latest.Title)
	if latest.Team.Name != "" {
		hint = latest.Team.Name + ": " + hint
	}
	c.log.WithField("issue", latest.ID).Info("🧭 Using Linear issue as topic")
	return hint, nil
}
