package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPInvoker calls a generator served over HTTP at POST {baseURL}/generate.
// The deadline comes from the caller's context.
type HTTPInvoker struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPInvoker(baseURL string) *HTTPInvoker {
	return &HTTPInvoker{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

func (i *HTTPInvoker) Invoke(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, i.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := i.httpClient.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to call generator: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to read generator response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return GenerateResponse{}, fmt.Errorf("generator returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return GenerateResponse{}, fmt.Errorf("failed to parse generator response: %w", err)
	}
	return out, nil
}
