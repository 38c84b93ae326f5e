package authsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// maxResponseBody caps how much of a response the client reads.
const maxResponseBody = 1 << 20

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodGet, path, nil, "")
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*http.Response, error) {
	return c.doRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// readBody drains and closes the response body.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// decodeJSON decodes a response with expectedStatus into target, anything
// else becomes an *APIError.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	body, err := readBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatusNoContent(resp *http.Response) error {
	body, err := readBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return parseErrorResponse(resp, body)
	}
	return nil
}
