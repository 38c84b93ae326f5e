package authsdk

import (
	"context"
	"encoding/json"
	"net/http"
)

// GetLiveness checks if the service process is up.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.get(ctx, "/livez")
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

// GetReadiness checks if the service can serve requests. A service that is
// up but not ready returns its health report together with an *APIError
// carrying status 503.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.get(ctx, "/readyz")
	if err != nil {
		return nil, err
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	decodeErr := json.Unmarshal(body, &health)

	switch {
	case resp.StatusCode == http.StatusOK && decodeErr == nil:
		return &health, nil
	case resp.StatusCode == http.StatusServiceUnavailable && decodeErr == nil && health.Status != "":
		return &health, NewAPIError(resp.StatusCode, ErrorCodeServerError, "service not ready: "+health.Status)
	default:
		return nil, parseErrorResponse(resp, body)
	}
}
