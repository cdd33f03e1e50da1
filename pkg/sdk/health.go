package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status  string            `json:"status"`
	Entries int               `json:"knowledge_base_qa"`
	Checks  map[string]string `json:"checks"`
}

// Health checks the health of all server components. A degraded server
// responds with 503; the report is still returned in that case.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return status, fmt.Errorf("sdk: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return status, fmt.Errorf("sdk: health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return status, apiErrorFromResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, fmt.Errorf("sdk: decode health response: %w", err)
	}
	return status, nil
}
