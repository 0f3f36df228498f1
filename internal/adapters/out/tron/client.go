// Package tron provides the HTTP client for the external route optimizer.
package tron

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dispatch/internal/core/domain/model/vrp"
	"dispatch/internal/core/ports"
)

const defaultTimeout = 90 * time.Second

// Client sends routing problems to the optimizer and decodes its solutions.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates an optimizer client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// Solve posts the problem and returns the solver output. Any transport
// failure, non-2xx status or unfinished solver run is reported as
// ports.ErrOptimizerFailed.
func (c *Client) Solve(ctx context.Context, problem vrp.Problem) (vrp.Output, error) {
	body, err := json.Marshal(problem)
	if err != nil {
		return vrp.Output{}, fmt.Errorf("%w: encode problem: %w", ports.ErrOptimizerFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return vrp.Output{}, fmt.Errorf("%w: %w", ports.ErrOptimizerFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return vrp.Output{}, fmt.Errorf("%w: %w", ports.ErrOptimizerFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return vrp.Output{}, fmt.Errorf("%w: unexpected status %d", ports.ErrOptimizerFailed, resp.StatusCode)
	}

	var solverResp vrp.Response
	if err := json.NewDecoder(resp.Body).Decode(&solverResp); err != nil {
		return vrp.Output{}, fmt.Errorf("%w: decode response: %w", ports.ErrOptimizerFailed, err)
	}

	if solverResp.Status != vrp.StatusFinished {
		return vrp.Output{}, fmt.Errorf("%w: solver status %q: %s",
			ports.ErrOptimizerFailed, solverResp.Status, solverResp.Error)
	}

	return solverResp.Output, nil
}
