package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// postDecoded posts a body and decodes the JSON response into out.
func (c *HTTPClient) postDecoded(ctx context.Context, url string, body, out interface{}) (int, error) {
	resp, err := c.Post(ctx, url, body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// matchDriver plays scripted matches against the service.
type matchDriver struct {
	client  *HTTPClient
	baseURL string
}

// playResult summarizes one played match.
type playResult struct {
	matchID   string
	homeID    string
	awayID    string
	winner    string
	winType   string
	overtime  bool
	submitted int
	duplicate int
}

// play drives a single scripted match to completion.
func (d *matchDriver) play(ctx context.Context, script matchScript) (playResult, error) {
	var result playResult
	result.homeID = script.Home.ID
	result.awayID = script.Away.ID

	var state matchState
	code, err := d.client.postDecoded(ctx, d.baseURL+"/matches", createMatchRequest{Home: script.Home, Away: script.Away}, &state)
	if err != nil {
		return result, fmt.Errorf("create match: %w", err)
	}
	if code != http.StatusCreated {
		return result, fmt.Errorf("create match returned status %d", code)
	}
	result.matchID = state.MatchID
	matchURL := d.baseURL + "/matches/" + state.MatchID

	if _, err := d.client.postDecoded(ctx, matchURL+"/clock", clockRequest{Running: true}, nil); err != nil {
		return result, fmt.Errorf("start clock: %w", err)
	}

	for p, moves := range script.Periods {
		for _, move := range moves {
			done, err := d.submit(ctx, matchURL, move, &result)
			if err != nil {
				return result, err
			}
			if done {
				return result, nil
			}
		}

		if script.PinPeriod == p {
			done, err := d.submit(ctx, matchURL, scriptedMove{Side: script.PinSide, Action: "fall"}, &result)
			if err != nil {
				return result, err
			}
			if done {
				return result, nil
			}
		}

		code, err := d.client.postDecoded(ctx, matchURL+"/period", periodRequest{}, &state)
		if err != nil {
			return result, fmt.Errorf("advance period: %w", err)
		}
		if code != http.StatusOK {
			return result, fmt.Errorf("advance period returned status %d", code)
		}
		if finished(state, &result) {
			return result, nil
		}
	}

	// Regulation ended tied; sudden victory decides it.
	result.overtime = true
	done, err := d.submit(ctx, matchURL, script.Overtime, &result)
	if err != nil {
		return result, err
	}
	if !done {
		return result, fmt.Errorf("match %s still open after overtime takedown", result.matchID)
	}
	return result, nil
}

// submit posts one scoring event and reports whether the match completed.
// Every tenth event is resubmitted to exercise the idempotency path.
func (d *matchDriver) submit(ctx context.Context, matchURL string, move scriptedMove, result *playResult) (bool, error) {
	req := eventRequest{
		EventID: uuid.New().String(),
		Side:    move.Side,
		Action:  move.Action,
	}

	var ack eventAck
	code, err := d.client.postDecoded(ctx, matchURL+"/events", req, &ack)
	if err != nil {
		return false, fmt.Errorf("submit event: %w", err)
	}
	if code != http.StatusCreated {
		return false, fmt.Errorf("submit event returned status %d", code)
	}
	result.submitted++

	if result.submitted%10 == 0 {
		var dupAck eventAck
		code, err := d.client.postDecoded(ctx, matchURL+"/events", req, &dupAck)
		if err != nil {
			return false, fmt.Errorf("resubmit event: %w", err)
		}
		if code == http.StatusOK && dupAck.Duplicate {
			result.duplicate++
		}
	}

	return finished(ack.Match, result), nil
}

// finished records the outcome when the snapshot shows a completed match.
func finished(state matchState, result *playResult) bool {
	if state.Phase != "complete" || state.Outcome == nil {
		return false
	}
	result.winner = state.Outcome.Winner
	result.winType = state.Outcome.WinType
	return true
}
