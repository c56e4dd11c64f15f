package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient(base string, timeout time.Duration) *apiClient {
	return &apiClient{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        256,
				MaxIdleConnsPerHost: 256,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

type claimResult struct {
	status        int
	reservationID string
	code          string
	latency       time.Duration
	err           error
}

func (c *apiClient) claim(ctx context.Context, userID, eventID string, row, column int) claimResult {
	body, err := json.Marshal(map[string]any{
		"user_id":  userID,
		"event_id": eventID,
		"row":      row,
		"column":   column,
	})
	if err != nil {
		return claimResult{err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/seats/claim", bytes.NewReader(body))
	if err != nil {
		return claimResult{err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := time.Since(start)
	if err != nil {
		return claimResult{err: err, latency: latency}
	}
	defer resp.Body.Close()

	var payload struct {
		ReservationID string `json:"reservation_id"`
		Code          string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		return claimResult{status: resp.StatusCode, err: fmt.Errorf("decode claim response: %w", err), latency: latency}
	}
	return claimResult{
		status:        resp.StatusCode,
		reservationID: payload.ReservationID,
		code:          payload.Code,
		latency:       latency,
	}
}

// layoutCell mirrors one entry of the layout matrix: null is free, a string is a reservation
// id and false marks a position with no seat.
type layoutCell struct {
	exists        bool
	reservationID string
}

func (c *apiClient) layout(ctx context.Context, eventID string) ([][]layoutCell, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/events/"+url.PathEscape(eventID)+"/layout", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("layout: %s: %s", resp.Status, apiErr.Error)
	}

	var raw [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode layout: %w", err)
	}
	return parseLayout(raw)
}

func parseLayout(raw [][]json.RawMessage) ([][]layoutCell, error) {
	out := make([][]layoutCell, len(raw))
	for i, row := range raw {
		out[i] = make([]layoutCell, len(row))
		for j, cell := range row {
			switch s := strings.TrimSpace(string(cell)); s {
			case "null":
				out[i][j] = layoutCell{exists: true}
			case "false":
				out[i][j] = layoutCell{}
			default:
				var id string
				if err := json.Unmarshal(cell, &id); err != nil {
					return nil, fmt.Errorf("cell %d,%d: unexpected value %s", i+1, j+1, s)
				}
				out[i][j] = layoutCell{exists: true, reservationID: id}
			}
		}
	}
	return out, nil
}
