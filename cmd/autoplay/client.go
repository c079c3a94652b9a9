package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/service"
)

// Client drives one session over the REST API
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client is attached to
func (c *Client) SessionID() string { return c.sessionID }

// Attach points the client at an existing session
func (c *Client) Attach(id string) { c.sessionID = id }

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed: %s", method, path, resp.Status)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + c.sessionID + suffix
}

// CreateSession starts a new session and attaches the client to it
func (c *Client) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", map[string]string{"config_id": configID}, &session); err != nil {
		return nil, err
	}
	c.sessionID = session.ID
	return &session, nil
}

// GetSession fetches the attached session with its config
func (c *Client) GetSession(ctx context.Context) (*service.SessionInfo, error) {
	var session service.SessionInfo
	if err := c.do(ctx, http.MethodGet, c.sessionPath(""), nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Act applies a single action
func (c *Client) Act(ctx context.Context, action engine.Action) (*service.ActionOutcome, error) {
	var outcome service.ActionOutcome
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/action"), map[string]string{"action": string(action)}, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// BulkAct applies a planned sequence in one request
func (c *Client) BulkAct(ctx context.Context, actions []engine.Action) (*service.BulkActionResult, error) {
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	var result service.BulkActionResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/bulk-action"), map[string]interface{}{"actions": names}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reset restarts the attached session
func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.State, nil
}
