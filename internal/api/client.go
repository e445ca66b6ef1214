package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sanjog-lama/adk-graph-ui/internal/config"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Server, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func sessionPath(agent, user string, elem ...string) string {
	parts := []string{"/apps", url.PathEscape(agent), "users", url.PathEscape(user), "sessions"}
	for _, e := range elem {
		parts = append(parts, url.PathEscape(e))
	}
	return strings.Join(parts, "/")
}

// ─── Agents ─────────────────────────────────────────────────────────────────

func (c *Client) ListAgents() ([]string, error) {
	var agents []string
	if err := c.doJSON("GET", "/list-apps", nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// ─── Session lifecycle ──────────────────────────────────────────────────────

func (c *Client) CreateSession(agent, user, sessionID string) (*Session, error) {
	var sess Session
	if err := c.doJSON("POST", sessionPath(agent, user, sessionID), map[string]any{}, &sess); err != nil {
		return nil, err
	}
	if sess.ID == "" {
		sess.ID = sessionID
	}
	return &sess, nil
}

// DeleteSession removes a session on the backend. A 404 means it was already
// gone, which callers treat as success.
func (c *Client) DeleteSession(agent, user, sessionID string) error {
	err := c.doJSON("DELETE", sessionPath(agent, user, sessionID), nil, nil)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return nil
	}
	return err
}

func (c *Client) ListSessions(agent, user string) ([]Session, error) {
	var sessions []Session
	if err := c.doJSON("GET", sessionPath(agent, user), nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) GetSession(agent, user, sessionID string) (*Session, error) {
	var sess Session
	if err := c.doJSON("GET", sessionPath(agent, user, sessionID), nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// ─── Run (non-streaming) ────────────────────────────────────────────────────

// Run posts a user message and waits for the whole turn, returning every
// event the agent produced.
func (c *Client) Run(agent, user, sessionID, text string) ([]Event, error) {
	reqBody := RunRequest{
		AppName:   agent,
		UserID:    user,
		SessionID: sessionID,
		NewMessage: &NewMessage{
			Role:  "user",
			Parts: []Part{{Text: text}},
		},
	}
	var raw []json.RawMessage
	if err := c.doJSON("POST", "/run", reqBody, &raw); err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(raw))
	for _, r := range raw {
		var ev Event
		if err := json.Unmarshal(r, &ev); err != nil {
			continue
		}
		ev.Raw = r
		events = append(events, ev)
	}
	return events, nil
}

// ─── Generic JSON helper ────────────────────────────────────────────────────

// StatusError reports a non-2xx response with its status code so callers can
// special-case individual codes.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

func (c *Client) doJSON(method, path string, reqBody interface{}, result interface{}) error {
	var bodyReader io.Reader
	if reqBody != nil && method != "GET" {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}
	}
	return nil
}
