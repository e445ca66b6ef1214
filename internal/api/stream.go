package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sanjog-lama/adk-graph-ui/internal/logging"
)

// StreamCallbacks receives the parsed records of one /run_sse call.
// OnComplete fires exactly once per call regardless of how the stream ends;
// OnError replaces it when the server reports a failure mid-stream.
type StreamCallbacks struct {
	OnEvent    func(ev Event)
	OnComplete func()
	OnError    func(msg string)
}

// RunSSE posts a user message and consumes the server-sent event stream of
// the resulting turn. Framing rules:
//
//   - only lines prefixed "data: " carry payloads; everything else is noise
//   - the last partial line is never parsed early (scanner handles framing)
//   - unparseable payloads are logged and skipped, the stream continues
//   - {"type":"error"} and {"type":"complete"} are control records, not events
func (c *Client) RunSSE(agent, user, sessionID, text string, cb StreamCallbacks) error {
	reqBody := RunRequest{
		AppName:   agent,
		UserID:    user,
		SessionID: sessionID,
		NewMessage: &NewMessage{
			Role:  "user",
			Parts: []Part{{Text: text}},
		},
		Streaming: true,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/run_sse", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(errBody))
	}

	scanner := bufio.NewScanner(resp.Body)
	// Increase buffer for large streamed records
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	completed := false
	complete := func() {
		if !completed {
			completed = true
			if cb.OnComplete != nil {
				cb.OnComplete()
			}
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		if payload == "" {
			continue
		}

		var ctrl controlRecord
		if err := json.Unmarshal([]byte(payload), &ctrl); err == nil && ctrl.Type != "" {
			switch ctrl.Type {
			case "error":
				completed = true
				if cb.OnError != nil {
					cb.OnError(ctrl.Message)
				}
				return nil
			case "complete":
				complete()
				return nil
			}
			continue
		}

		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			// Skip unparseable records
			logging.L().Warn("skipping unparseable stream record", "err", err)
			continue
		}
		ev.Raw = json.RawMessage(payload)
		if cb.OnEvent != nil {
			cb.OnEvent(ev)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	complete()
	return nil
}
