package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sanjog-lama/adk-graph-ui/internal/config"
)

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(&config.Config{Server: srv.URL})
}

func TestListAgents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/list-apps" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]string{"data_analyst", "support_bot"})
	}))
	defer srv.Close()

	agents, err := newTestClient(srv).ListAgents()
	if err != nil {
		t.Fatalf("ListAgents() error = %v", err)
	}
	if len(agents) != 2 || agents[0] != "data_analyst" {
		t.Errorf("agents = %v", agents)
	}
}

func TestCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("method = %s", r.Method)
		}
		wantPath := "/apps/data_analyst/users/alice/sessions/sess-1"
		if r.URL.Path != wantPath {
			t.Errorf("path = %s, want %s", r.URL.Path, wantPath)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		json.NewEncoder(w).Encode(Session{ID: "sess-1", AppName: "data_analyst"})
	}))
	defer srv.Close()

	sess, err := newTestClient(srv).CreateSession("data_analyst", "alice", "sess-1")
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID != "sess-1" {
		t.Errorf("session = %+v", sess)
	}
}

func TestCreateSessionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv).CreateSession("a", "u", "s"); err == nil {
		t.Fatal("expected error on 500")
	}
}

func TestDeleteSession(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"no content", http.StatusNoContent, false},
		{"already gone", http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != "DELETE" {
					t.Errorf("method = %s", r.Method)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			err := newTestClient(srv).DeleteSession("a", "u", "s")
			if (err != nil) != tt.wantErr {
				t.Errorf("DeleteSession() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestListSessions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/apps/a/users/u/sessions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]Session{{ID: "s1"}, {ID: "s2"}})
	}))
	defer srv.Close()

	sessions, err := newTestClient(srv).ListSessions("a", "u")
	if err != nil {
		t.Fatalf("ListSessions() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("sessions = %+v", sessions)
	}
}

func TestGetSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Session{
			ID: "s1",
			Events: []Event{
				{Content: &Content{Role: "user", Parts: []Part{{Text: "hi"}}}},
			},
		})
	}))
	defer srv.Close()

	sess, err := newTestClient(srv).GetSession("a", "u", "s1")
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if len(sess.Events) != 1 || sess.Events[0].Content.Parts[0].Text != "hi" {
		t.Errorf("session = %+v", sess)
	}
}

func TestRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/run" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req RunRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.AppName != "a" || req.SessionID != "s" || req.NewMessage.Parts[0].Text != "question" {
			t.Errorf("request = %+v", req)
		}
		w.Write([]byte(`[
			{"author":"agent","content":{"parts":[{"text":"answer"}]}},
			{"author":"agent","actions":{"stateDelta":{"analytics_output":{"analysis_summary":"s"}}}}
		]`))
	}))
	defer srv.Close()

	events, err := newTestClient(srv).Run("a", "u", "s", "question")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %+v", events)
	}
	if events[0].Content.Parts[0].Text != "answer" {
		t.Errorf("first event = %+v", events[0])
	}
	if len(events[1].Raw) == 0 {
		t.Error("raw record not retained")
	}
}

func TestJoinText(t *testing.T) {
	events := []Event{
		{Content: &Content{Parts: []Part{{Text: "a"}, {FunctionCall: &FunctionCall{Name: "f"}}}}},
		{Author: "no content"},
		{Content: &Content{Parts: []Part{{Text: "b"}}}},
	}
	if got := JoinText(events); got != "ab" {
		t.Errorf("JoinText = %q", got)
	}
}

func TestPartIsText(t *testing.T) {
	if (Part{FunctionCall: &FunctionCall{}}).IsText() {
		t.Error("function call part reported as text")
	}
	if !(Part{Text: "x"}).IsText() {
		t.Error("text part not reported as text")
	}
}
