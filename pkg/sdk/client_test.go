package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChat_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Message != "Come deposito?" {
			t.Errorf("unexpected message %q", req.Message)
		}
		_ = json.NewEncoder(w).Encode(ChatReply{
			Response:       "Vai su Portafoglio.",
			ConversationID: "c1",
			Sources:        []Source{{Category: "Pagamenti", Question: "Come deposito?", Score: 0.9}},
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	reply, err := client.Chat(context.Background(), "Come deposito?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Response != "Vai su Portafoglio." || reply.ConversationID != "c1" {
		t.Errorf("unexpected reply: %+v", reply)
	}
	if len(reply.Sources) != 1 || reply.Sources[0].Category != "Pagamenti" {
		t.Errorf("unexpected sources: %v", reply.Sources)
	}
}

func TestChat_APIErrorSentinels(t *testing.T) {
	tests := []struct {
		code     string
		status   int
		sentinel error
	}{
		{"empty_message", http.StatusBadRequest, ErrEmptyMessage},
		{"embedding_provider_error", http.StatusBadGateway, ErrEmbeddingProvider},
		{"generation_provider_error", http.StatusBadGateway, ErrGenerationProvider},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprintf(w, `{"code":%q,"message":"boom"}`, tt.code)
			}))
			defer srv.Close()

			_, err := New(srv.URL).Chat(context.Background(), "ciao", "")
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("expected sentinel for %s, got %v", tt.code, err)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.StatusCode != tt.status {
				t.Errorf("expected APIError with status %d, got %v", tt.status, err)
			}
		})
	}
}

func TestChatStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat/stream" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		events := []string{
			`{"type":"init","conversation_id":"c1"}`,
			`{"type":"chunk","text":"Vai su "}`,
			`{"type":"chunk","text":"Portafoglio."}`,
			`{"type":"done","sources":[{"category":"Pagamenti","question":"Come deposito?","score":0.9}]}`,
		}
		for _, ev := range events {
			fmt.Fprintf(w, "data: %s\n\n", ev)
		}
	}))
	defer srv.Close()

	events, err := New(srv.URL).ChatStream(context.Background(), "Come deposito?", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []Event
	for ev := range events {
		got = append(got, ev)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 events, got %d", len(got))
	}
	if got[0].Type != EventInit || got[0].ConversationID != "c1" {
		t.Errorf("bad init event: %+v", got[0])
	}
	if got[1].Text+got[2].Text != "Vai su Portafoglio." {
		t.Errorf("unexpected chunk text %q", got[1].Text+got[2].Text)
	}
	if got[3].Type != EventDone || len(got[3].Sources) != 1 {
		t.Errorf("bad done event: %+v", got[3])
	}
}

func TestChatStream_RejectedBeforeStreaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"code":"empty_message","message":"message is empty"}`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).ChatStream(context.Background(), "", "")
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestFeedback(t *testing.T) {
	var received map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		fmt.Fprint(w, `{"status":"received"}`)
	}))
	defer srv.Close()

	err := New(srv.URL).Feedback(context.Background(), "c1", 1, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received["conversation_id"] != "c1" || received["rating"] != float64(-1) {
		t.Errorf("unexpected payload: %v", received)
	}
}

func TestRetrieve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/retrieve" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"results":[{"category":"Pagamenti","question":"Come deposito?","score":0.9}]}`)
	}))
	defer srv.Close()

	results, err := New(srv.URL).Retrieve(context.Background(), "deposito", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Category != "Pagamenti" {
		t.Errorf("unexpected results: %v", results)
	}
}

func TestHealth_Degraded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"status":"degraded","knowledge_base_qa":0,"checks":{"index":"error","embedding":"ok"}}`)
	}))
	defer srv.Close()

	status, err := New(srv.URL).Health(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status != "degraded" || status.Checks["index"] != "error" {
		t.Errorf("unexpected status: %+v", status)
	}
}
