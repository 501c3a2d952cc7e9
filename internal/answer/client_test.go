package answer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestQuerySendsWireRequest(t *testing.T) {
	var got QueryRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/query" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header: %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(QueryResponse{Answer: "Oyibi is near Adenta.", ProcessingTime: 0.42})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 5*time.Second)
	resp, err := client.Query(context.Background(), "Where is Oyibi?", "conv-1")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if resp.Answer != "Oyibi is near Adenta." {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
	if got.Text != "Where is Oyibi?" || got.CorrelationID != "conv-1" {
		t.Errorf("unexpected wire request: %+v", got)
	}
}

func TestQueryFallbackCorrelationID(t *testing.T) {
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req QueryRequest
		json.NewDecoder(r.Body).Decode(&req)
		ids = append(ids, req.CorrelationID)
		json.NewEncoder(w).Encode(QueryResponse{Answer: "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	for i := 0; i < 2; i++ {
		if _, err := client.Query(context.Background(), "hi", ""); err != nil {
			t.Fatalf("Query failed: %v", err)
		}
	}

	if len(ids) != 2 || ids[0] == "" || ids[0] != ids[1] {
		t.Fatalf("anonymous queries not correlated to one session: %v", ids)
	}
	if !strings.HasPrefix(ids[0], "session_") {
		t.Errorf("unexpected session id format: %q", ids[0])
	}
}

func TestQueryServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"detail": "upstream model unavailable"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.Query(context.Background(), "hi", "conv-1")

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
	if svcErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", svcErr.StatusCode)
	}
	if !strings.Contains(svcErr.Message, "upstream model unavailable") {
		t.Errorf("expected detail in message, got %q", svcErr.Message)
	}
}

func TestQueryUnreachableService(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", 200*time.Millisecond)
	_, err := client.Query(context.Background(), "hi", "conv-1")

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
	if svcErr.StatusCode != 0 {
		t.Errorf("expected status 0 for transport failure, got %d", svcErr.StatusCode)
	}
}

func TestQueryCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		time.Sleep(2 * time.Second)
		json.NewEncoder(w).Encode(QueryResponse{Answer: "too late"})
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	client := NewClient(server.URL, "", 10*time.Second)
	_, err := client.Query(ctx, "hi", "conv-1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestQueryCancelledBeforeIssue(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.Query(ctx, "hi", "conv-1")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if requests != 0 {
		t.Errorf("request was issued despite cancelled ctx")
	}
}
