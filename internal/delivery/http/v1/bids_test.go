package v1

import (
	"context"
	"net/http"
	"testing"
)

func TestCreateBid(t *testing.T) {
	router, mem := newTestServer(t)

	rec := performRequest(t, router, http.MethodPost, "/bids", map[string]any{
		"taskId":    "task-1",
		"userEmail": "bidder@x.com",
		"amount":    120,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Success    bool   `json:"success"`
		InsertedID string `json:"insertedId"`
	}
	decodeBody(t, rec, &body)
	if !body.Success || body.InsertedID == "" {
		t.Errorf("expected success with insertedId, got %+v", body)
	}

	// bidDate defaults to submission time when absent.
	docs, err := mem.Bids().FindByTask(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("failed to read back bids: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 bid, got %d", len(docs))
	}
	if _, ok := docs[0]["bidDate"]; !ok {
		t.Error("expected bidDate to be defaulted")
	}
}

func TestCreateBidRejectsDuplicate(t *testing.T) {
	router, _ := newTestServer(t)

	bid := map[string]any{"taskId": "task-1", "userEmail": "bidder@x.com"}

	rec := performRequest(t, router, http.MethodPost, "/bids", bid)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for first bid, got %d", rec.Code)
	}

	rec = performRequest(t, router, http.MethodPost, "/bids", bid)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate bid, got %d", rec.Code)
	}

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, rec, &body)
	if body.Success {
		t.Error("expected success:false")
	}
	if body.Message != "You have already placed a bid on this task" {
		t.Errorf("unexpected message: %q", body.Message)
	}

	// A different user may still bid on the same task.
	rec = performRequest(t, router, http.MethodPost, "/bids", map[string]any{
		"taskId":    "task-1",
		"userEmail": "other@x.com",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for different bidder, got %d", rec.Code)
	}
}

func TestCreateBidRequiresKeyFields(t *testing.T) {
	router, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing taskId", body: map[string]any{"userEmail": "bidder@x.com"}},
		{name: "missing userEmail", body: map[string]any{"taskId": "task-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performRequest(t, router, http.MethodPost, "/bids", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestBidExists(t *testing.T) {
	router, _ := newTestServer(t)

	performRequest(t, router, http.MethodPost, "/bids", map[string]any{
		"taskId":    "task-1",
		"userEmail": "bidder@x.com",
	})

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing bid", path: "/bids/check/bidder@x.com/task-1", want: true},
		{name: "other task", path: "/bids/check/bidder@x.com/task-2", want: false},
		{name: "other user", path: "/bids/check/nobody@x.com/task-1", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performRequest(t, router, http.MethodGet, tt.path, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var body struct {
				Exists bool `json:"exists"`
			}
			decodeBody(t, rec, &body)
			if body.Exists != tt.want {
				t.Errorf("expected exists=%v, got %v", tt.want, body.Exists)
			}
		})
	}
}

func TestBidCountAndLists(t *testing.T) {
	router, _ := newTestServer(t)

	seed := []map[string]any{
		{"taskId": "task-1", "userEmail": "bidder@x.com"},
		{"taskId": "task-2", "userEmail": "bidder@x.com"},
		{"taskId": "task-1", "userEmail": "other@x.com"},
	}
	for _, bid := range seed {
		rec := performRequest(t, router, http.MethodPost, "/bids", bid)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed to seed bid: %d %s", rec.Code, rec.Body.String())
		}
	}

	rec := performRequest(t, router, http.MethodGet, "/bids/count/bidder@x.com", nil)
	var countBody struct {
		Count int64 `json:"count"`
	}
	decodeBody(t, rec, &countBody)
	if countBody.Count != 2 {
		t.Errorf("expected count=2, got %d", countBody.Count)
	}

	rec = performRequest(t, router, http.MethodGet, "/bids/task/task-1", nil)
	var docs []map[string]any
	decodeBody(t, rec, &docs)
	if len(docs) != 2 {
		t.Errorf("expected 2 bids for task-1, got %d", len(docs))
	}

	rec = performRequest(t, router, http.MethodGet, "/bids/user/other@x.com", nil)
	decodeBody(t, rec, &docs)
	if len(docs) != 1 {
		t.Errorf("expected 1 bid for other@x.com, got %d", len(docs))
	}
}
