package v1

import (
	"context"
	"net/http"
	"testing"

	"github.com/xihads/snaptasker/internal/store"
)

func TestCreateTaskPersistsDeadlineAsTimestamp(t *testing.T) {
	router, mem := newTestServer(t)
	cookie := sessionCookieFor(t, router, "creator@x.com")

	rec := performRequest(t, router, http.MethodPost, "/task", map[string]any{
		"title":    "t",
		"email":    "creator@x.com",
		"deadline": "2025-06-01",
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result store.InsertResult
	decodeBody(t, rec, &result)
	if result.InsertedID == "" {
		t.Fatal("expected a non-empty insertedId")
	}

	doc, err := mem.Tasks().FindByID(context.Background(), result.InsertedID)
	if err != nil {
		t.Fatalf("failed to read back task: %v", err)
	}
	if _, isString := doc["deadline"].(string); isString {
		t.Errorf("deadline stored as string, expected a timestamp: %v", doc["deadline"])
	}
	if _, ok := store.ParseDeadline(doc["deadline"]); !ok {
		t.Errorf("stored deadline is not a parseable timestamp: %v", doc["deadline"])
	}
}

func TestTaskDeadlineRoundTrip(t *testing.T) {
	router, _ := newTestServer(t)
	cookie := sessionCookieFor(t, router, "creator@x.com")

	rec := performRequest(t, router, http.MethodPost, "/task", map[string]any{
		"title":    "round trip",
		"deadline": "2025-03-05",
	}, cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result store.InsertResult
	decodeBody(t, rec, &result)

	rec = performRequest(t, router, http.MethodGet, "/task/"+result.InsertedID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var doc map[string]any
	decodeBody(t, rec, &doc)
	if doc["deadline"] != "2025-03-05" {
		t.Errorf("expected deadline \"2025-03-05\", got %v", doc["deadline"])
	}
}

func TestGetTaskNotFound(t *testing.T) {
	router, _ := newTestServer(t)

	// Well-formed identifier that matches nothing.
	rec := performRequest(t, router, http.MethodGet, "/task/64b7f0c2a1b2c3d4e5f60718", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = performRequest(t, router, http.MethodGet, "/task/not-a-hex-id", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestListTasksFiltersByEmail(t *testing.T) {
	router, mem := newTestServer(t)
	ctx := context.Background()

	for _, email := range []string{"a@x.com", "a@x.com", "b@x.com"} {
		_, err := mem.Tasks().Insert(ctx, store.Document{"email": email, "title": "t"})
		if err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}

	rec := performRequest(t, router, http.MethodGet, "/task?email=a@x.com", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var docs []map[string]any
	decodeBody(t, rec, &docs)
	if len(docs) != 2 {
		t.Errorf("expected 2 tasks for a@x.com, got %d", len(docs))
	}

	rec = performRequest(t, router, http.MethodGet, "/task", nil)
	decodeBody(t, rec, &docs)
	if len(docs) != 3 {
		t.Errorf("expected 3 tasks unfiltered, got %d", len(docs))
	}
}

func TestRecentTasksOrderingAndLimit(t *testing.T) {
	router, mem := newTestServer(t)
	ctx := context.Background()

	deadlines := []string{
		"2025-09-01", "2025-01-15", "2025-07-04",
		"2025-02-28", "2025-12-25", "2025-03-05", "2025-05-20",
	}
	for i, d := range deadlines {
		parsed, ok := store.ParseDeadlineString(d)
		if !ok {
			t.Fatalf("bad test deadline %q", d)
		}
		_, err := mem.Tasks().Insert(ctx, store.Document{"title": d, "deadline": parsed, "order": i})
		if err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}

	// A legacy extended-JSON deadline must still participate in ordering.
	_, err := mem.Tasks().Insert(ctx, store.Document{
		"title":    "legacy",
		"deadline": map[string]any{"$date": map[string]any{"$numberLong": "1735689600000"}}, // 2025-01-01
	})
	if err != nil {
		t.Fatalf("failed to seed legacy task: %v", err)
	}

	// An unparseable deadline must be excluded entirely.
	_, err = mem.Tasks().Insert(ctx, store.Document{"title": "broken", "deadline": "soon-ish"})
	if err != nil {
		t.Fatalf("failed to seed broken task: %v", err)
	}

	rec := performRequest(t, router, http.MethodGet, "/recentTasks", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var docs []map[string]any
	decodeBody(t, rec, &docs)
	if len(docs) != 6 {
		t.Fatalf("expected at most 6 tasks, got %d", len(docs))
	}

	wantTitles := []string{"legacy", "2025-01-15", "2025-02-28", "2025-03-05", "2025-05-20", "2025-07-04"}
	for i, want := range wantTitles {
		if docs[i]["title"] != want {
			t.Errorf("position %d: expected %q, got %v", i, want, docs[i]["title"])
		}
	}
	for _, doc := range docs {
		if doc["title"] == "broken" {
			t.Error("unparseable deadline must not appear in recent tasks")
		}
	}
}

func TestUpdateTaskUpserts(t *testing.T) {
	router, mem := newTestServer(t)
	ctx := context.Background()

	res, err := mem.Tasks().Insert(ctx, store.Document{"title": "before"})
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	rec := performRequest(t, router, http.MethodPut, "/task/"+res.InsertedID, map[string]any{"title": "after"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result store.UpdateResult
	decodeBody(t, rec, &result)
	if result.MatchedCount != 1 || result.ModifiedCount != 1 {
		t.Errorf("expected matched=1 modified=1, got %+v", result)
	}

	doc, err := mem.Tasks().FindByID(ctx, res.InsertedID)
	if err != nil {
		t.Fatalf("failed to read back task: %v", err)
	}
	if doc["title"] != "after" {
		t.Errorf("expected updated title, got %v", doc["title"])
	}

	// No match: the document is created instead.
	rec = performRequest(t, router, http.MethodPut, "/task/64b7f0c2a1b2c3d4e5f60718", map[string]any{"title": "upserted"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	decodeBody(t, rec, &result)
	if result.UpsertedCount != 1 {
		t.Errorf("expected upsertedCount=1, got %+v", result)
	}
}

func TestDeleteTask(t *testing.T) {
	router, mem := newTestServer(t)

	res, err := mem.Tasks().Insert(context.Background(), store.Document{"title": "doomed"})
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}

	rec := performRequest(t, router, http.MethodDelete, "/task/"+res.InsertedID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var result store.DeleteResult
	decodeBody(t, rec, &result)
	if result.DeletedCount != 1 {
		t.Errorf("expected deletedCount=1, got %+v", result)
	}

	rec = performRequest(t, router, http.MethodGet, "/task/"+res.InsertedID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
}
