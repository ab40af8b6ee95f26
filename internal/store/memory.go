package store

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is a map-backed implementation of every store contract. It backs
// the handler tests and is handy for running the service without a
// database. A single mutex stands in for the document store's internal
// concurrency control, which also makes the bid uniqueness guard atomic.
type Memory struct {
	mu           sync.Mutex
	tasks        map[string]Document
	bids         map[string]Document
	applications map[string]Document
	users        map[string]User
}

func NewMemory() *Memory {
	return &Memory{
		tasks:        make(map[string]Document),
		bids:         make(map[string]Document),
		applications: make(map[string]Document),
		users:        make(map[string]User),
	}
}

func cloneDocument(doc Document) Document {
	clone := make(Document, len(doc))
	for k, v := range doc {
		clone[k] = v
	}
	return clone
}

func (m *Memory) insert(collection map[string]Document, doc Document) *InsertResult {
	id := primitive.NewObjectID().Hex()
	stored := cloneDocument(doc)
	stored["_id"] = id
	collection[id] = stored
	return &InsertResult{Acknowledged: true, InsertedID: id}
}

type memoryTasks struct{ m *Memory }

// Tasks returns the task-collection view of the memory store.
func (m *Memory) Tasks() TaskStore { return memoryTasks{m} }

func (s memoryTasks) Insert(_ context.Context, task Document) (*InsertResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.m.insert(s.m.tasks, task), nil
}

func (s memoryTasks) FindByID(_ context.Context, id string) (Document, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, ErrInvalidID
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	doc, ok := s.m.tasks[id]
	if !ok {
		return nil, ErrNoDocuments
	}
	return cloneDocument(doc), nil
}

func (s memoryTasks) Find(_ context.Context, email string) ([]Document, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	docs := []Document{}
	for _, doc := range s.m.tasks {
		if email != "" && doc["email"] != email {
			continue
		}
		docs = append(docs, cloneDocument(doc))
	}
	return docs, nil
}

func (s memoryTasks) Recent(ctx context.Context, limit int) ([]Document, error) {
	docs, err := s.Find(ctx, "")
	if err != nil {
		return nil, err
	}
	return SortByDeadline(docs, limit), nil
}

func (s memoryTasks) Update(_ context.Context, id string, fields Document) (*UpdateResult, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, ErrInvalidID
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	delete(fields, "_id")

	doc, ok := s.m.tasks[id]
	if !ok {
		upserted := cloneDocument(fields)
		upserted["_id"] = id
		s.m.tasks[id] = upserted
		return &UpdateResult{
			Acknowledged:  true,
			UpsertedCount: 1,
			UpsertedID:    id,
		}, nil
	}

	modified := int64(0)
	if len(fields) > 0 {
		modified = 1
	}
	for k, v := range fields {
		doc[k] = v
	}
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  1,
		ModifiedCount: modified,
	}, nil
}

func (s memoryTasks) Delete(_ context.Context, id string) (*DeleteResult, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, ErrInvalidID
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	res := &DeleteResult{Acknowledged: true}
	if _, ok := s.m.tasks[id]; ok {
		delete(s.m.tasks, id)
		res.DeletedCount = 1
	}
	return res, nil
}

type memoryBids struct{ m *Memory }

// Bids returns the bid-collection view of the memory store.
func (m *Memory) Bids() BidStore { return memoryBids{m} }

func (s memoryBids) Insert(_ context.Context, bid Document) (*InsertResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, existing := range s.m.bids {
		if existing["taskId"] == bid["taskId"] && existing["userEmail"] == bid["userEmail"] {
			return nil, ErrDuplicateBid
		}
	}
	return s.m.insert(s.m.bids, bid), nil
}

func (s memoryBids) Exists(_ context.Context, email, taskID string) (bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, bid := range s.m.bids {
		if bid["taskId"] == taskID && bid["userEmail"] == email {
			return true, nil
		}
	}
	return false, nil
}

func (s memoryBids) CountByUser(_ context.Context, email string) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	var count int64
	for _, bid := range s.m.bids {
		if bid["userEmail"] == email {
			count++
		}
	}
	return count, nil
}

func (s memoryBids) FindByTask(_ context.Context, taskID string) ([]Document, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	docs := []Document{}
	for _, bid := range s.m.bids {
		if bid["taskId"] == taskID {
			docs = append(docs, cloneDocument(bid))
		}
	}
	return docs, nil
}

func (s memoryBids) FindByUser(_ context.Context, email string) ([]Document, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	docs := []Document{}
	for _, bid := range s.m.bids {
		if bid["userEmail"] == email {
			docs = append(docs, cloneDocument(bid))
		}
	}
	return docs, nil
}

type memoryApplications struct{ m *Memory }

// Applications returns the application-collection view of the memory store.
func (m *Memory) Applications() ApplicationStore { return memoryApplications{m} }

func (s memoryApplications) Insert(_ context.Context, application Document) (*InsertResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.m.insert(s.m.applications, application), nil
}

func (s memoryApplications) Find(_ context.Context, applicantEmail, taskID string) ([]Document, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	docs := []Document{}
	for _, doc := range s.m.applications {
		if applicantEmail != "" && doc["applicantEmail"] != applicantEmail {
			continue
		}
		if taskID != "" && doc["taskId"] != taskID {
			continue
		}
		docs = append(docs, cloneDocument(doc))
	}
	return docs, nil
}

func (s memoryApplications) FindByTask(ctx context.Context, taskID string) ([]Document, error) {
	return s.Find(ctx, "", taskID)
}

func (s memoryApplications) Delete(_ context.Context, id string) (*DeleteResult, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, ErrInvalidID
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	res := &DeleteResult{Acknowledged: true}
	if _, ok := s.m.applications[id]; ok {
		delete(s.m.applications, id)
		res.DeletedCount = 1
	}
	return res, nil
}

type memoryUsers struct{ m *Memory }

// Users returns the user-collection view of the memory store.
func (m *Memory) Users() UserStore { return memoryUsers{m} }

func (s memoryUsers) FindByEmail(_ context.Context, email string) (*User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	user, ok := s.m.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (s memoryUsers) SaveCredentials(_ context.Context, user User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	s.m.users[user.Email] = user
	return nil
}
