package store

import (
	"context"
	"errors"
)

var (
	ErrNoDocuments  = errors.New("no documents found")
	ErrInvalidID    = errors.New("invalid document id")
	ErrDuplicateBid = errors.New("bid already placed for this task")
	ErrUserNotFound = errors.New("user not found")
)

// Document is a free-form record as stored in a collection. The service
// passes request bodies through as documents and only interprets a few
// well-known fields (deadline, taskId, userEmail, applicantEmail).
type Document map[string]any

// InsertResult mirrors the driver's insert acknowledgement; it is
// returned to clients as-is.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

type UpdateResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

type TaskStore interface {
	// Insert persists a task document and returns the new identifier.
	Insert(ctx context.Context, task Document) (*InsertResult, error)

	// FindByID returns a single task or ErrNoDocuments.
	FindByID(ctx context.Context, id string) (Document, error)

	// Find returns all tasks, restricted to one creator
	// when email is non-empty.
	Find(ctx context.Context, email string) ([]Document, error)

	// Recent returns up to limit tasks ordered by nearest upcoming
	// deadline. Tasks whose deadline cannot be normalized are excluded.
	Recent(ctx context.Context, limit int) ([]Document, error)

	// Update applies fields to the task with partial-set semantics,
	// creating the document when none matches.
	Update(ctx context.Context, id string, fields Document) (*UpdateResult, error)

	Delete(ctx context.Context, id string) (*DeleteResult, error)
}

type BidStore interface {
	// Insert persists a bid. At most one bid may exist per
	// (taskId, userEmail) pair; a second insert for the same pair
	// returns ErrDuplicateBid.
	Insert(ctx context.Context, bid Document) (*InsertResult, error)

	Exists(ctx context.Context, email, taskID string) (bool, error)
	CountByUser(ctx context.Context, email string) (int64, error)
	FindByTask(ctx context.Context, taskID string) ([]Document, error)
	FindByUser(ctx context.Context, email string) ([]Document, error)
}

type ApplicationStore interface {
	Insert(ctx context.Context, application Document) (*InsertResult, error)

	// Find filters by applicant email and/or task reference;
	// empty arguments are ignored.
	Find(ctx context.Context, applicantEmail, taskID string) ([]Document, error)

	FindByTask(ctx context.Context, taskID string) ([]Document, error)
	Delete(ctx context.Context, id string) (*DeleteResult, error)
}

// User carries the credentials optionally registered for an email.
// Session issuance only verifies a password when a user document exists.
type User struct {
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"passwordHash" json:"-"`
}

type UserStore interface {
	// FindByEmail returns the registered user or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// SaveCredentials inserts or replaces the credentials for a user's email.
	SaveCredentials(ctx context.Context, user User) error
}
