// Package repository is the document store consumed by the package and user
// services. Documents are plain trees (document.Doc) addressed by MongoDB
// filter documents; the same Collection is served by MongoDB in production
// and by an in-memory implementation in tests and in the standalone process.
package repository

import (
	"context"
	"errors"

	"github.com/hel-repo/hel/internal/document"
	"github.com/zeebo/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// Error wraps failures of the underlying store.
	Error = errs.Class("repository")

	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Collection is a set of documents supporting find/insert/update/delete by
// filter document. Stored keys are expected to be escaped already.
type Collection interface {
	Find(ctx context.Context, filter bson.M) ([]document.Doc, error)
	FindOne(ctx context.Context, filter bson.M) (document.Doc, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Insert(ctx context.Context, doc document.Doc) (primitive.ObjectID, error)
	// Replace swaps the whole document matched by filter, keeping its _id.
	Replace(ctx context.Context, filter bson.M, doc document.Doc) error
	// Set atomically assigns top-level (or dotted) fields.
	Set(ctx context.Context, filter bson.M, fields document.Doc) error
	// Increment atomically adds by to a numeric field.
	Increment(ctx context.Context, filter bson.M, field string, by int) error
	Delete(ctx context.Context, filter bson.M) error
}
