package sessions

import (
	"context"
	"errors"
	"time"

	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/document/repository"
	"go.mongodb.org/mongo-driver/bson"
)

// Repository provides session persistence operations
type Repository interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// CollectionRepository implements Repository on a document collection
// (MongoDB in production, in-memory otherwise).
type CollectionRepository struct {
	col repository.Collection
}

func NewCollectionRepository(col repository.Collection) *CollectionRepository {
	return &CollectionRepository{col: col}
}

func (r *CollectionRepository) Create(ctx context.Context, s *Session) error {
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = now.Add(7 * 24 * time.Hour)
	}
	_, err := r.col.Insert(ctx, document.Doc{
		"id":        s.ID,
		"nickname":  s.Nickname,
		"createdAt": s.CreatedAt,
		"expiresAt": s.ExpiresAt,
	})
	return err
}

func (r *CollectionRepository) Get(ctx context.Context, id string) (*Session, error) {
	d, err := r.col.FindOne(ctx, bson.M{"id": id})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &Session{
		ID:        document.String(d, "id"),
		Nickname:  document.String(d, "nickname"),
		CreatedAt: timeValue(d["createdAt"]),
		ExpiresAt: timeValue(d["expiresAt"]),
	}, nil
}

func (r *CollectionRepository) Delete(ctx context.Context, id string) error {
	err := r.col.Delete(ctx, bson.M{"id": id})
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// timeValue reads a timestamp as stored in memory (time.Time) or decoded
// from MongoDB (primitive.DateTime).
func timeValue(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case interface{ Time() time.Time }:
		return t.Time()
	}
	return time.Time{}
}
