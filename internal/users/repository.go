package users

import (
	"context"
	"errors"

	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/document/repository"
	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	GetByNickname(ctx context.Context, nick string) (document.Doc, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Find(ctx context.Context, filter bson.M) ([]document.Doc, error)
	Insert(ctx context.Context, d document.Doc) error
	Replace(ctx context.Context, nick string, d document.Doc) error
	SetLoggedIn(ctx context.Context, nick string, loggedIn bool) error
	Delete(ctx context.Context, nick string) error
}

// CollectionRepository implements UserRepository on a document collection
// keyed by nickname.
type CollectionRepository struct {
	col repository.Collection
}

// NewCollectionRepository creates a new repository for the given collection
func NewCollectionRepository(col repository.Collection) *CollectionRepository {
	return &CollectionRepository{col: col}
}

// GetByNickname returns the stored user, or repository.ErrNotFound.
func (r *CollectionRepository) GetByNickname(ctx context.Context, nick string) (document.Doc, error) {
	return r.col.FindOne(ctx, bson.M{"nickname": nick})
}

func (r *CollectionRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.col.FindOne(ctx, bson.M{"email": email})
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *CollectionRepository) Find(ctx context.Context, filter bson.M) ([]document.Doc, error) {
	return r.col.Find(ctx, filter)
}

func (r *CollectionRepository) Insert(ctx context.Context, d document.Doc) error {
	_, err := r.col.Insert(ctx, d)
	return err
}

func (r *CollectionRepository) Replace(ctx context.Context, nick string, d document.Doc) error {
	return r.col.Replace(ctx, bson.M{"nickname": nick}, d)
}

// SetLoggedIn atomically toggles the logged_in flag.
func (r *CollectionRepository) SetLoggedIn(ctx context.Context, nick string, loggedIn bool) error {
	return r.col.Set(ctx, bson.M{"nickname": nick}, document.Doc{"logged_in": loggedIn})
}

func (r *CollectionRepository) Delete(ctx context.Context, nick string) error {
	return r.col.Delete(ctx, bson.M{"nickname": nick})
}
