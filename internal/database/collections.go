package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hel-repo/hel/internal/document/repository"
)

// Collection names.
const (
	PackagesCollection = "packages"
	UsersCollection    = "users"
	SessionsCollection = "sessions"
)

// Collections are the stores the repository runs on.
type Collections struct {
	Packages repository.Collection
	Users    repository.Collection
	Sessions repository.Collection
}

// MemoryCollections returns in-memory stores with the same uniqueness rules
// as the MongoDB ones.
func MemoryCollections() Collections {
	return Collections{
		Packages: repository.NewMemoryCollection("name"),
		Users:    repository.NewMemoryCollection("nickname", "email"),
		Sessions: repository.NewMemoryCollection("id"),
	}
}

// MongoCollections opens the collections of db and ensures their indexes:
// unique package names, unique nicknames and emails, unique session ids
// expiring at expiresAt.
func MongoCollections(ctx context.Context, db *mongo.Database) (Collections, error) {
	var out Collections
	var err error
	if out.Packages, err = repository.NewMongoCollection(ctx, db.Collection(PackagesCollection), "name"); err != nil {
		return out, fmt.Errorf("packages indexes: %w", err)
	}
	if out.Users, err = repository.NewMongoCollection(ctx, db.Collection(UsersCollection), "nickname", "email"); err != nil {
		return out, fmt.Errorf("users indexes: %w", err)
	}
	sessions := db.Collection(SessionsCollection)
	ttl := mongo.IndexModel{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)}
	if _, err := sessions.Indexes().CreateOne(ctx, ttl); err != nil {
		return out, fmt.Errorf("sessions indexes: %w", err)
	}
	if out.Sessions, err = repository.NewMongoCollection(ctx, sessions, "id"); err != nil {
		return out, fmt.Errorf("sessions indexes: %w", err)
	}
	return out, nil
}
