package repository

import (
	"context"
	"errors"

	"github.com/hel-repo/hel/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection implements Collection on a MongoDB collection. Decoded
// documents are normalized to plain Doc/[]any trees.
type MongoCollection struct {
	col *mongo.Collection
}

// NewMongoCollection wraps col and makes sure a unique index exists for each
// of the unique fields.
func NewMongoCollection(ctx context.Context, col *mongo.Collection, unique ...string) (*MongoCollection, error) {
	for _, field := range unique {
		idx := mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}, Options: options.Index().SetUnique(true)}
		if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
			return nil, Error.Wrap(err)
		}
	}
	return &MongoCollection{col: col}, nil
}

func (m *MongoCollection) Find(ctx context.Context, filter bson.M) ([]document.Doc, error) {
	cur, err := m.col.Find(ctx, filter)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	defer cur.Close(ctx)
	out := []document.Doc{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, Error.Wrap(err)
		}
		out = append(out, document.NormalizeDoc(raw))
	}
	return out, Error.Wrap(cur.Err())
}

func (m *MongoCollection) FindOne(ctx context.Context, filter bson.M) (document.Doc, error) {
	var raw bson.M
	if err := m.col.FindOne(ctx, filter).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, Error.Wrap(err)
	}
	return document.NormalizeDoc(raw), nil
}

func (m *MongoCollection) Count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := m.col.CountDocuments(ctx, filter)
	return n, Error.Wrap(err)
}

func (m *MongoCollection) Insert(ctx context.Context, doc document.Doc) (primitive.ObjectID, error) {
	d := document.CloneDoc(doc)
	id, ok := d["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		d["_id"] = id
	}
	if _, err := m.col.InsertOne(ctx, d); err != nil {
		return primitive.NilObjectID, wrapWrite(err)
	}
	return id, nil
}

func (m *MongoCollection) Replace(ctx context.Context, filter bson.M, doc document.Doc) error {
	d := document.CloneDoc(doc)
	delete(d, "_id")
	res, err := m.col.ReplaceOne(ctx, filter, d)
	if err != nil {
		return wrapWrite(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoCollection) Set(ctx context.Context, filter bson.M, fields document.Doc) error {
	return m.update(ctx, filter, bson.M{"$set": fields})
}

func (m *MongoCollection) Increment(ctx context.Context, filter bson.M, field string, by int) error {
	return m.update(ctx, filter, bson.M{"$inc": bson.M{field: by}})
}

func (m *MongoCollection) update(ctx context.Context, filter, update bson.M) error {
	res, err := m.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return wrapWrite(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoCollection) Delete(ctx context.Context, filter bson.M) error {
	res, err := m.col.DeleteOne(ctx, filter)
	if err != nil {
		return Error.Wrap(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func wrapWrite(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return Error.Wrap(err)
}
