package repository

import (
	"context"
	"testing"

	"github.com/hel-repo/hel/internal/document"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMemoryCollectionCRUD(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection("name")
	id, err := c.Insert(ctx, document.Doc{"name": "pkg1", "stats": document.Doc{"views": 0}})
	require.NoError(t, err)
	require.False(t, id.IsZero())

	got, err := c.FindOne(ctx, bson.M{"name": "pkg1"})
	require.NoError(t, err)
	require.Equal(t, id, got["_id"])

	_, err = c.Insert(ctx, document.Doc{"name": "pkg1"})
	require.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, c.Increment(ctx, bson.M{"name": "pkg1"}, "stats.views", 1))
	require.NoError(t, c.Increment(ctx, bson.M{"name": "pkg1"}, "stats.views", 1))
	got, err = c.FindOne(ctx, bson.M{"_id": id})
	require.NoError(t, err)
	require.Equal(t, 2, got["stats"].(document.Doc)["views"])

	require.NoError(t, c.Replace(ctx, bson.M{"name": "pkg1"}, document.Doc{"name": "pkg2"}))
	_, err = c.FindOne(ctx, bson.M{"name": "pkg1"})
	require.ErrorIs(t, err, ErrNotFound)
	got, err = c.FindOne(ctx, bson.M{"name": "pkg2"})
	require.NoError(t, err)
	require.Equal(t, id, got["_id"])

	require.NoError(t, c.Set(ctx, bson.M{"name": "pkg2"}, document.Doc{"logged_in": true}))
	n, err := c.Count(ctx, bson.M{"logged_in": true})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	require.NoError(t, c.Delete(ctx, bson.M{"name": "pkg2"}))
	require.ErrorIs(t, c.Delete(ctx, bson.M{"name": "pkg2"}), ErrNotFound)
	require.ErrorIs(t, c.Set(ctx, bson.M{"name": "x"}, document.Doc{"a": 1}), ErrNotFound)
}

func TestMemoryCollectionReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCollection()
	_, err := c.Insert(ctx, document.Doc{"tags": []any{"a"}})
	require.NoError(t, err)
	docs, err := c.Find(ctx, bson.M{})
	require.NoError(t, err)
	docs[0]["tags"] = []any{"changed"}
	docs, err = c.Find(ctx, bson.M{})
	require.NoError(t, err)
	require.Equal(t, []any{"a"}, docs[0]["tags"])
}

func TestMatchOperators(t *testing.T) {
	d := document.Doc{
		"name":        "package-1",
		"tags":        []any{"aaa", "xxx", "zzz"},
		"authors":     []any{"Tester", "Crackes"},
		"screenshots": document.Doc{"http://img" + document.KeySentinel + "x/1": "first"},
	}
	cases := []struct {
		filter bson.M
		want   bool
	}{
		{bson.M{}, true},
		{bson.M{"name": "package-1"}, true},
		{bson.M{"tags": "xxx"}, true},
		{bson.M{"tags": bson.M{"$all": bson.A{"xxx", "zzz"}}}, true},
		{bson.M{"tags": bson.M{"$all": []string{"xxx", "ccc"}}}, false},
		{bson.M{"tags": bson.M{"$in": bson.A{"ccc", "aaa"}}}, true},
		{bson.M{"name": bson.M{"$regex": "ack"}}, true},
		{bson.M{"name": bson.M{"$regex": "ACK", "$options": "i"}}, true},
		{bson.M{"authors": bson.M{"$regex": "rack"}}, true},
		{bson.M{"$and": []bson.M{{"name": bson.M{"$regex": "p"}}, {"name": bson.M{"$regex": "2"}}}}, false},
		{bson.M{"$and": bson.A{bson.M{"name": bson.M{"$regex": "p"}}, bson.M{"tags": "aaa"}}}, true},
		{bson.M{"screenshots.http://img" + document.KeySentinel + "x/1": bson.M{"$exists": true}}, true},
		{bson.M{"screenshots.nope": bson.M{"$exists": true}}, false},
		{bson.M{"missing": bson.M{"$exists": false}}, true},
		{bson.M{"name": bson.M{"$ne": "package-1"}}, false},
	}
	for _, tc := range cases {
		got, err := Match(d, tc.filter)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "filter %v", tc.filter)
	}

	_, err := Match(d, bson.M{"name": bson.M{"$where": "1"}})
	require.Error(t, err)
	require.True(t, Error.Has(err))
}
