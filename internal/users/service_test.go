package users

import (
	"context"
	"testing"
	"time"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/document/repository"
	"github.com/hel-repo/hel/internal/models"
	"github.com/hel-repo/hel/internal/resources"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	models.PasswordCost = bcrypt.MinCost
}

func newService(t *testing.T) *Service {
	t.Helper()
	repo := NewCollectionRepository(repository.NewMemoryCollection("nickname", "email"))
	s := NewService(repo, Activation{Length: 64, TTL: time.Hour})
	s.now = func() time.Time { return time.Date(2017, 1, 1, 0, 0, 0, 0, time.UTC) }
	for _, u := range []document.Doc{
		{"nickname": "alice", "email": "alice@example.com", "password": "pw-a"},
		{"nickname": "bob", "email": "bob@example.com", "password": "pw-b", "groups": []any{"admins"}},
	} {
		_, err := s.Create(context.Background(), u)
		require.NoError(t, err)
	}
	return s
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	s := newService(t)

	d, err := s.Stored(ctx, "alice")
	require.NoError(t, err)
	require.True(t, models.CheckPassword(d["password"].(string), "pw-a"))
	require.Len(t, d["activation_phrase"], 64)
	require.Equal(t, "2017-01-01 01:00:00", d["activation_till"])
	require.Equal(t, false, d["logged_in"])

	pub, err := s.Get(ctx, "alice")
	require.NoError(t, err)
	require.NotContains(t, pub, "password")

	_, err = s.Create(ctx, document.Doc{"nickname": "alice", "email": "x@example.com", "password": "p"})
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
	require.Equal(t, "This nickname is already in use.", err.Error())

	_, err = s.Create(ctx, document.Doc{"nickname": "carol", "email": "alice@example.com", "password": "p"})
	require.Equal(t, "This email address is already in use.", err.Error())

	_, err = s.Create(ctx, document.Doc{"nickname": "bad.nick", "email": "b@example.com", "password": "p"})
	require.True(t, apperr.IsKind(err, apperr.KindBadUserName))

	_, err = s.Get(ctx, "nobody")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	all, err := s.List(ctx, map[string][]string{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, u := range all {
		require.NotContains(t, u, "password")
		require.NotContains(t, u, "_id")
	}
	admins, err := s.List(ctx, map[string][]string{"groups": {"admins"}})
	require.NoError(t, err)
	require.Len(t, admins, 1)
	require.Equal(t, "bob", admins[0]["nickname"])

	_, err = s.List(ctx, map[string][]string{"groups": {}})
	require.True(t, apperr.IsKind(err, apperr.KindNoValues))
}

func TestPatchUser(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	alice := resources.Principals("alice", nil)
	bob := resources.Principals("bob", []string{"admins"})

	require.NoError(t, s.Update(ctx, "alice", document.Doc{"password": "new-pw", "email": "a2@example.com"}, alice))
	d, err := s.Stored(ctx, "alice")
	require.NoError(t, err)
	require.True(t, models.CheckPassword(d["password"].(string), "new-pw"))
	require.Equal(t, "a2@example.com", d["email"])

	err = s.Update(ctx, "alice", document.Doc{"groups": []any{"admins"}}, alice)
	require.True(t, apperr.IsKind(err, apperr.KindForbidden))
	require.NoError(t, s.Update(ctx, "alice", document.Doc{"groups": []any{"dev"}}, bob))

	err = s.Update(ctx, "alice", document.Doc{"email": "bob@example.com"}, alice)
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
	err = s.Update(ctx, "alice", document.Doc{"logged_in": true}, alice)
	require.True(t, apperr.IsKind(err, apperr.KindBadValue))
	err = s.Update(ctx, "alice", document.Doc{"password": ""}, alice)
	require.True(t, apperr.IsKind(err, apperr.KindMissingField))

	require.NoError(t, s.Update(ctx, "alice", document.Doc{"nickname": "alicia"}, alice))
	_, err = s.Get(ctx, "alice")
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
	d, err = s.Stored(ctx, "alicia")
	require.NoError(t, err)
	require.Equal(t, []any{"dev"}, d["groups"])
}

func TestLoggedInAndDelete(t *testing.T) {
	ctx := context.Background()
	s := newService(t)
	require.NoError(t, s.SetLoggedIn(ctx, "alice", true))
	d, err := s.Stored(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, true, d["logged_in"])
	require.True(t, apperr.IsKind(s.SetLoggedIn(ctx, "nobody", true), apperr.KindNotFound))

	require.NoError(t, s.Delete(ctx, "alice"))
	require.True(t, apperr.IsKind(s.Delete(ctx, "alice"), apperr.KindNotFound))
}
