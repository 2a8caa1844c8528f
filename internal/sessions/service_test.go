package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hel-repo/hel/internal/document/repository"
)

// fake repo for testing
type fakeRepo struct {
	store map[string]*Session
}

func (f *fakeRepo) Create(ctx context.Context, s *Session) error {
	if f.store == nil {
		f.store = map[string]*Session{}
	}
	f.store[s.ID] = s
	return nil
}
func (f *fakeRepo) Get(ctx context.Context, id string) (*Session, error) {
	if f.store == nil {
		return nil, nil
	}
	s, ok := f.store[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}
func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	if f.store == nil {
		return nil
	}
	delete(f.store, id)
	return nil
}

func TestCreateAndValidateSession(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	id, err := svc.CreateSession(ctx, "alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	sess, err := svc.Validate(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "alice", sess.Nickname)

	require.NoError(t, svc.Delete(ctx, id))
	sess, err = svc.Validate(ctx, id)
	require.NoError(t, err)
	require.Nil(t, sess)
}

func TestValidateDropsExpired(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &Session{ID: "old", Nickname: "bob", ExpiresAt: time.Now().Add(-time.Minute)}))

	sess, err := svc.Validate(ctx, "old")
	require.NoError(t, err)
	require.Nil(t, sess)
	require.NotContains(t, repo.store, "old")
}

func TestCollectionRepository(t *testing.T) {
	repo := NewCollectionRepository(repository.NewMemoryCollection("id"))
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.CreateSession(ctx, "carol", time.Hour)
	require.NoError(t, err)

	sess, err := svc.Validate(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, "carol", sess.Nickname)
	require.False(t, sess.ExpiresAt.IsZero())

	require.NoError(t, svc.Delete(ctx, id))
	// deleting twice is fine
	require.NoError(t, svc.Delete(ctx, id))
	sess, err = repo.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, sess)
}
