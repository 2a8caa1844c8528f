package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/config"
	"github.com/hel-repo/hel/internal/document/repository"
	"github.com/hel-repo/hel/internal/models"
	"github.com/hel-repo/hel/internal/resources"
	"github.com/hel-repo/hel/internal/sessions"
	"github.com/hel-repo/hel/internal/tokens"
	"github.com/hel-repo/hel/internal/users"
)

func init() {
	models.PasswordCost = bcrypt.MinCost
}

func newService(t *testing.T) (*Service, *users.Service) {
	t.Helper()
	m, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	cfg := &config.Config{}
	cfg.Auth.Secret = "auth-test-secret-32-bytes-xxxxxxxxx"
	cfg.Auth.SessionTTL = time.Hour

	userCol := repository.NewMemoryCollection("nickname", "email")
	us := users.NewService(users.NewCollectionRepository(userCol), users.Activation{Length: 16, TTL: time.Hour})
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	ss := sessions.NewService(sessions.NewRedisRepository(client, ""))
	tree := resources.NewTree(repository.NewMemoryCollection("name"), userCol)
	return NewService(cfg, us, ss, tree), us
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		nick, email, pw, msg string
	}{
		{"", "a@example.com", "pw", msgEmptyNickname},
		{"alice", "", "pw", msgEmptyEmail},
		{"alice", "a@example.com", "", msgEmptyPassword},
	}
	for _, c := range cases {
		err := s.Register(ctx, c.nick, c.email, c.pw)
		e, ok := apperr.As(err)
		require.True(t, ok)
		require.Equal(t, c.msg, e.Message)
	}

	require.NoError(t, s.Register(ctx, "alice", "a@example.com", "pw"))
	err := s.Register(ctx, "alice", "b@example.com", "pw")
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
}

func TestLogInIdentifyLogOut(t *testing.T) {
	s, us := newService(t)
	ctx := context.Background()
	require.NoError(t, s.Register(ctx, "alice", "a@example.com", "secret"))

	_, err := s.LogIn(ctx, "alice", "wrong")
	e, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, msgFailedLogin, e.Message)
	_, err = s.LogIn(ctx, "", "secret")
	e, ok = apperr.As(err)
	require.True(t, ok)
	require.Equal(t, msgEmptyNickname, e.Message)
	_, err = s.LogIn(ctx, "nobody", "secret")
	require.True(t, apperr.IsKind(err, apperr.KindUnauthorized))

	token, err := s.LogIn(ctx, "alice", "secret")
	require.NoError(t, err)
	stored, err := us.Stored(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, true, stored["logged_in"])

	id, err := s.Identify(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, id)
	require.Equal(t, "alice", id.Nickname)
	require.Contains(t, id.Principals(), resources.UserPrincipal("alice"))
	require.Contains(t, id.Principals(), resources.Authenticated)

	require.NoError(t, s.LogOut(ctx, id))
	stored, err = us.Stored(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, false, stored["logged_in"])

	id, err = s.Identify(ctx, token)
	require.NoError(t, err)
	require.Nil(t, id)
}

func TestIdentifyRejectsForeignTokens(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()

	id, err := s.Identify(ctx, "")
	require.NoError(t, err)
	require.Nil(t, id)
	id, err = s.Identify(ctx, "garbage")
	require.NoError(t, err)
	require.Nil(t, id)

	// well signed but no such session
	token, err := tokens.Generate(s.cfg, "alice", "missing")
	require.NoError(t, err)
	id, err = s.Identify(ctx, token)
	require.NoError(t, err)
	require.Nil(t, id)

	var anon *Identity
	require.Equal(t, []string{resources.Everyone}, anon.Principals())
}
