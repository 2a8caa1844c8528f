// Package auth implements nickname/password authentication on top of
// server-side sessions referenced by a signed cookie.
package auth

import (
	"context"

	"github.com/zeebo/errs"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/config"
	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/models"
	"github.com/hel-repo/hel/internal/resources"
	"github.com/hel-repo/hel/internal/sessions"
	"github.com/hel-repo/hel/internal/tokens"
	"github.com/hel-repo/hel/internal/users"
	"github.com/hel-repo/hel/pkg/metrics"
)

// Error is the class of infrastructure failures during authentication.
var Error = errs.Class("auth")

const (
	MsgAccountCreated = "Account created successfully!"
	MsgLoggedIn       = "Logged in successfully."
	MsgLoggedOut      = "Logged out successfully."
	MsgNoActions      = "No actions performed"

	msgFailedLogin   = "Incorrect nickname and/or password."
	msgEmptyNickname = "Nickname isn't specified."
	msgEmptyEmail    = "Email address isn't specified."
	msgEmptyPassword = "Password isn't specified."
)

// Identity is the logged in user behind a request.
type Identity struct {
	Nickname  string
	Groups    []string
	SessionID string
}

// Principals returns the ACL principals of the identity. A nil identity is
// anonymous.
func (i *Identity) Principals() []string {
	if i == nil {
		return resources.Principals("", nil)
	}
	return resources.Principals(i.Nickname, i.Groups)
}

// Service performs registration, log-in and log-out.
type Service struct {
	cfg      *config.Config
	users    *users.Service
	sessions *sessions.Service
	tree     *resources.Tree
}

func NewService(cfg *config.Config, u *users.Service, s *sessions.Service, tree *resources.Tree) *Service {
	return &Service{cfg: cfg, users: u, sessions: s, tree: tree}
}

// Register creates an account. It runs with system principals, as anyone
// may sign up.
func (s *Service) Register(ctx context.Context, nick, email, password string) error {
	err := s.register(ctx, nick, email, password)
	record("register", err)
	return err
}

func (s *Service) register(ctx context.Context, nick, email, password string) error {
	switch {
	case nick == "":
		return apperr.Required(msgEmptyNickname)
	case email == "":
		return apperr.Required(msgEmptyEmail)
	case password == "":
		return apperr.Required(msgEmptyPassword)
	}
	if !resources.Permits(resources.SystemPrincipals(), s.tree.Users(), resources.UserCreate) {
		return apperr.Forbidden()
	}
	_, err := s.users.Create(ctx, document.Doc{
		"nickname": nick,
		"email":    email,
		"password": password,
	})
	return err
}

// LogIn checks the credentials, opens a session and returns the cookie value.
func (s *Service) LogIn(ctx context.Context, nick, password string) (string, error) {
	token, err := s.logIn(ctx, nick, password)
	record("log-in", err)
	return token, err
}

func (s *Service) logIn(ctx context.Context, nick, password string) (string, error) {
	switch {
	case nick == "":
		return "", apperr.Required(msgEmptyNickname)
	case password == "":
		return "", apperr.Required(msgEmptyPassword)
	}
	stored, err := s.users.Stored(ctx, nick)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return "", apperr.Unauthorized(msgFailedLogin)
		}
		return "", err
	}
	if !models.CheckPassword(document.String(stored, "password"), password) {
		return "", apperr.Unauthorized(msgFailedLogin)
	}
	sid, err := s.sessions.CreateSession(ctx, nick, s.cfg.Auth.SessionTTL)
	if err != nil {
		return "", Error.Wrap(err)
	}
	token, err := tokens.Generate(s.cfg, nick, sid)
	if err != nil {
		_ = s.sessions.Delete(ctx, sid)
		return "", Error.Wrap(err)
	}
	if err := s.users.SetLoggedIn(ctx, nick, true); err != nil {
		_ = s.sessions.Delete(ctx, sid)
		return "", err
	}
	return token, nil
}

// LogOut closes the identity's session and marks the user logged out.
func (s *Service) LogOut(ctx context.Context, id *Identity) error {
	err := s.logOut(ctx, id)
	record("log-out", err)
	return err
}

func (s *Service) logOut(ctx context.Context, id *Identity) error {
	if err := s.sessions.Delete(ctx, id.SessionID); err != nil {
		return Error.Wrap(err)
	}
	err := s.users.SetLoggedIn(ctx, id.Nickname, false)
	if apperr.IsKind(err, apperr.KindNotFound) {
		return nil
	}
	return err
}

// Identify resolves a cookie value to an identity. Invalid or stale cookies
// and users that are not logged in yield a nil identity and no error.
func (s *Service) Identify(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}
	claims, err := tokens.Parse(s.cfg, token)
	if err != nil {
		return nil, nil
	}
	sess, err := s.sessions.Validate(ctx, claims.SessionID)
	if err != nil {
		return nil, Error.Wrap(err)
	}
	if sess == nil || sess.Nickname != claims.Nickname {
		return nil, nil
	}
	stored, err := s.users.Stored(ctx, claims.Nickname)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if loggedIn, _ := stored["logged_in"].(bool); !loggedIn {
		return nil, nil
	}
	return &Identity{
		Nickname:  claims.Nickname,
		Groups:    document.Strings(stored, "groups"),
		SessionID: claims.SessionID,
	}, nil
}

func record(action string, err error) {
	result := "ok"
	if e, ok := apperr.As(err); ok {
		result = string(e.Kind)
	} else if err != nil {
		result = string(apperr.KindInternal)
	}
	metrics.AuthActions.WithLabelValues(action, result).Inc()
}
