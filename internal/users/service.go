package users

import (
	"context"
	"errors"
	"time"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/document/repository"
	"github.com/hel-repo/hel/internal/models"
	"github.com/hel-repo/hel/internal/search"
)

const (
	msgNicknameInUse = "This nickname is already in use."
	msgEmailInUse    = "This email address is already in use."
)

// Activation configures the activation phrase issued at registration.
type Activation struct {
	Length int
	TTL    time.Duration
}

// Service encapsulates user-related business logic
type Service struct {
	repo       UserRepository
	activation Activation
	now        func() time.Time
}

func NewService(r UserRepository, a Activation) *Service {
	return &Service{repo: r, activation: a, now: time.Now}
}

// Create validates data (nickname, password, email and optionally groups),
// issues an activation phrase and stores the user with a hashed password.
func (s *Service) Create(ctx context.Context, data document.Doc) (string, error) {
	in := document.CloneDoc(data)
	if _, ok := in["activation_phrase"]; !ok {
		in["activation_phrase"], in["activation_till"] = models.Activation(s.activation.Length, s.activation.TTL, s.now())
	}
	u, err := models.NewUser(in, true)
	if err != nil {
		return "", err
	}
	d := u.Doc()
	if err := s.checkUnique(ctx, d, nil); err != nil {
		return "", err
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", apperr.Conflict(msgNicknameInUse)
		}
		return "", err
	}
	return u.Nickname(), nil
}

// Get returns the public view of a user.
func (s *Service) Get(ctx context.Context, nick string) (document.Doc, error) {
	d, err := s.Stored(ctx, nick)
	if err != nil {
		return nil, err
	}
	return models.PublicUser(d), nil
}

// Stored returns the full stored user, password hash included.
func (s *Service) Stored(ctx context.Context, nick string) (document.Doc, error) {
	d, err := s.repo.GetByNickname(ctx, nick)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound()
	}
	return d, err
}

// List returns the public views of the users matching params.
func (s *Service) List(ctx context.Context, params map[string][]string) ([]document.Doc, error) {
	plan, err := search.UserParams.CompilePlan(params)
	if err != nil {
		return nil, err
	}
	stored, err := s.repo.Find(ctx, plan.Filter)
	if err != nil {
		return nil, err
	}
	out := make([]document.Doc, 0, len(stored))
	for _, d := range search.Filter(stored, plan.Residual) {
		out = append(out, models.PublicUser(d))
	}
	return out, nil
}

// SetLoggedIn records a log-in or log-out.
func (s *Service) SetLoggedIn(ctx context.Context, nick string, loggedIn bool) error {
	err := s.repo.SetLoggedIn(ctx, nick, loggedIn)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound()
	}
	return err
}

func (s *Service) Delete(ctx context.Context, nick string) error {
	err := s.repo.Delete(ctx, nick)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound()
	}
	return err
}

// checkUnique rejects a nickname or email already used by a user other than
// self (nil when creating).
func (s *Service) checkUnique(ctx context.Context, d document.Doc, self document.Doc) error {
	if nick, ok := d["nickname"].(string); ok && (self == nil || nick != document.String(self, "nickname")) {
		_, err := s.repo.GetByNickname(ctx, nick)
		if err == nil {
			return apperr.Conflict(msgNicknameInUse)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
	}
	if email, ok := d["email"].(string); ok && (self == nil || email != document.String(self, "email")) {
		taken, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(msgEmailInUse)
		}
	}
	return nil
}

var _ UserRepository = (*CollectionRepository)(nil)
