package users

import (
	"context"
	"errors"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/document/repository"
	"github.com/hel-repo/hel/internal/models"
	"github.com/hel-repo/hel/internal/resources"
	"github.com/hel-repo/hel/pkg/metrics"
)

// Update applies a sparse patch to a user. Only admins and the system may
// change groups.
func (s *Service) Update(ctx context.Context, nick string, patch document.Doc, principals []string) error {
	err := s.update(ctx, nick, patch, principals)
	result := "ok"
	if e, ok := apperr.As(err); ok {
		result = string(e.Kind)
	} else if err != nil {
		result = string(apperr.KindInternal)
	}
	metrics.PatchResults.WithLabelValues("user", result).Inc()
	return err
}

func (s *Service) update(ctx context.Context, nick string, patch document.Doc, principals []string) error {
	stored, err := s.Stored(ctx, nick)
	if err != nil {
		return err
	}
	out := document.Doc{}
	for _, k := range document.SortedKeys(patch) {
		v := patch[k]
		switch k {
		case "nickname":
			n, err := models.String(k, v)
			if err != nil {
				return err
			}
			if err := models.ValidateUserName(n); err != nil {
				return err
			}
			out[k] = n
		case "email":
			e, err := models.String(k, v)
			if err != nil {
				return err
			}
			out[k] = e
		case "password":
			pw, err := models.String(k, v)
			if err != nil {
				return err
			}
			if pw == "" {
				return apperr.Required("Password isn't specified.")
			}
			if out[k], err = models.HashPassword(pw); err != nil {
				return err
			}
		case "groups":
			if !resources.HasGroup(principals, "admins") && !resources.HasGroup(principals, "system") {
				return apperr.Forbidden()
			}
			g, err := models.StringList(k, v)
			if err != nil {
				return err
			}
			out[k] = g
		default:
			return apperr.BadValue(k)
		}
	}
	if err := s.checkUnique(ctx, out, stored); err != nil {
		return err
	}
	next := document.Apply(stored, out)
	if err := s.repo.Replace(ctx, nick, next); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict(msgNicknameInUse)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound()
		}
		return err
	}
	return nil
}
