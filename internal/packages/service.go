// Package packages implements creation, retrieval, search, partial update
// and deletion of package documents.
package packages

import (
	"context"
	"errors"
	"time"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/document/repository"
	"github.com/hel-repo/hel/internal/models"
	"github.com/hel-repo/hel/internal/search"
	"github.com/hel-repo/hel/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
)

const msgNameConflict = "The name is already used by other package."

// Service holds the package business operations used by the handler layer.
// Documents are escaped on the way into the collection and unescaped on the
// way out; callers only see dotted keys.
type Service struct {
	col       repository.Collection
	storeSide bool
	now       func() time.Time
}

// NewService returns a Service over col. With storeSide set, list filters
// that MongoDB can evaluate are pushed into the query.
func NewService(col repository.Collection, storeSide bool) *Service {
	return &Service{col: col, storeSide: storeSide, now: time.Now}
}

// Create validates data, defaults the owner to creator and stores the
// package. It returns the package name.
func (s *Service) Create(ctx context.Context, data document.Doc, creator string) (string, error) {
	p, err := models.NewPackage(data, true)
	if err != nil {
		return "", err
	}
	if creator != "" {
		p.SetDefaultOwner(creator)
	}
	if len(p.Owners()) == 0 {
		return "", apperr.EmptyOwnerList()
	}
	p.Stamp(s.now())
	if taken, err := s.exists(ctx, p.Name()); err != nil {
		return "", err
	} else if taken {
		return "", apperr.Conflict(msgNameConflict)
	}
	if _, err := s.col.Insert(ctx, p.StoreDoc()); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", apperr.Conflict(msgNameConflict)
		}
		return "", err
	}
	return p.Name(), nil
}

// Get returns the named package and counts the view.
func (s *Service) Get(ctx context.Context, name string) (document.Doc, error) {
	filter := bson.M{"name": name}
	if err := s.col.Increment(ctx, filter, "stats.views", 1); err != nil {
		return nil, mapNotFound(err)
	}
	metrics.PackageViews.Inc()
	d, err := s.col.FindOne(ctx, filter)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return models.PublicPackage(document.UnescapeKeys(d)), nil
}

// List returns the packages matching the search params, in store order.
func (s *Service) List(ctx context.Context, params map[string][]string) ([]document.Doc, error) {
	filter := bson.M{}
	var preds []search.Predicate
	mode := "memory"
	if s.storeSide {
		plan, err := search.PackageParams.CompilePlan(params)
		if err != nil {
			return nil, err
		}
		filter, preds, mode = plan.Filter, plan.Residual, "store"
	} else {
		var err error
		if preds, err = search.PackageParams.CompilePredicates(params); err != nil {
			return nil, err
		}
	}
	metrics.SearchRequests.WithLabelValues(mode).Inc()
	stored, err := s.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	docs := make([]document.Doc, 0, len(stored))
	for _, d := range stored {
		docs = append(docs, models.PublicPackage(document.UnescapeKeys(d)))
	}
	return search.Filter(docs, preds), nil
}

// Delete removes the named package.
func (s *Service) Delete(ctx context.Context, name string) error {
	return mapNotFound(s.col.Delete(ctx, bson.M{"name": name}))
}

func (s *Service) exists(ctx context.Context, name string) (bool, error) {
	_, err := s.col.FindOne(ctx, bson.M{"name": name})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	return false, err
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound()
	}
	return err
}
