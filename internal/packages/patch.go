package packages

import (
	"context"
	"errors"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/document/repository"
	"github.com/hel-repo/hel/internal/models"
	"github.com/hel-repo/hel/internal/version"
	"github.com/hel-repo/hel/pkg/metrics"
	"go.mongodb.org/mongo-driver/bson"
)

// Update applies a sparse patch to the named package. A null value deletes
// the key it is stored under. New versions, files and dependencies must be
// supplied complete. The document is read, merged and written back without
// a concurrency check, so of two concurrent patches the last one wins.
func (s *Service) Update(ctx context.Context, name string, patch document.Doc) error {
	err := s.update(ctx, name, patch)
	result := "ok"
	if e, ok := apperr.As(err); ok {
		result = string(e.Kind)
	} else if err != nil {
		result = string(apperr.KindInternal)
	}
	metrics.PatchResults.WithLabelValues("package", result).Inc()
	return err
}

func (s *Service) update(ctx context.Context, name string, patch document.Doc) error {
	filter := bson.M{"name": name}
	stored, err := s.col.FindOne(ctx, filter)
	if err != nil {
		return mapNotFound(err)
	}
	old := document.UnescapeKeys(stored)
	accepted, err := s.validatePatch(ctx, old, patch)
	if err != nil {
		return err
	}
	accepted["stats"] = document.Doc{
		"date": document.Doc{"last-updated": models.FormatTime(s.now())},
	}
	next := document.Apply(stored, document.EscapeKeys(accepted))
	if err := s.col.Replace(ctx, filter, next); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.Conflict(msgNameConflict)
		}
		return mapNotFound(err)
	}
	return nil
}

// validatePatch checks every top-level key of patch against old and returns
// the normalized patch: canonical version numbers and URLs, coerced scalars.
func (s *Service) validatePatch(ctx context.Context, old, patch document.Doc) (document.Doc, error) {
	out := document.Doc{}
	for _, k := range document.SortedKeys(patch) {
		v := patch[k]
		var err error
		switch k {
		case "name":
			var name string
			if name, err = models.String(k, v); err != nil {
				return nil, err
			}
			if name != document.String(old, "name") {
				if err := models.ValidatePackageName(name); err != nil {
					return nil, err
				}
				taken, err := s.exists(ctx, name)
				if err != nil {
					return nil, err
				}
				if taken {
					return nil, apperr.Conflict(msgNameConflict)
				}
			}
			out[k] = name
		case "description", "license":
			out[k], err = models.String(k, v)
		case "short_description":
			var sd string
			sd, err = models.String(k, v)
			out[k] = models.Truncate(sd, models.ShortDescriptionLength)
		case "owners":
			out[k], err = models.Owners(v)
		case "authors", "tags":
			out[k], err = models.StringList(k, v)
		case "versions":
			oldVersions, _ := document.Map(old, "versions")
			out[k], err = patchVersions(oldVersions, v)
		case "screenshots":
			out[k], err = patchScreenshots(v)
		default:
			err = apperr.BadValue(k)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func patchVersions(old document.Doc, v any) (document.Doc, error) {
	m, err := models.Mapping("versions", v)
	if err != nil {
		return nil, err
	}
	out := document.Doc{}
	for _, lit := range document.SortedKeys(m) {
		num, err := version.Normalize(lit)
		if err != nil {
			return nil, err
		}
		if _, dup := out[num]; dup {
			return nil, apperr.InvalidVersion(lit)
		}
		if m[lit] == nil {
			out[num] = nil
			continue
		}
		pv, err := models.Mapping("versions", m[lit])
		if err != nil {
			return nil, err
		}
		oldVer, exists := document.Map(old, num)
		if !exists {
			for _, req := range []string{"files", "depends", "changes"} {
				if _, ok := pv[req]; !ok {
					return nil, apperr.PartialVersion()
				}
			}
		}
		vout := document.Doc{}
		for _, k := range document.SortedKeys(pv) {
			switch k {
			case "files":
				oldFiles, _ := document.Map(oldVer, "files")
				vout[k], err = patchFiles(oldFiles, pv[k])
			case "depends":
				oldDeps, _ := document.Map(oldVer, "depends")
				vout[k], err = patchDepends(oldDeps, pv[k])
			case "changes":
				vout[k], err = models.String(k, pv[k])
			default:
				err = apperr.BadValue(k)
			}
			if err != nil {
				return nil, err
			}
		}
		out[num] = vout
	}
	return out, nil
}

func patchFiles(old document.Doc, v any) (document.Doc, error) {
	m, err := models.Mapping("files", v)
	if err != nil {
		return nil, err
	}
	out := document.Doc{}
	for _, raw := range document.SortedKeys(m) {
		u, err := models.NormalizeURL(raw)
		if err != nil {
			return nil, err
		}
		if m[raw] == nil {
			out[u] = nil
			continue
		}
		_, exists := old[u]
		if out[u], err = models.FileEntry(m[raw], !exists); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func patchDepends(old document.Doc, v any) (document.Doc, error) {
	m, err := models.Mapping("depends", v)
	if err != nil {
		return nil, err
	}
	out := document.Doc{}
	for _, name := range document.SortedKeys(m) {
		if falsy(m[name]) {
			out[name] = nil
			continue
		}
		_, exists := old[name]
		if out[name], err = models.Dependency(m[name], !exists); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func patchScreenshots(v any) (document.Doc, error) {
	m, err := models.Mapping("screenshots", v)
	if err != nil {
		return nil, err
	}
	out := document.Doc{}
	for _, raw := range document.SortedKeys(m) {
		u, err := models.NormalizeURL(raw)
		if err != nil {
			return nil, err
		}
		if m[raw] == nil {
			out[u] = nil
			continue
		}
		if out[u], err = models.String("screenshots", m[raw]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// falsy reports values that delete a dependency: null, false, zero, the
// empty string and empty containers.
func falsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}
