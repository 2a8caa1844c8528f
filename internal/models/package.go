package models

import (
	"time"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/version"
)

// PackageFields are the keys a strict package must carry.
var PackageFields = []string{
	"name", "description", "short_description", "authors",
	"license", "tags", "versions", "screenshots",
}

// Package is a validated package document.
type Package struct {
	doc document.Doc
}

// NewPackage validates data. With strict set every key of PackageFields must
// be present. owners is optional here; the service defaults it to the
// creating user.
func NewPackage(data document.Doc, strict bool) (*Package, error) {
	if strict {
		for _, k := range PackageFields {
			if _, ok := data[k]; !ok {
				return nil, apperr.MissingField(k)
			}
		}
	}
	doc := document.Doc{}
	for _, k := range document.SortedKeys(data) {
		v := data[k]
		var err error
		switch k {
		case "name":
			var name string
			if name, err = String(k, v); err == nil {
				err = ValidatePackageName(name)
				doc[k] = name
			}
		case "description", "license":
			doc[k], err = String(k, v)
		case "short_description":
			var s string
			s, err = String(k, v)
			doc[k] = Truncate(s, ShortDescriptionLength)
		case "authors", "tags":
			doc[k], err = StringList(k, v)
		case "owners":
			doc[k], err = Owners(v)
		case "versions":
			doc[k], err = Versions(v)
		case "screenshots":
			doc[k], err = Screenshots(v)
		default:
			err = apperr.BadValue(k)
		}
		if err != nil {
			return nil, err
		}
	}
	return &Package{doc: doc}, nil
}

// Versions validates a complete versions mapping, keyed by canonical
// version strings.
func Versions(v any) (document.Doc, error) {
	m, err := Mapping("versions", v)
	if err != nil {
		return nil, err
	}
	out := document.Doc{}
	for _, lit := range document.SortedKeys(m) {
		num, err := version.Normalize(lit)
		if err != nil {
			return nil, err
		}
		info, err := VersionInfo(m[lit])
		if err != nil {
			return nil, err
		}
		out[num] = info
	}
	return out, nil
}

// VersionInfo validates a complete {files, depends, changes} entry.
func VersionInfo(v any) (document.Doc, error) {
	m, err := Mapping("versions", v)
	if err != nil {
		return nil, err
	}
	for _, k := range []string{"files", "depends", "changes"} {
		if _, ok := m[k]; !ok {
			return nil, apperr.PartialVersion()
		}
	}
	out := document.Doc{}
	for _, k := range document.SortedKeys(m) {
		switch k {
		case "files":
			files, err := Mapping("files", m[k])
			if err != nil {
				return nil, err
			}
			fout := document.Doc{}
			for _, u := range document.SortedKeys(files) {
				norm, err := NormalizeURL(u)
				if err != nil {
					return nil, err
				}
				f, err := FileEntry(files[u], true)
				if err != nil {
					return nil, err
				}
				fout[norm] = f
			}
			out[k] = fout
		case "depends":
			deps, err := Mapping("depends", m[k])
			if err != nil {
				return nil, err
			}
			dout := document.Doc{}
			for _, name := range document.SortedKeys(deps) {
				d, err := Dependency(deps[name], true)
				if err != nil {
					return nil, err
				}
				dout[name] = d
			}
			out[k] = dout
		case "changes":
			s, err := String("changes", m[k])
			if err != nil {
				return nil, err
			}
			out[k] = s
		default:
			return nil, apperr.BadValue(k)
		}
	}
	return out, nil
}

// FileEntry validates a {dir, name} file entry. complete requires both keys.
func FileEntry(v any, complete bool) (document.Doc, error) {
	m, err := Mapping("files", v)
	if err != nil {
		return nil, err
	}
	if complete {
		if _, ok := m["dir"]; !ok {
			return nil, apperr.PartialVersion()
		}
		if _, ok := m["name"]; !ok {
			return nil, apperr.PartialVersion()
		}
	}
	out := document.Doc{}
	for _, k := range document.SortedKeys(m) {
		fv := m[k]
		if k != "dir" && k != "name" {
			return nil, apperr.BadValue(k)
		}
		s, err := String(k, fv)
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

// Dependency validates a {version, type} dependency entry. complete
// requires both keys.
func Dependency(v any, complete bool) (document.Doc, error) {
	m, err := Mapping("depends", v)
	if err != nil {
		return nil, err
	}
	if complete {
		if _, ok := m["version"]; !ok {
			return nil, apperr.PartialVersion()
		}
		if _, ok := m["type"]; !ok {
			return nil, apperr.PartialVersion()
		}
	}
	out := document.Doc{}
	for _, k := range document.SortedKeys(m) {
		dv := m[k]
		s, err := String(k, dv)
		if err != nil {
			return nil, err
		}
		switch k {
		case "version":
			err = version.ValidateRange(s)
		case "type":
			err = ValidateDependencyType(s)
		default:
			err = apperr.BadValue(k)
		}
		if err != nil {
			return nil, err
		}
		out[k] = s
	}
	return out, nil
}

// Screenshots validates a url -> description mapping.
func Screenshots(v any) (document.Doc, error) {
	m, err := Mapping("screenshots", v)
	if err != nil {
		return nil, err
	}
	out := document.Doc{}
	for _, u := range document.SortedKeys(m) {
		norm, err := NormalizeURL(u)
		if err != nil {
			return nil, err
		}
		desc, err := String("screenshots", m[u])
		if err != nil {
			return nil, err
		}
		out[norm] = desc
	}
	return out, nil
}

// Name returns the package name.
func (p *Package) Name() string { return document.String(p.doc, "name") }

// Owners returns the owner list.
func (p *Package) Owners() []string { return document.Strings(p.doc, "owners") }

// SetDefaultOwner makes nick the only owner unless owners were given.
func (p *Package) SetDefaultOwner(nick string) {
	if _, ok := p.doc["owners"]; !ok {
		p.doc["owners"] = []any{nick}
	}
}

// Stamp initializes the view counter and both timestamps to now.
func (p *Package) Stamp(now time.Time) {
	ts := FormatTime(now)
	p.doc["stats"] = document.Doc{
		"views": 0,
		"date":  document.Doc{"created": ts, "last-updated": ts},
	}
}

// Doc returns the canonical document with dotted keys.
func (p *Package) Doc() document.Doc { return document.CloneDoc(p.doc) }

// StoreDoc returns the document with keys escaped for persistence.
func (p *Package) StoreDoc() document.Doc { return document.EscapeKeys(p.doc) }
