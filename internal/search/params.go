package search

import (
	"regexp"
	"strings"

	"github.com/hel-repo/hel/internal/document"
	"github.com/hel-repo/hel/internal/version"
	"go.mongodb.org/mongo-driver/bson"
)

// PackageParams is the grammar of GET /packages.
var PackageParams = Grammar{
	"name":              phraseParam("name"),
	"description":       phraseParam("description"),
	"short_description": phraseParam("short_description"),
	"authors":           phraseParam("authors"),
	"owners":            allOfParam("owners"),
	"tags":              allOfParam("tags"),
	"license": {
		Arity: One,
		Predicate: func(v []string) Predicate {
			return func(d document.Doc) bool {
				return strings.Contains(document.String(d, "license"), v[0])
			}
		},
		Native: func(v []string) []bson.M {
			return []bson.M{{"license": bson.M{"$regex": regexp.QuoteMeta(v[0])}}}
		},
	},
	"file_url": {
		Arity: Many,
		Predicate: latestFiles(func(files document.Doc, want string) bool {
			_, ok := files[want]
			return ok
		}),
	},
	"file_dir":  {Arity: Many, Predicate: latestFiles(fileField("dir"))},
	"file_name": {Arity: Many, Predicate: latestFiles(fileField("name"))},
	"dependency": {
		Arity:     Many,
		Predicate: dependencyPredicate,
	},
	"screen_url": {
		Arity: Many,
		Predicate: func(v []string) Predicate {
			return func(d document.Doc) bool {
				shots, _ := document.Map(d, "screenshots")
				for _, u := range v {
					if _, ok := shots[u]; !ok {
						return false
					}
				}
				return true
			}
		},
		Native: func(v []string) []bson.M {
			out := make([]bson.M, 0, len(v))
			for _, u := range v {
				out = append(out, bson.M{"screenshots." + document.EscapeKey(u): bson.M{"$exists": true}})
			}
			return out
		},
	},
	"screen_desc": {
		Arity: One,
		Predicate: func(v []string) Predicate {
			phrases := SplitPhrase(v[0])
			return func(d document.Doc) bool {
				shots, _ := document.Map(d, "screenshots")
				descs := make([]string, 0, len(shots))
				for _, desc := range shots {
					if s, ok := desc.(string); ok {
						descs = append(descs, s)
					}
				}
				return everyPhraseInSome(phrases, descs, false)
			}
		},
	},
	"q": {Arity: One, Predicate: fullText},
}

// UserParams is the grammar of GET /users.
var UserParams = Grammar{
	"groups": allOfParam("groups"),
}

// phraseParam matches when every phrase of the single value is a substring
// of the field, or of some element when the field is a list.
func phraseParam(field string) Param {
	return Param{
		Arity: One,
		Predicate: func(v []string) Predicate {
			phrases := SplitPhrase(v[0])
			return func(d document.Doc) bool {
				return everyPhraseInSome(phrases, fieldStrings(d, field), false)
			}
		},
		Native: func(v []string) []bson.M {
			phrases := SplitPhrase(v[0])
			out := make([]bson.M, 0, len(phrases))
			for _, p := range phrases {
				out = append(out, bson.M{field: bson.M{"$regex": regexp.QuoteMeta(p)}})
			}
			return out
		},
	}
}

// allOfParam matches when every value is an element of the list field.
func allOfParam(field string) Param {
	return Param{
		Arity: Many,
		Predicate: func(v []string) Predicate {
			return func(d document.Doc) bool {
				have := document.Strings(d, field)
				for _, want := range v {
					if !contains(have, want) {
						return false
					}
				}
				return true
			}
		},
		Native: func(v []string) []bson.M {
			return []bson.M{{field: bson.M{"$all": v}}}
		},
	}
}

// latestFiles builds a predicate over the files of the latest version that
// holds when match accepts every value.
func latestFiles(match func(files document.Doc, want string) bool) func([]string) Predicate {
	return func(v []string) Predicate {
		return func(d document.Doc) bool {
			ver, ok := latest(d)
			if !ok {
				return false
			}
			files, _ := document.Map(ver, "files")
			for _, want := range v {
				if !match(files, want) {
					return false
				}
			}
			return true
		}
	}
}

func fileField(key string) func(files document.Doc, want string) bool {
	return func(files document.Doc, want string) bool {
		for _, f := range files {
			if m, ok := f.(map[string]any); ok && document.String(m, key) == want {
				return true
			}
		}
		return false
	}
}

// dependencyPredicate matches values of the form name[:version[:type]]
// against the depends of the latest version. Version and type are compared
// literally; an empty part is not compared.
func dependencyPredicate(v []string) Predicate {
	return func(d document.Doc) bool {
		ver, ok := latest(d)
		if !ok {
			return false
		}
		deps, _ := document.Map(ver, "depends")
		for _, spec := range v {
			parts := strings.SplitN(spec, ":", 3)
			dep, ok := document.Map(deps, parts[0])
			if !ok {
				return false
			}
			if len(parts) > 1 && parts[1] != "" && document.String(dep, "version") != parts[1] {
				return false
			}
			if len(parts) > 2 && parts[2] != "" && document.String(dep, "type") != parts[2] {
				return false
			}
		}
		return true
	}
}

// fullText is the q parameter: every phrase must occur, case-insensitively,
// in some text of the package.
func fullText(v []string) Predicate {
	phrases := SplitPhrase(v[0])
	return func(d document.Doc) bool {
		var texts []string
		for _, f := range []string{"name", "description", "short_description", "owners", "authors", "license", "tags"} {
			texts = append(texts, fieldStrings(d, f)...)
		}
		shots, _ := document.Map(d, "screenshots")
		for _, desc := range shots {
			if s, ok := desc.(string); ok {
				texts = append(texts, s)
			}
		}
		versions, _ := document.Map(d, "versions")
		for _, ver := range versions {
			if m, ok := ver.(map[string]any); ok {
				texts = append(texts, document.String(m, "changes"))
			}
		}
		return everyPhraseInSome(phrases, texts, true)
	}
}

func latest(d document.Doc) (document.Doc, bool) {
	versions, ok := document.Map(d, "versions")
	if !ok {
		return nil, false
	}
	num, err := version.Latest(versions)
	if err != nil {
		return nil, false
	}
	return document.Map(versions, num)
}

func fieldStrings(d document.Doc, field string) []string {
	switch v := d[field].(type) {
	case string:
		return []string{v}
	case []any:
		return document.StringList(v)
	}
	return nil
}

func everyPhraseInSome(phrases, texts []string, fold bool) bool {
	for _, p := range phrases {
		if fold {
			p = strings.ToLower(p)
		}
		found := false
		for _, t := range texts {
			if fold {
				t = strings.ToLower(t)
			}
			if strings.Contains(t, p) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, e := range list {
		if e == s {
			return true
		}
	}
	return false
}
