package repository

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hel-repo/hel/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Match evaluates a MongoDB filter document against d. Supported: implicit
// and explicit $and, dotted paths, equality (an array field matches when it
// contains the value) and the operators $eq, $ne, $in, $all, $exists and
// $regex (with $options "i").
func Match(d document.Doc, filter bson.M) (bool, error) {
	for key, cond := range filter {
		if key == "$and" {
			clauses, err := clauseList(cond)
			if err != nil {
				return false, err
			}
			for _, c := range clauses {
				ok, err := Match(d, c)
				if err != nil || !ok {
					return false, err
				}
			}
			continue
		}
		v, present := document.Lookup(d, strings.Split(key, "."))
		ok, err := matchField(v, present, cond)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func clauseList(v any) ([]bson.M, error) {
	switch t := v.(type) {
	case []bson.M:
		return t, nil
	case bson.A:
		return clauseList([]any(t))
	case []any:
		out := make([]bson.M, 0, len(t))
		for _, e := range t {
			switch c := e.(type) {
			case bson.M:
				out = append(out, c)
			case map[string]any:
				out = append(out, bson.M(c))
			default:
				return nil, Error.New("$and expects documents, got %T", e)
			}
		}
		return out, nil
	}
	return nil, Error.New("$and expects an array, got %T", v)
}

func operators(cond any) (bson.M, bool) {
	var m bson.M
	switch t := cond.(type) {
	case bson.M:
		m = t
	case map[string]any:
		m = bson.M(t)
	default:
		return nil, false
	}
	if len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func matchField(v any, present bool, cond any) (bool, error) {
	ops, ok := operators(cond)
	if !ok {
		return present && equalOrContains(v, document.Normalize(cond)), nil
	}
	for op, arg := range ops {
		var ok bool
		switch op {
		case "$eq":
			ok = present && equalOrContains(v, document.Normalize(arg))
		case "$ne":
			ok = !present || !equalOrContains(v, document.Normalize(arg))
		case "$exists":
			want, _ := arg.(bool)
			ok = present == want
		case "$in":
			for _, a := range listOf(arg) {
				if present && equalOrContains(v, a) {
					ok = true
					break
				}
			}
		case "$all":
			ok = present
			for _, a := range listOf(arg) {
				if !equalOrContains(v, a) {
					ok = false
					break
				}
			}
		case "$regex":
			re, err := compileRegex(arg, ops["$options"])
			if err != nil {
				return false, err
			}
			ok = present && regexMatches(re, v)
		case "$options":
			ok = true
		default:
			return false, Error.New("unsupported operator %s", op)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func listOf(v any) []any {
	if l, ok := document.Normalize(v).([]any); ok {
		return l
	}
	return []any{v}
}

func equalOrContains(v, want any) bool {
	if document.Equal(v, want) {
		return true
	}
	if l, ok := v.([]any); ok {
		for _, e := range l {
			if document.Equal(e, want) {
				return true
			}
		}
	}
	return false
}

func compileRegex(pattern, options any) (*regexp.Regexp, error) {
	var expr string
	switch p := pattern.(type) {
	case string:
		expr = p
	case primitive.Regex:
		expr = p.Pattern
		options = p.Options
	default:
		return nil, Error.New("$regex expects a string, got %T", pattern)
	}
	if o, _ := options.(string); strings.Contains(o, "i") {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, Error.Wrap(fmt.Errorf("bad pattern %q: %w", expr, err))
	}
	return re, nil
}

func regexMatches(re *regexp.Regexp, v any) bool {
	switch t := v.(type) {
	case string:
		return re.MatchString(t)
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok && re.MatchString(s) {
				return true
			}
		}
	}
	return false
}
