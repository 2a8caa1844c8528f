// Package document holds the generic tree operations applied to stored
// package and user documents: key escaping, normalization of driver values
// and the recursive patch merge.
package document

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Doc is a decoded JSON/BSON document. Nested documents are Doc (or
// map[string]any), arrays are []any.
type Doc = map[string]any

// Normalize converts driver specific containers (bson.M, bson.D, bson.A,
// typed slices) into plain Doc / []any trees so that the rest of the code
// only has to deal with one representation.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(Doc, len(t))
		for k, vv := range t {
			out[k] = Normalize(vv)
		}
		return out
	case bson.M:
		return Normalize(map[string]any(t))
	case bson.D:
		out := make(Doc, len(t))
		for _, e := range t {
			out[e.Key] = Normalize(e.Value)
		}
		return out
	case bson.A:
		return Normalize([]any(t))
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Normalize(vv)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = Normalize(m)
		}
		return out
	default:
		return v
	}
}

// NormalizeDoc is Normalize for a document root.
func NormalizeDoc(v any) Doc {
	if d, ok := Normalize(v).(Doc); ok {
		return d
	}
	return Doc{}
}

// Clone returns a deep copy of v.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(Doc, len(t))
		for k, vv := range t {
			out[k] = Clone(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Clone(vv)
		}
		return out
	default:
		return v
	}
}

// CloneDoc deep copies a document root.
func CloneDoc(d Doc) Doc {
	if d == nil {
		return nil
	}
	return Clone(d).(Doc)
}

// Map returns d[key] as a document.
func Map(d Doc, key string) (Doc, bool) {
	m, ok := d[key].(map[string]any)
	return m, ok
}

// String returns d[key] as a string, or "" when absent or not a string.
func String(d Doc, key string) string {
	s, _ := d[key].(string)
	return s
}

// Strings returns the string elements of the list stored at d[key].
func Strings(d Doc, key string) []string {
	return StringList(d[key])
}

// StringList returns the string elements of v when v is a list.
func StringList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	}
	return nil
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup resolves a dotted path ("stats.date.created") against d.
func Lookup(d Doc, path []string) (any, bool) {
	var cur any = d
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Equal compares two scalar or container values, treating the different
// numeric representations produced by JSON and BSON decoding as equal.
func Equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	switch ta := a.(type) {
	case map[string]any:
		tb, ok := b.(map[string]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for k, va := range ta {
			vb, ok := tb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !Equal(ta[i], tb[i]) {
				return false
			}
		}
		return true
	case primitive.ObjectID:
		tb, ok := b.(primitive.ObjectID)
		return ok && ta == tb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// Stringify converts a scalar into its string form. Containers are rejected.
func Stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case nil:
		return "", false
	case map[string]any, []any:
		return "", false
	}
	return fmt.Sprint(v), true
}
