package document

import "strings"

// KeySentinel replaces periods in stored field names; MongoDB forbids them.
const KeySentinel = "\uf123"

// Escape walks v and replaces from with to in every mapping key. Values are
// left untouched. Escape(Escape(d, ".", KeySentinel), KeySentinel, ".")
// returns d for any d whose keys do not already contain the sentinel.
func Escape(v any, from, to string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(Doc, len(t))
		for k, vv := range t {
			out[strings.ReplaceAll(k, from, to)] = Escape(vv, from, to)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Escape(vv, from, to)
		}
		return out
	default:
		return v
	}
}

// EscapeKeys prepares d for persistence.
func EscapeKeys(d Doc) Doc {
	if d == nil {
		return nil
	}
	return Escape(d, ".", KeySentinel).(Doc)
}

// UnescapeKeys restores a document read from the store.
func UnescapeKeys(d Doc) Doc {
	if d == nil {
		return nil
	}
	return Escape(d, KeySentinel, ".").(Doc)
}

// EscapeKey escapes a single key, e.g. when building a dotted query path.
func EscapeKey(k string) string {
	return strings.ReplaceAll(k, ".", KeySentinel)
}
