package document

// Outcome is what a merge decided for one position of the tree.
type Outcome int

const (
	// Keep leaves the old value untouched.
	Keep Outcome = iota
	// Set replaces the old value with Result.Value.
	Set
	// Delete removes the key holding the old value.
	Delete
)

func (o Outcome) String() string {
	switch o {
	case Keep:
		return "keep"
	case Set:
		return "set"
	case Delete:
		return "delete"
	}
	return "unknown"
}

// Result is the outcome of merging a patch value onto an old value.
type Result struct {
	Outcome Outcome
	Value   any
}

// Kind classifies a tree value for merging.
type Kind int

const (
	KindNull Kind = iota
	KindMap
	KindList
	KindScalar
)

// KindOf reports the merge kind of v.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case map[string]any:
		return KindMap
	case []any:
		return KindList
	}
	return KindScalar
}

// Merge applies patch onto old. Mappings are merged key by key; a nil patch
// value deletes the key it is stored under; anything else replaces the old
// value wholesale. Neither argument is modified.
func Merge(old, patch any) Result {
	if KindOf(patch) == KindNull {
		return Result{Outcome: Delete}
	}
	if KindOf(old) != KindMap || KindOf(patch) != KindMap {
		if Equal(old, patch) {
			return Result{Outcome: Keep, Value: old}
		}
		return Result{Outcome: Set, Value: Prune(patch)}
	}

	oldMap := old.(map[string]any)
	patchMap := patch.(map[string]any)
	out := CloneDoc(oldMap)
	changed := false
	for k, pv := range patchMap {
		ov, exists := oldMap[k]
		if !exists {
			// deleting what is not there is a no-op
			if pv == nil {
				continue
			}
			out[k] = Prune(pv)
			changed = true
			continue
		}
		r := Merge(ov, pv)
		switch r.Outcome {
		case Delete:
			delete(out, k)
			changed = true
		case Set:
			out[k] = r.Value
			changed = true
		}
	}
	if !changed {
		return Result{Outcome: Keep, Value: old}
	}
	return Result{Outcome: Set, Value: out}
}

// Apply merges patch onto the root document old and returns the next state.
func Apply(old, patch Doc) Doc {
	r := Merge(old, patch)
	switch r.Outcome {
	case Set:
		return r.Value.(Doc)
	case Delete:
		return Doc{}
	}
	return CloneDoc(old)
}

// Prune deep copies v, dropping nil mapping entries. It is used for subtrees
// that are inserted rather than merged, where a nil has nothing to delete.
func Prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(Doc, len(t))
		for k, vv := range t {
			if vv == nil {
				continue
			}
			out[k] = Prune(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = Prune(vv)
		}
		return out
	}
	return v
}
