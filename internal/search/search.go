// Package search compiles list query parameters into filters over package
// and user documents. Every grammar compiles to in-memory predicates, and to
// a MongoDB filter plus residual predicates for the parameters that cannot be
// expressed store-side. Both forms select the same documents.
package search

import (
	"sort"

	"github.com/hel-repo/hel/internal/apperr"
	"github.com/hel-repo/hel/internal/document"
	"go.mongodb.org/mongo-driver/bson"
)

// Arity is the number of values a parameter accepts.
type Arity int

const (
	// One accepts exactly one value.
	One Arity = iota
	// Many accepts one or more values, combined with AND.
	Many
)

// Predicate reports whether a document (with unescaped keys) matches.
type Predicate func(doc document.Doc) bool

// Param describes one query parameter.
type Param struct {
	Arity Arity
	// Predicate builds the in-memory matcher from the validated values.
	Predicate func(values []string) Predicate
	// Native builds the equivalent MongoDB filter clauses against escaped
	// documents. Nil when the parameter can only be evaluated in memory.
	Native func(values []string) []bson.M
}

// Grammar maps parameter names to their descriptors.
type Grammar map[string]Param

// Plan is a store-side filter plus the predicates left to run in memory on
// the fetched documents.
type Plan struct {
	Filter   bson.M
	Residual []Predicate
}

// Validate checks names, arity and emptiness of params in sorted order and
// returns the first failure.
func (g Grammar) Validate(params map[string][]string) error {
	for _, name := range sortedNames(params) {
		p, ok := g[name]
		if !ok {
			return apperr.UnknownSearchParam(name)
		}
		values := params[name]
		if len(values) == 0 || values[0] == "" {
			return apperr.NoValues(name)
		}
		if p.Arity == One && len(values) > 1 {
			return apperr.TooManyValues(1, len(values))
		}
	}
	return nil
}

// CompilePredicates returns one predicate per parameter. A document matches
// when all of them hold.
func (g Grammar) CompilePredicates(params map[string][]string) ([]Predicate, error) {
	if err := g.Validate(params); err != nil {
		return nil, err
	}
	preds := make([]Predicate, 0, len(params))
	for _, name := range sortedNames(params) {
		preds = append(preds, g[name].Predicate(params[name]))
	}
	return preds, nil
}

// CompilePlan splits params between a native filter and residual
// predicates.
func (g Grammar) CompilePlan(params map[string][]string) (Plan, error) {
	if err := g.Validate(params); err != nil {
		return Plan{}, err
	}
	plan := Plan{Filter: bson.M{}}
	var clauses []bson.M
	for _, name := range sortedNames(params) {
		p := g[name]
		if p.Native == nil {
			plan.Residual = append(plan.Residual, p.Predicate(params[name]))
			continue
		}
		clauses = append(clauses, p.Native(params[name])...)
	}
	if len(clauses) > 0 {
		plan.Filter["$and"] = clauses
	}
	return plan, nil
}

// Filter keeps the documents matching every predicate, in order.
func Filter(docs []document.Doc, preds []Predicate) []document.Doc {
	out := make([]document.Doc, 0, len(docs))
next:
	for _, d := range docs {
		for _, p := range preds {
			if !p(d) {
				continue next
			}
		}
		out = append(out, d)
	}
	return out
}

func sortedNames(params map[string][]string) []string {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
