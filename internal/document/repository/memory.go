package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/hel-repo/hel/internal/document"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryCollection is an in-memory Collection used by unit tests and by the
// standalone process when no MongoDB URI is configured. It understands the
// subset of the query language the services issue (see Match).
type MemoryCollection struct {
	mu     sync.RWMutex
	order  []primitive.ObjectID
	store  map[primitive.ObjectID]document.Doc
	unique []string
}

// NewMemoryCollection creates an empty collection. Values of the unique
// fields must not repeat across documents, mirroring a unique index.
func NewMemoryCollection(unique ...string) *MemoryCollection {
	return &MemoryCollection{store: make(map[primitive.ObjectID]document.Doc), unique: unique}
}

func (m *MemoryCollection) Find(ctx context.Context, filter bson.M) ([]document.Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []document.Doc{}
	for _, id := range m.order {
		d := m.store[id]
		ok, err := Match(d, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, document.CloneDoc(d))
		}
	}
	return out, nil
}

func (m *MemoryCollection) FindOne(ctx context.Context, filter bson.M) (document.Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, err := m.first(filter)
	if err != nil {
		return nil, err
	}
	return document.CloneDoc(m.store[id]), nil
}

func (m *MemoryCollection) Count(ctx context.Context, filter bson.M) (int64, error) {
	docs, err := m.Find(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

func (m *MemoryCollection) Insert(ctx context.Context, doc document.Doc) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := document.CloneDoc(doc)
	id, ok := d["_id"].(primitive.ObjectID)
	if !ok {
		id = primitive.NewObjectID()
		d["_id"] = id
	}
	if _, exists := m.store[id]; exists {
		return primitive.NilObjectID, ErrDuplicate
	}
	if m.violatesUnique(d, primitive.NilObjectID) {
		return primitive.NilObjectID, ErrDuplicate
	}
	m.store[id] = d
	m.order = append(m.order, id)
	return id, nil
}

func (m *MemoryCollection) Replace(ctx context.Context, filter bson.M, doc document.Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.first(filter)
	if err != nil {
		return err
	}
	d := document.CloneDoc(doc)
	d["_id"] = id
	if m.violatesUnique(d, id) {
		return ErrDuplicate
	}
	m.store[id] = d
	return nil
}

func (m *MemoryCollection) Set(ctx context.Context, filter bson.M, fields document.Doc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.first(filter)
	if err != nil {
		return err
	}
	d := document.CloneDoc(m.store[id])
	for path, v := range fields {
		setPath(d, strings.Split(path, "."), document.Clone(v))
	}
	if m.violatesUnique(d, id) {
		return ErrDuplicate
	}
	m.store[id] = d
	return nil
}

func (m *MemoryCollection) Increment(ctx context.Context, filter bson.M, field string, by int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.first(filter)
	if err != nil {
		return err
	}
	d := m.store[id]
	path := strings.Split(field, ".")
	cur, _ := document.Lookup(d, path)
	var next any
	switch n := cur.(type) {
	case int32:
		next = n + int32(by)
	case int64:
		next = n + int64(by)
	case float64:
		next = n + float64(by)
	case int:
		next = n + by
	default:
		next = by
	}
	setPath(d, path, next)
	return nil
}

func (m *MemoryCollection) Delete(ctx context.Context, filter bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.first(filter)
	if err != nil {
		return err
	}
	delete(m.store, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// first returns the id of the first document matching filter. The caller
// holds the lock.
func (m *MemoryCollection) first(filter bson.M) (primitive.ObjectID, error) {
	for _, id := range m.order {
		ok, err := Match(m.store[id], filter)
		if err != nil {
			return primitive.NilObjectID, err
		}
		if ok {
			return id, nil
		}
	}
	return primitive.NilObjectID, ErrNotFound
}

func (m *MemoryCollection) violatesUnique(d document.Doc, self primitive.ObjectID) bool {
	for _, field := range m.unique {
		v, ok := d[field]
		if !ok {
			continue
		}
		for id, other := range m.store {
			if id == self {
				continue
			}
			if ov, ok := other[field]; ok && document.Equal(ov, v) {
				return true
			}
		}
	}
	return false
}

func setPath(d document.Doc, path []string, v any) {
	cur := d
	for _, p := range path[:len(path)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = document.Doc{}
			cur[p] = next
		}
		cur = next
	}
	cur[path[len(path)-1]] = v
}
