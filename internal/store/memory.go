package store

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Store with the same filter semantics as the mongo
// adapter, used by the tests. Documents round-trip through the driver's bson
// codec so both adapters honor the same struct tags.
type Memory struct {
	mu    sync.RWMutex
	colls map[string]*memoryCollection
}

func NewMemory() *Memory {
	return &Memory{colls: make(map[string]*memoryCollection)}
}

func (m *Memory) collection(name string) *memoryCollection {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.colls[name]
	if !ok {
		c = &memoryCollection{}
		m.colls[name] = c
	}
	return c
}

func (m *Memory) Users() Collection { return m.collection(collUsers) }

func (m *Memory) Products() Collection { return m.collection(collProducts) }

func (m *Memory) Categories() Collection { return m.collection(collCategories) }

func (m *Memory) Orders() Collection { return m.collection(collOrders) }

func (m *Memory) Advertise() Collection { return m.collection(collAdvertise) }

func (m *Memory) Wishlist() Collection { return m.collection(collWishlist) }

func (m *Memory) Payments() Collection { return m.collection(collPayments) }

var _ Store = (*Memory)(nil)

type memoryCollection struct {
	mu   sync.RWMutex
	docs []bson.M
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeDoc(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// asFloat collapses the bson integer widths so filters written with Go ints
// match documents stored as int32/int64/float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func valueEqual(a, b any) bool {
	if fa, ok := asFloat(a); ok {
		fb, ok := asFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok {
			return false
		}
		if !valueEqual(got, want) {
			return false
		}
	}
	return true
}

func (mc *memoryCollection) FindOne(ctx context.Context, filter bson.M, out any) error {
	f, err := toDoc(filter)
	if err != nil {
		return err
	}
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	for _, doc := range mc.docs {
		if matches(doc, f) {
			return decodeDoc(doc, out)
		}
	}
	return ErrNotFound
}

func (mc *memoryCollection) Find(ctx context.Context, filter bson.M, out any) error {
	f, err := toDoc(filter)
	if err != nil {
		return err
	}
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("find: out must be a pointer to a slice, got %T", out)
	}
	slice := rv.Elem()
	slice.SetLen(0)
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	for _, doc := range mc.docs {
		if !matches(doc, f) {
			continue
		}
		elem := reflect.New(slice.Type().Elem())
		if err := decodeDoc(doc, elem.Interface()); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem.Elem())
	}
	rv.Elem().Set(slice)
	return nil
}

func (mc *memoryCollection) InsertOne(ctx context.Context, v any) (primitive.ObjectID, error) {
	doc, err := toDoc(v)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := doc["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		doc["_id"] = id
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.docs = append(mc.docs, doc)
	return id, nil
}

func (mc *memoryCollection) UpdateOne(ctx context.Context, filter, update bson.M, opts ...UpdateOption) (UpdateResult, error) {
	var cfg updateConfig
	for _, o := range opts {
		o(&cfg)
	}
	f, err := toDoc(filter)
	if err != nil {
		return UpdateResult{}, err
	}
	set, err := toDoc(bson.M{})
	if raw, ok := update["$set"]; ok {
		m, ok := raw.(bson.M)
		if !ok {
			return UpdateResult{}, fmt.Errorf("update: $set must be a bson.M, got %T", raw)
		}
		set, err = toDoc(m)
	}
	if err != nil {
		return UpdateResult{}, err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()
	for _, doc := range mc.docs {
		if !matches(doc, f) {
			continue
		}
		modified := int64(0)
		for k, v := range set {
			if !valueEqual(doc[k], v) {
				doc[k] = v
				modified = 1
			}
		}
		return UpdateResult{Matched: 1, Modified: modified}, nil
	}

	if !cfg.upsert {
		return UpdateResult{}, nil
	}
	stub := bson.M{}
	for k, v := range f {
		stub[k] = v
	}
	for k, v := range set {
		stub[k] = v
	}
	id, ok := stub["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		stub["_id"] = id
	}
	mc.docs = append(mc.docs, stub)
	return UpdateResult{UpsertedID: id.Hex()}, nil
}

func (mc *memoryCollection) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	f, err := toDoc(filter)
	if err != nil {
		return 0, err
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for i, doc := range mc.docs {
		if matches(doc, f) {
			mc.docs = append(mc.docs[:i], mc.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (mc *memoryCollection) DeleteMany(ctx context.Context, filter bson.M) (int64, error) {
	f, err := toDoc(filter)
	if err != nil {
		return 0, err
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	kept := mc.docs[:0]
	deleted := int64(0)
	for _, doc := range mc.docs {
		if matches(doc, f) {
			deleted++
			continue
		}
		kept = append(kept, doc)
	}
	mc.docs = kept
	return deleted, nil
}
