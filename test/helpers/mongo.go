// test/helpers/mongo.go
package helpers

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FakeCollection is an in-memory stand-in for a document collection. Filters
// support field equality only; Find always returns documents newest first by
// createdAt; updates support $set.
type FakeCollection struct {
	mu   sync.Mutex
	docs []bson.Raw

	// Err, when set, is returned by every operation.
	Err error
}

// NewFakeCollection returns an empty collection
func NewFakeCollection() *FakeCollection {
	return &FakeCollection{}
}

// Len returns the number of stored documents
func (f *FakeCollection) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

// Docs returns a copy of the stored documents in insertion order
func (f *FakeCollection) Docs() []bson.Raw {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bson.Raw(nil), f.docs...)
}

func (f *FakeCollection) insert(document interface{}) (interface{}, error) {
	raw, err := bson.Marshal(document)
	if err != nil {
		return nil, err
	}
	if _, err := bson.Raw(raw).LookupErr("_id"); err != nil {
		var d bson.D
		if err := bson.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		d = append(bson.D{{Key: "_id", Value: primitive.NewObjectID()}}, d...)
		if raw, err = bson.Marshal(d); err != nil {
			return nil, err
		}
	}
	f.docs = append(f.docs, raw)
	return bson.Raw(raw).Lookup("_id"), nil
}

func (f *FakeCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	id, err := f.insert(document)
	if err != nil {
		return nil, err
	}
	return &mongo.InsertOneResult{InsertedID: id}, nil
}

func (f *FakeCollection) InsertMany(_ context.Context, documents []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	result := &mongo.InsertManyResult{}
	for _, doc := range documents {
		id, err := f.insert(doc)
		if err != nil {
			return nil, err
		}
		result.InsertedIDs = append(result.InsertedIDs, id)
	}
	return result, nil
}

func (f *FakeCollection) Find(_ context.Context, filter interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}

	var matched []bson.Raw
	for i := len(f.docs) - 1; i >= 0; i-- {
		if matches(f.docs[i], filter) {
			matched = append(matched, f.docs[i])
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return createdAt(matched[i]) > createdAt(matched[j])
	})

	docs := make([]interface{}, len(matched))
	for i, raw := range matched {
		docs[i] = raw
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func (f *FakeCollection) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.Err, nil)
	}
	for _, raw := range f.docs {
		if matches(raw, filter) {
			return mongo.NewSingleResultFromDocument(raw, nil, nil)
		}
	}
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

// FindOneAndUpdate applies a $set update and returns the updated document.
func (f *FakeCollection) FindOneAndUpdate(_ context.Context, filter interface{}, update interface{},
	_ ...*options.FindOneAndUpdateOptions) *mongo.SingleResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.Err, nil)
	}

	set, err := setFields(update)
	if err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
	}

	for i, raw := range f.docs {
		if !matches(raw, filter) {
			continue
		}
		var doc bson.M
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
		}
		for k, v := range set {
			doc[k] = v
		}
		updated, err := bson.Marshal(doc)
		if err != nil {
			return mongo.NewSingleResultFromDocument(bson.D{}, err, nil)
		}
		f.docs[i] = updated
		return mongo.NewSingleResultFromDocument(bson.Raw(updated), nil, nil)
	}
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func (f *FakeCollection) DeleteOne(_ context.Context, filter interface{}, _ ...*options.DeleteOptions) (*mongo.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	for i, raw := range f.docs {
		if matches(raw, filter) {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (f *FakeCollection) CountDocuments(_ context.Context, filter interface{}, _ ...*options.CountOptions) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return 0, f.Err
	}
	var n int64
	for _, raw := range f.docs {
		if matches(raw, filter) {
			n++
		}
	}
	return n, nil
}

func matches(raw bson.Raw, filter interface{}) bool {
	fields, ok := filter.(bson.M)
	if !ok {
		return filter == nil
	}
	for key, want := range fields {
		got, err := raw.LookupErr(key)
		if err != nil {
			return false
		}
		t, data, err := bson.MarshalValue(want)
		if err != nil || got.Type != t || !bytes.Equal(got.Value, data) {
			return false
		}
	}
	return true
}

func createdAt(raw bson.Raw) int64 {
	v, err := raw.LookupErr("createdAt")
	if err != nil {
		return 0
	}
	ms, ok := v.DateTimeOK()
	if !ok {
		return 0
	}
	return ms
}

func setFields(update interface{}) (bson.M, error) {
	u, ok := update.(bson.M)
	if !ok {
		return nil, errors.New("fake collection: update must be bson.M")
	}
	set, ok := u["$set"].(bson.M)
	if !ok {
		return nil, errors.New("fake collection: only $set updates are supported")
	}
	return set, nil
}
