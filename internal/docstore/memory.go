package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemoryStore creates a new in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
	}
}

func (m *MemoryStore) Insert(_ context.Context, collection string, doc Document) (string, error) {
	normalized, err := normalize(doc)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]Document)
		m.collections[collection] = docs
	}

	id := uuid.NewString()
	docs[id] = normalized

	return id, nil
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return Record{}, ErrNotFound
	}

	return Record{ID: id, Data: clone(doc)}, nil
}

func (m *MemoryStore) QueryEquals(_ context.Context, collection, field string, value any) ([]Record, error) {
	want, err := normalizeValue(value)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var records []Record

	for id, doc := range m.collections[collection] {
		if doc[field] == want {
			records = append(records, Record{ID: id, Data: clone(doc)})
		}
	}

	return records, nil
}

func (m *MemoryStore) AtomicIncrementAndTimestamp(_ context.Context, collection, id, counterField, timestampField string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	count, _ := doc[counterField].(float64)
	doc[counterField] = count + 1
	doc[timestampField] = time.Now().UTC().Format(time.RFC3339Nano)

	return nil
}

func (m *MemoryStore) Update(_ context.Context, collection, id string, fields Document) error {
	normalized, err := normalize(fields)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	for k, v := range normalized {
		doc[k] = v
	}

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)

	return nil
}

// normalize round-trips a document through JSON so stored values carry the
// same scalar types a real backend would return.
func normalize(doc Document) (Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}

	var normalized Document
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, fmt.Errorf("normalize document: %w", err)
	}

	return normalized, nil
}

func normalizeValue(value any) (any, error) {
	doc, err := normalize(Document{"v": value})
	if err != nil {
		return nil, err
	}

	return doc["v"], nil
}

func clone(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}

	return out
}

// Compile-time check.
var _ Store = (*MemoryStore)(nil)
