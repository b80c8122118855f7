package docstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory document store safe for concurrent use.
// Intended for development and tests; data does not survive a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
	}
}

func (s *MemoryStore) Put(_ context.Context, collection string, doc Document) (string, error) {
	stored := deepCopy(doc)
	if stored == nil {
		stored = Document{}
	}
	id, _ := stored[IDField].(string)
	if id == "" {
		id = uuid.New().String()
		stored[IDField] = id
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]Document)
		s.collections[collection] = coll
	}
	coll[id] = stored
	return id, nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, ok := s.collections[collection]
	if !ok {
		return nil, NotFound(collection, id)
	}
	doc, ok := coll[id]
	if !ok {
		return nil, NotFound(collection, id)
	}
	return deepCopy(doc), nil
}

func (s *MemoryStore) Query(_ context.Context, collection string, selector map[string]any) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []Document{}
	for _, doc := range s.collections[collection] {
		if matches(doc, selector) {
			results = append(results, deepCopy(doc))
		}
	}
	return results, nil
}

func (s *MemoryStore) Replace(_ context.Context, collection, id string, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		return NotFound(collection, id)
	}
	if _, ok := coll[id]; !ok {
		return NotFound(collection, id)
	}
	coll[id] = deepCopy(doc)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[collection]
	if !ok {
		return NotFound(collection, id)
	}
	if _, ok := coll[id]; !ok {
		return NotFound(collection, id)
	}
	delete(coll, id)
	return nil
}

// deepCopy isolates stored documents from caller mutation. Documents are JSON
// values, so a marshal round trip copies nested maps and slices.
func deepCopy(doc Document) Document {
	if doc == nil {
		return nil
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		// Documents come from decoded JSON, so this cannot fail in practice.
		copied := make(Document, len(doc))
		for k, v := range doc {
			copied[k] = v
		}
		return copied
	}
	var copied Document
	if err := json.Unmarshal(raw, &copied); err != nil {
		return doc
	}
	return copied
}
