package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"cm-gateway/internal/platform/redis"
	dErrors "cm-gateway/pkg/domain-errors"
)

// RedisStore persists documents in Redis. Each document is stored as a JSON
// string under the key "<collection>:<id>".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing Redis client as a document store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(collection, id string) string {
	return collection + ":" + id
}

func (s *RedisStore) Put(ctx context.Context, collection string, doc Document) (string, error) {
	stored := make(Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	id, _ := stored[IDField].(string)
	if id == "" {
		id = uuid.New().String()
		stored[IDField] = id
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "marshal document")
	}
	if err := s.client.Set(ctx, key(collection, id), raw, 0).Err(); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "store document")
	}
	return id, nil
}

func (s *RedisStore) Get(ctx context.Context, collection, id string) (Document, error) {
	raw, err := s.client.Client.Get(ctx, key(collection, id)).Bytes()
	if err == goredis.Nil {
		return nil, NotFound(collection, id)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch document")
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode document")
	}
	return doc, nil
}

func (s *RedisStore) Query(ctx context.Context, collection string, selector map[string]any) ([]Document, error) {
	pattern := fmt.Sprintf("%s:*", collection)

	results := []Document{}
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		raw, err := s.client.Client.Get(ctx, iter.Val()).Bytes()
		if err == goredis.Nil {
			continue
		}
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "fetch document")
		}

		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode document")
		}
		if matches(doc, selector) {
			results = append(results, doc)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "scan collection")
	}
	return results, nil
}

func (s *RedisStore) Replace(ctx context.Context, collection, id string, doc Document) error {
	exists, err := s.client.Exists(ctx, key(collection, id)).Result()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check document")
	}
	if exists == 0 {
		return NotFound(collection, id)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal document")
	}
	if err := s.client.Set(ctx, key(collection, id), raw, 0).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "store document")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, collection, id string) error {
	deleted, err := s.client.Del(ctx, key(collection, id)).Result()
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete document")
	}
	if deleted == 0 {
		return NotFound(collection, id)
	}
	return nil
}
