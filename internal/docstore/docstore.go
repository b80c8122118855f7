// Package docstore provides schemaless document persistence for consent
// artifacts. Documents are JSON objects grouped into named collections;
// collections are created lazily on first write.
package docstore

import (
	"context"
	"fmt"

	dErrors "cm-gateway/pkg/domain-errors"
)

// Document is a schemaless JSON object.
type Document = map[string]any

// IDField is the document field holding the store-assigned identifier.
const IDField = "docID"

// Store persists documents in named collections.
type Store interface {
	// Put stores a document and returns its identifier. A document carrying a
	// non-empty IDField keeps that identifier; otherwise a fresh one is
	// generated. Either way the stored document embeds its identifier.
	Put(ctx context.Context, collection string, doc Document) (string, error)
	// Get retrieves a document by identifier.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Query returns all documents in the collection whose fields match every
	// entry of selector. An empty selector matches everything. A collection
	// that does not exist yet yields an empty result, not an error.
	Query(ctx context.Context, collection string, selector map[string]any) ([]Document, error)
	// Replace overwrites an existing document.
	Replace(ctx context.Context, collection, id string, doc Document) error
	// Delete removes a document by identifier.
	Delete(ctx context.Context, collection, id string) error
}

// NotFound builds the store-level not-found error for a document.
func NotFound(collection, id string) error {
	return dErrors.New(dErrors.CodeNotFound,
		fmt.Sprintf("document with id %s not found in database %s", id, collection))
}

// matches reports whether every selector entry equals the corresponding
// document field. Values are compared through fmt.Sprintf since documents
// round-trip through JSON and may hold differing scalar types.
func matches(doc Document, selector map[string]any) bool {
	for key, want := range selector {
		got, ok := doc[key]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != fmt.Sprintf("%v", want) {
			return false
		}
	}
	return true
}
