// Package kvstore provides the record store backends for bizdev entities.
// Records are opaque serialized values grouped into flat named collections;
// there are no transactions and no secondary indexes.
package kvstore

import (
	"context"
	"errors"
)

// Collection names used by the services.
const (
	CollectionJourneys      = "journeys"
	CollectionSteps         = "steps"
	CollectionConversations = "conversations"
)

// ErrNotFound is returned by Get when no record exists for the id.
var ErrNotFound = errors.New("record not found")

// Store is the record store contract. Values round-trip as written;
// querying is ListAll plus filtering in the caller.
type Store interface {
	Put(ctx context.Context, collection, id string, value []byte) error
	Get(ctx context.Context, collection, id string) ([]byte, error)
	Delete(ctx context.Context, collection, id string) (bool, error)
	ListAll(ctx context.Context, collection string) ([][]byte, error)
	Ping(ctx context.Context) error
	Close() error
}
