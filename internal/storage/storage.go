package storage

import (
	"context"
	"errors"
	"time"
)

// ErrDisabled is returned by the noop store when no object storage is
// configured.
var ErrDisabled = errors.New("document storage is not configured")

// DocumentStore holds proof-of-delivery documents attached to dispatched
// order lines.
type DocumentStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type noopStore struct{}

// NewNoopStore returns a DocumentStore that rejects every call. Used when
// storage is disabled and in tests that don't care about documents.
func NewNoopStore() DocumentStore {
	return &noopStore{}
}

func (n *noopStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	return ErrDisabled
}

func (n *noopStore) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "", ErrDisabled
}
