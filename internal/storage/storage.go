// Package storage provides the durable key/value backends that hold the
// marketplace snapshots. Each key stores one self-describing JSON document.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Stable keys of the persisted documents
const (
	KeySession  = "auction_user"
	KeyAccounts = "auction_users"
	KeyProducts = "auction_products"
	KeyBids     = "auction_bids"
	KeyOrders   = "auction_orders"
)

// ErrKeyNotFound is returned when no document is stored under a key
var ErrKeyNotFound = errors.New("key not found")

// Backend is a durable key/value store of raw documents
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Remove(ctx context.Context, key string) error
}

// LoadJSON decodes the document under key into v.
// It reports false without error when the key is absent.
func LoadJSON(ctx context.Context, b Backend, key string, v any) (bool, error) {
	data, err := b.Load(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage: load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON encodes v and stores it under key
func SaveJSON(ctx context.Context, b Backend, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}
	if err := b.Save(ctx, key, data); err != nil {
		return fmt.Errorf("storage: save %s: %w", key, err)
	}
	return nil
}
