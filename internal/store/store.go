// Package store persists finalized interviews: a local JSON archive that is
// always written, plus an optional external record store.
package store

import "context"

// Store is an external record store.
type Store interface {
	Insert(ctx context.Context, id string, fields map[string]any) error
	Ping(ctx context.Context) error
	Close() error
}

// Nop discards every record.
type Nop struct{}

func (Nop) Insert(context.Context, string, map[string]any) error {
	return nil
}

func (Nop) Ping(context.Context) error {
	return nil
}

func (Nop) Close() error {
	return nil
}
