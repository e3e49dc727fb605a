/*
archive.go - Append-only receipt storage

PURPOSE:
  Receipts are archived exactly once, keyed by id, and never deleted or
  modified within a session. The interface exists so the server
  deployment can journal receipts to SQLite while the core engine and
  tests run against the in-memory archive.

APPEND-ONLY CONTRACT:
  - Append(): the ONLY write operation; duplicate ids are rejected
  - No Update() or Delete() methods exist

IMPLEMENTATIONS:
  - MemoryArchive (this file): process-scoped map
  - store/sqlite: durable receipt journal for the server

SEE ALSO:
  - orchestrator.go: The only producer of receipts
*/
package transaction

import (
	"context"
	"sync"
)

// Archive stores completed receipts. Append-only.
type Archive interface {
	// Append stores a receipt. Fails with ErrDuplicateReceiptID if the id
	// already exists. This is the only write operation.
	Append(ctx context.Context, r *Receipt) error

	// Find returns the receipt with the given id, or (nil, nil) when absent.
	Find(ctx context.Context, id string) (*Receipt, error)
}

// =============================================================================
// MEMORY ARCHIVE - Process-scoped implementation
// =============================================================================

// MemoryArchive keeps receipts in a process-scoped map. Receipts are
// immutable, so Find can hand out the stored pointer directly.
type MemoryArchive struct {
	mu       sync.RWMutex
	receipts map[string]*Receipt
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{receipts: make(map[string]*Receipt)}
}

func (a *MemoryArchive) Append(_ context.Context, r *Receipt) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.receipts[r.ID()]; ok {
		return ErrDuplicateReceiptID
	}
	a.receipts[r.ID()] = r
	return nil
}

func (a *MemoryArchive) Find(_ context.Context, id string) (*Receipt, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.receipts[id], nil
}

// Len reports how many receipts have been archived.
func (a *MemoryArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.receipts)
}
