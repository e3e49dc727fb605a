// SessionRegistry holds ad-hoc items created mid-session for barcodes the
// ledger does not know. These items have no stock semantics: whatever
// quantity they carry is cosmetic and is never increased or decreased.

package inventory

import (
	"sync"

	"go.uber.org/zap"
)

// SessionRegistry is an ephemeral store of ad-hoc items. It lives for the
// process duration and is never persisted.
type SessionRegistry struct {
	mu    sync.RWMutex
	items map[string]*Item
	log   *zap.Logger
}

func NewSessionRegistry(log *zap.Logger) *SessionRegistry {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionRegistry{items: make(map[string]*Item), log: log}
}

// Add stores an ad-hoc item. Re-adding the same barcode overwrites the
// previous entry with a warning; a repeated unknown scan in one session
// is the same item as far as the cashier is concerned.
func (r *SessionRegistry) Add(item *Item) {
	if item == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.barcode]; ok {
		r.log.Warn("overwriting existing session item", zap.String("barcode", item.barcode))
	}
	r.items[item.barcode] = item
}

// Find looks up an ad-hoc item by barcode.
func (r *SessionRegistry) Find(barcode string) (*Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[barcode]
	return item, ok
}
