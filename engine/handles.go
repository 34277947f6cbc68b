package engine

import "sync"

// handleTable mints opaque handles for engine-owned entries. Handles
// start at 1 so the zero value is never a live handle.
type handleTable struct {
	mu      sync.Mutex
	next    uint64
	entries map[uint64]any
}

func newHandleTable() *handleTable {
	return &handleTable{
		entries: make(map[uint64]any),
	}
}

// insert adds an entry and returns its handle.
func (t *handleTable) insert(v any) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.entries[t.next] = v
	return t.next
}

// get retrieves an entry without removing it.
func (t *handleTable) get(h uint64) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[h]
	return v, ok
}

// remove drops an entry and returns it. A handle can be removed at
// most once; the second remove reports false.
func (t *handleTable) remove(h uint64) (any, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.entries[h]
	if ok {
		delete(t.entries, h)
	}
	return v, ok
}

// drain removes and returns every entry.
func (t *handleTable) drain() []any {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]any, 0, len(t.entries))
	for h, v := range t.entries {
		out = append(out, v)
		delete(t.entries, h)
	}
	return out
}

// len returns the number of live entries.
func (t *handleTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
