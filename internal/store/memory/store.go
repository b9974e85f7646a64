// Package memory implements store.Store in a process-local map, so unit
// tests can exercise the reservation core's concurrency invariants without a
// database, per the spec's call for a constructor-injected Store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/holdline/ticketcore/internal/store"
)

type key struct{ pk, sk string }

// Store is a single mutex-guarded map. Every method takes the same lock, so
// TransactWrite is trivially linearizable with respect to any other call:
// the simplest possible instance of the contract, useful as a ground truth
// for tests.
type Store struct {
	mu    sync.Mutex
	items map[key]map[string]any
}

func New() *Store {
	return &Store{items: make(map[key]map[string]any)}
}

func clone(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func (s *Store) Get(_ context.Context, pk, sk string) (*store.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(pk, sk)
}

func (s *Store) getLocked(pk, sk string) (*store.Item, error) {
	attrs, ok := s.items[key{pk, sk}]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &store.Item{PK: pk, SK: sk, Attrs: clone(attrs)}, nil
}

func (s *Store) Put(_ context.Context, pk, sk string, attrs map[string]any, cond store.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, _ := s.getLocked(pk, sk)
	if cond != nil && !cond(cur) {
		return store.ErrConditionFailed
	}
	s.items[key{pk, sk}] = clone(attrs)
	return nil
}

func (s *Store) Query(_ context.Context, pk string, skPrefix string) ([]store.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.Item
	for k, attrs := range s.items {
		if k.pk != pk {
			continue
		}
		if skPrefix != "" && !hasPrefix(k.sk, skPrefix) {
			continue
		}
		out = append(out, store.Item{PK: k.pk, SK: k.sk, Attrs: clone(attrs)})
	}
	return out, nil
}

func (s *Store) Scan(_ context.Context, filter func(store.Item) bool) ([]store.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []store.Item
	for k, attrs := range s.items {
		item := store.Item{PK: k.pk, SK: k.sk, Attrs: clone(attrs)}
		if filter(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Store) UpdateConditional(_ context.Context, pk, sk string, mutate func(map[string]any), cond store.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, _ := s.getLocked(pk, sk)
	if cond != nil && !cond(cur) {
		return store.ErrConditionFailed
	}
	if cur == nil {
		return store.ErrNotFound
	}
	attrs := clone(cur.Attrs)
	mutate(attrs)
	s.items[key{pk, sk}] = attrs
	return nil
}

func (s *Store) TransactWrite(_ context.Context, ops []store.Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, op := range ops {
		cur, _ := s.getLocked(op.PK, op.SK)
		if op.Condition != nil && !op.Condition(cur) {
			return fmt.Errorf("%w: %s/%s", store.ErrTransactionCancelled, op.PK, op.SK)
		}
		if op.Kind == store.OpUpdate && cur == nil {
			return fmt.Errorf("%w: %s/%s not found", store.ErrTransactionCancelled, op.PK, op.SK)
		}
	}

	// All conditions held; apply every op. Predicates were already
	// re-checked above under the same critical section, so this cannot
	// fail partway through.
	for _, op := range ops {
		k := key{op.PK, op.SK}
		switch op.Kind {
		case store.OpPut:
			s.items[k] = clone(op.Item)
		case store.OpUpdate:
			attrs := clone(s.items[k])
			op.Mutate(attrs)
			s.items[k] = attrs
		case store.OpDelete:
			delete(s.items, k)
		}
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
