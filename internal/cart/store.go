// Package cart holds the ordered list of cart lines for one shopper.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/notify"
)

// DefaultSnapshotKey is the key the cart snapshot is stored under
const DefaultSnapshotKey = "cart"

const snapshotTimeout = time.Second

// ErrCacheMiss is returned by a SnapshotStore when no snapshot exists for a key
var ErrCacheMiss = errors.New("cache miss")

// SnapshotStore is the durable key/value mirror of the cart
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]domain.CartItem, error)
	Save(ctx context.Context, key string, items []domain.CartItem) error
}

// Store is the single source of truth for the cart lines of one shopper.
// Every mutation that changes the list is mirrored to the SnapshotStore.
type Store struct {
	mu        sync.RWMutex
	items     []domain.CartItem
	key       string
	snapshots SnapshotStore
	notifier  notify.Notifier
	logger    *zap.Logger
}

// NewStore creates an empty cart. Call Hydrate to restore a saved snapshot.
func NewStore(key string, snapshots SnapshotStore, notifier notify.Notifier, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultSnapshotKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		key:       key,
		snapshots: snapshots,
		notifier:  notifier,
		logger:    logger,
	}
}

// Key is the snapshot key of this cart
func (s *Store) Key() string {
	return s.key
}

// Hydrate replaces the cart with the saved snapshot. A missing snapshot leaves the cart empty.
func (s *Store) Hydrate(ctx context.Context) error {
	items, err := s.snapshots.Load(ctx, s.key)
	if errors.Is(err, ErrCacheMiss) {
		s.replace(nil)
		return nil
	}
	if err != nil {
		s.replace(nil)
		return fmt.Errorf("hydrate cart %s: %w", s.key, err)
	}

	normalized := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if item.Price < 0 {
			item.Price = 0
		}
		normalized = append(normalized, item)
	}
	s.replace(normalized)
	return nil
}

// Items returns a snapshot of the cart lines in order
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneItems(s.items)
}

// Len is the number of lines in the cart
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Add appends a line, or raises the quantity of the line with the same id
func (s *Store) Add(in domain.CartItemInput) domain.CartItem {
	item := in.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.ID); i >= 0 {
		s.items[i].Quantity = s.items[i].EffectiveQuantity() + item.Quantity
		item = s.items[i]
	} else {
		s.items = append(s.items, item)
	}
	s.persistLocked()
	return item
}

// Remove deletes the line with the given id. It reports whether a line was removed;
// the confirmation toast is sent either way.
func (s *Store) Remove(ctx context.Context, id string) bool {
	removed := s.remove(id)
	s.notifier.Success(ctx, "Item removed from cart")
	return removed
}

// Increment raises the quantity of the line with the given id by one
func (s *Store) Increment(id string) (domain.CartItem, bool) {
	return s.adjust(id, 1)
}

// Decrement lowers the quantity of the line with the given id by one.
// A line at quantity 1 is left unchanged.
func (s *Store) Decrement(id string) (domain.CartItem, bool) {
	return s.adjust(id, -1)
}

// Clear empties the cart
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persistLocked()
}

func (s *Store) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persistLocked()
	return true
}

func (s *Store) adjust(id string, delta int) (domain.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.CartItem{}, false
	}

	qty := s.items[i].EffectiveQuantity() + delta
	if qty < 1 {
		return s.items[i], true
	}
	s.items[i].Quantity = qty
	s.persistLocked()
	return s.items[i], true
}

func (s *Store) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) replace(items []domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// persistLocked mirrors the current list; failures are logged, never returned.
// Callers hold mu so snapshots are written in mutation order.
func (s *Store) persistLocked() {
	items := domain.CloneItems(s.items)

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	if err := s.snapshots.Save(ctx, s.key, items); err != nil {
		s.logger.Warn("Failed to persist cart snapshot",
			zap.String("key", s.key),
			zap.Error(err),
		)
	}
}
