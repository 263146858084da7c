package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Store defines the persistence surface required by the cart service.
// Implementations are keyed by customer; every customer sees only their
// own lines.
type Store interface {
	List(ctx context.Context, customerID uuid.UUID) ([]LineItem, error)
	Get(ctx context.Context, customerID uuid.UUID, productID string) (*LineItem, error)
	Upsert(ctx context.Context, customerID uuid.UUID, item LineItem) error
	Delete(ctx context.Context, customerID uuid.UUID, productID string) error
	ReplaceAll(ctx context.Context, customerID uuid.UUID, items []LineItem) error
}

// MemoryStore keeps carts in process memory. Used in tests and as a
// fallback when no database is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID]map[string]LineItem
	order map[uuid.UUID][]string
}

// NewMemoryStore builds an empty in-memory cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: map[uuid.UUID]map[string]LineItem{},
		order: map[uuid.UUID][]string{},
	}
}

func (s *MemoryStore) List(ctx context.Context, customerID uuid.UUID) ([]LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.carts[customerID]
	items := make([]LineItem, 0, len(lines))
	for _, productID := range s.order[customerID] {
		if item, ok := lines[productID]; ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (s *MemoryStore) Get(ctx context.Context, customerID uuid.UUID, productID string) (*LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.carts[customerID][productID]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, customerID uuid.UUID, item LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.carts[customerID] == nil {
		s.carts[customerID] = map[string]LineItem{}
	}
	if _, exists := s.carts[customerID][item.ProductID]; !exists {
		s.order[customerID] = append(s.order[customerID], item.ProductID)
	}
	s.carts[customerID][item.ProductID] = item
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, customerID uuid.UUID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts[customerID], productID)
	kept := s.order[customerID][:0]
	for _, id := range s.order[customerID] {
		if id != productID {
			kept = append(kept, id)
		}
	}
	s.order[customerID] = kept
	return nil
}

func (s *MemoryStore) ReplaceAll(ctx context.Context, customerID uuid.UUID, items []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make(map[string]LineItem, len(items))
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, exists := lines[item.ProductID]; !exists {
			order = append(order, item.ProductID)
		}
		lines[item.ProductID] = item
	}
	s.carts[customerID] = lines
	s.order[customerID] = order
	return nil
}
