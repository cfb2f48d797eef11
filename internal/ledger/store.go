package ledger

import "sync"

// Store owns the in-memory resource records. Each pool or item is an
// independently lockable unit: a mutation holds that resource's lock for its
// whole check-and-write sequence, so operations on different resources never
// contend. The outer lock only guards the maps themselves.
type Store struct {
	mu        sync.RWMutex
	pools     map[string]*poolEntry
	poolOrder []string
	items     map[string]*itemEntry
	itemOrder []string
	codes     map[string]string
}

type poolEntry struct {
	mu   sync.Mutex
	pool FungiblePool
}

type itemEntry struct {
	mu   sync.Mutex
	item DiscreteItem
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		pools: make(map[string]*poolEntry),
		items: make(map[string]*itemEntry),
		codes: make(map[string]string),
	}
}

// InsertPool registers a new pool record.
func (s *Store) InsertPool(pool FungiblePool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools[pool.ID] = &poolEntry{pool: clonePool(pool)}
	s.poolOrder = append(s.poolOrder, pool.ID)
}

// InsertItem registers a new item record. The item's code must be unique
// across the store.
func (s *Store) InsertItem(item DiscreteItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.codes[item.Code]; taken {
		return ErrDuplicateCode
	}
	s.items[item.ID] = &itemEntry{item: cloneItem(item)}
	s.itemOrder = append(s.itemOrder, item.ID)
	s.codes[item.Code] = item.ID
	return nil
}

// UpdatePool runs fn against a copy of the pool under the pool's lock. When
// fn succeeds the copy replaces the stored record and its snapshot is
// returned; when fn fails the stored record is untouched.
func (s *Store) UpdatePool(id string, fn func(*FungiblePool) error) (FungiblePool, error) {
	entry, err := s.poolEntry(id)
	if err != nil {
		return FungiblePool{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	next := clonePool(entry.pool)
	if err := fn(&next); err != nil {
		return FungiblePool{}, err
	}
	entry.pool = next
	return clonePool(next), nil
}

// UpdateItem is the item counterpart of UpdatePool.
func (s *Store) UpdateItem(id string, fn func(*DiscreteItem) error) (DiscreteItem, error) {
	entry, err := s.itemEntry(id)
	if err != nil {
		return DiscreteItem{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	next := cloneItem(entry.item)
	if err := fn(&next); err != nil {
		return DiscreteItem{}, err
	}
	entry.item = next
	return cloneItem(next), nil
}

// GetPool returns a snapshot of one pool.
func (s *Store) GetPool(id string) (FungiblePool, error) {
	entry, err := s.poolEntry(id)
	if err != nil {
		return FungiblePool{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return clonePool(entry.pool), nil
}

// GetItem returns a snapshot of one item.
func (s *Store) GetItem(id string) (DiscreteItem, error) {
	entry, err := s.itemEntry(id)
	if err != nil {
		return DiscreteItem{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return cloneItem(entry.item), nil
}

// ListPools returns snapshots of all pools in creation order.
func (s *Store) ListPools() []FungiblePool {
	s.mu.RLock()
	entries := make([]*poolEntry, 0, len(s.poolOrder))
	for _, id := range s.poolOrder {
		entries = append(entries, s.pools[id])
	}
	s.mu.RUnlock()

	pools := make([]FungiblePool, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		pools = append(pools, clonePool(entry.pool))
		entry.mu.Unlock()
	}
	return pools
}

// ListItems returns snapshots of all items in creation order.
func (s *Store) ListItems() []DiscreteItem {
	s.mu.RLock()
	entries := make([]*itemEntry, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		entries = append(entries, s.items[id])
	}
	s.mu.RUnlock()

	items := make([]DiscreteItem, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		items = append(items, cloneItem(entry.item))
		entry.mu.Unlock()
	}
	return items
}

func (s *Store) poolEntry(id string) (*poolEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.pools[id]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}

func (s *Store) itemEntry(id string) (*itemEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return entry, nil
}

func clonePool(p FungiblePool) FungiblePool {
	out := p
	out.Assignments = make([]Assignment, len(p.Assignments))
	copy(out.Assignments, p.Assignments)
	return out
}

func cloneItem(i DiscreteItem) DiscreteItem {
	out := i
	out.MaintenanceLog = make([]MaintenanceLogEntry, len(i.MaintenanceLog))
	copy(out.MaintenanceLog, i.MaintenanceLog)
	return out
}
