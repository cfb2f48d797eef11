package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service coordinates ledger operations. Every mutation validates its own
// preconditions and either fully applies or fully rejects; a rejected call
// leaves the store exactly as it was.
type Service struct {
	store *Store
}

// NewService builds Service around the given store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// CreatePool registers a fungible pool with zero assignments.
func (s *Service) CreatePool(ctx context.Context, input CreatePoolInput) (FungiblePool, error) {
	category := strings.TrimSpace(input.Category)
	size := strings.TrimSpace(input.Size)
	if category == "" || size == "" || input.InitialQuantity < 0 {
		return FungiblePool{}, ErrInvalidArgument
	}
	pool := FungiblePool{
		ID:            uuid.NewString(),
		Category:      category,
		Size:          size,
		TotalQuantity: input.InitialQuantity,
		CreatedAt:     time.Now().UTC(),
	}
	s.store.InsertPool(pool)
	return pool, nil
}

// AdjustTotalQuantity changes a pool's owned quantity by delta. The result
// floors at zero; a decrement below the current in-use count is rejected so
// a pool can never become over-committed.
func (s *Service) AdjustTotalQuantity(ctx context.Context, poolID string, delta int) (FungiblePool, error) {
	if strings.TrimSpace(poolID) == "" {
		return FungiblePool{}, ErrInvalidArgument
	}
	return s.store.UpdatePool(poolID, func(pool *FungiblePool) error {
		next := pool.TotalQuantity + delta
		if next < 0 {
			next = 0
		}
		if next < pool.InUse {
			return ErrInsufficientCapacity
		}
		pool.TotalQuantity = next
		return nil
	})
}

// Assign hands quantity units of a pool to an assignee. An assignee holding
// an assignment in the pool already has their quantity increased instead of
// gaining a second record.
func (s *Service) Assign(ctx context.Context, poolID, assigneeID string, quantity int) (FungiblePool, error) {
	assigneeID = strings.TrimSpace(assigneeID)
	if strings.TrimSpace(poolID) == "" || assigneeID == "" || quantity <= 0 {
		return FungiblePool{}, ErrInvalidArgument
	}
	return s.store.UpdatePool(poolID, func(pool *FungiblePool) error {
		if quantity > pool.TotalQuantity-pool.InUse {
			return ErrInsufficientCapacity
		}
		for i := range pool.Assignments {
			if pool.Assignments[i].AssigneeID == assigneeID {
				pool.Assignments[i].Quantity += quantity
				pool.InUse += quantity
				return nil
			}
		}
		pool.Assignments = append(pool.Assignments, Assignment{
			AssigneeID: assigneeID,
			Quantity:   quantity,
			AssignedAt: time.Now().UTC(),
		})
		pool.InUse += quantity
		return nil
	})
}

// Unassign removes the assignee's entire assignment record from a pool.
func (s *Service) Unassign(ctx context.Context, poolID, assigneeID string) (FungiblePool, error) {
	assigneeID = strings.TrimSpace(assigneeID)
	if strings.TrimSpace(poolID) == "" || assigneeID == "" {
		return FungiblePool{}, ErrInvalidArgument
	}
	return s.store.UpdatePool(poolID, func(pool *FungiblePool) error {
		for i := range pool.Assignments {
			if pool.Assignments[i].AssigneeID != assigneeID {
				continue
			}
			pool.InUse -= pool.Assignments[i].Quantity
			pool.Assignments = append(pool.Assignments[:i], pool.Assignments[i+1:]...)
			return nil
		}
		return ErrNotFound
	})
}

// GetPool returns one pool snapshot.
func (s *Service) GetPool(ctx context.Context, poolID string) (FungiblePool, error) {
	return s.store.GetPool(poolID)
}

// ListPools returns all pool snapshots in creation order.
func (s *Service) ListPools(ctx context.Context) []FungiblePool {
	return s.store.ListPools()
}

// CreateItem registers a discrete item in good condition with no assignee
// and an empty maintenance log.
func (s *Service) CreateItem(ctx context.Context, input CreateItemInput) (DiscreteItem, error) {
	name := strings.TrimSpace(input.Name)
	itemType := strings.TrimSpace(input.Type)
	code := strings.TrimSpace(input.Code)
	if name == "" || itemType == "" || code == "" {
		return DiscreteItem{}, ErrInvalidArgument
	}
	item := DiscreteItem{
		ID:        uuid.NewString(),
		Name:      name,
		Type:      itemType,
		Code:      code,
		Condition: ConditionGood,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.InsertItem(item); err != nil {
		return DiscreteItem{}, err
	}
	return item, nil
}

// SetCondition transitions an item to the new condition and appends a
// maintenance log entry. Any state is reachable from any other.
func (s *Service) SetCondition(ctx context.Context, itemID string, condition Condition, note string) (DiscreteItem, error) {
	if strings.TrimSpace(itemID) == "" || !condition.Valid() {
		return DiscreteItem{}, ErrInvalidArgument
	}
	return s.store.UpdateItem(itemID, func(item *DiscreteItem) error {
		item.Condition = condition
		item.MaintenanceLog = append(item.MaintenanceLog, MaintenanceLogEntry{
			At:   time.Now().UTC(),
			Note: note,
		})
		return nil
	})
}

// AssignItem hands an item to an assignee. Reassigning the current assignee
// is a no-op success; an item held by someone else is rejected.
func (s *Service) AssignItem(ctx context.Context, itemID, assigneeID string) (DiscreteItem, error) {
	assigneeID = strings.TrimSpace(assigneeID)
	if strings.TrimSpace(itemID) == "" || assigneeID == "" {
		return DiscreteItem{}, ErrInvalidArgument
	}
	return s.store.UpdateItem(itemID, func(item *DiscreteItem) error {
		if item.AssigneeID == assigneeID {
			return nil
		}
		if item.AssigneeID != "" {
			return ErrAlreadyAssigned
		}
		item.AssigneeID = assigneeID
		return nil
	})
}

// UnassignItem clears the item's assignee.
func (s *Service) UnassignItem(ctx context.Context, itemID string) (DiscreteItem, error) {
	if strings.TrimSpace(itemID) == "" {
		return DiscreteItem{}, ErrInvalidArgument
	}
	return s.store.UpdateItem(itemID, func(item *DiscreteItem) error {
		if item.AssigneeID == "" {
			return ErrNotFound
		}
		item.AssigneeID = ""
		return nil
	})
}

// GetItem returns one item snapshot.
func (s *Service) GetItem(ctx context.Context, itemID string) (DiscreteItem, error) {
	return s.store.GetItem(itemID)
}

// ListItems returns item snapshots matching the filter, in creation order.
func (s *Service) ListItems(ctx context.Context, filter ItemFilter) []DiscreteItem {
	items := s.store.ListItems()
	if filter.Condition == "" && filter.Type == "" {
		return items
	}
	filtered := items[:0]
	for _, item := range items {
		if filter.Condition != "" && item.Condition != filter.Condition {
			continue
		}
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}
