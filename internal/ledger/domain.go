// Package ledger tracks the club's physical inventory: fungible pools of
// interchangeable units (uniform pieces) and discrete single-owner items
// (instruments), with capacity and assignment accounting.
package ledger

import (
	"errors"
	"time"
)

// Condition enumerates instrument maintenance states. Transitions are
// unrestricted; any state may follow any other.
type Condition string

const (
	ConditionGood                Condition = "good"
	ConditionNeedsRepair         Condition = "needs-repair"
	ConditionMaintenanceRequired Condition = "maintenance-required"
)

// Valid reports whether c is one of the known condition states.
func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionNeedsRepair, ConditionMaintenanceRequired:
		return true
	}
	return false
}

// Assignment links an assignee to a quantity of a fungible pool. At most one
// assignment per assignee exists in a pool.
type Assignment struct {
	AssigneeID string    `json:"assignee_id"`
	Quantity   int       `json:"quantity"`
	AssignedAt time.Time `json:"assigned_at"`
}

// FungiblePool is one category/size combination of a quantity-tracked
// resource, e.g. "Uniform - Jacket" size M.
//
// Invariant: InUse equals the sum of assignment quantities and never exceeds
// TotalQuantity.
type FungiblePool struct {
	ID            string       `json:"id"`
	Category      string       `json:"category"`
	Size          string       `json:"size"`
	TotalQuantity int          `json:"total_quantity"`
	InUse         int          `json:"in_use"`
	Assignments   []Assignment `json:"assignments"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Available returns the quantity not currently assigned.
func (p FungiblePool) Available() int {
	return p.TotalQuantity - p.InUse
}

// MaintenanceLogEntry records one condition change of a discrete item.
type MaintenanceLogEntry struct {
	At   time.Time `json:"at"`
	Note string    `json:"note"`
}

// DiscreteItem is one physically unique resource with a maintenance state
// and at most one assignee at any time.
type DiscreteItem struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Type           string                `json:"type"`
	Code           string                `json:"code"`
	Condition      Condition             `json:"condition"`
	AssigneeID     string                `json:"assignee_id,omitempty"`
	MaintenanceLog []MaintenanceLogEntry `json:"maintenance_log"`
	CreatedAt      time.Time             `json:"created_at"`
}

// CreatePoolInput describes a new fungible pool.
type CreatePoolInput struct {
	Category        string
	Size            string
	InitialQuantity int
}

// CreateItemInput describes a new discrete item.
type CreateItemInput struct {
	Name string
	Type string
	Code string
}

// ItemFilter narrows ListItems results.
type ItemFilter struct {
	Condition Condition
	Type      string
}

// ErrNotFound indicates the referenced pool, item, or assignment record does
// not exist.
var ErrNotFound = errors.New("ledger: not found")

// ErrInsufficientCapacity indicates an operation would push a pool's in-use
// count above its total quantity.
var ErrInsufficientCapacity = errors.New("ledger: insufficient capacity")

// ErrAlreadyAssigned indicates a discrete item already has a different assignee.
var ErrAlreadyAssigned = errors.New("ledger: item already assigned")

// ErrInvalidArgument indicates malformed input such as a non-positive
// quantity or an empty identifier.
var ErrInvalidArgument = errors.New("ledger: invalid argument")

// ErrDuplicateCode indicates another item already carries the unique code.
var ErrDuplicateCode = errors.New("ledger: duplicate item code")
