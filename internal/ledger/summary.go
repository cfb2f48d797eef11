package ledger

import "context"

// Summary aggregates inventory counts for the dashboard cards.
type Summary struct {
	TotalQuantity int               `json:"total_quantity"`
	InUse         int               `json:"in_use"`
	Available     int               `json:"available"`
	PoolCount     int               `json:"pool_count"`
	ItemCount     int               `json:"item_count"`
	ItemsAssigned int               `json:"items_assigned"`
	ByCondition   map[Condition]int `json:"by_condition"`
}

// Summarize walks every pool and item and totals their counters. Each
// resource is snapshotted under its own lock, so the figures are consistent
// per resource but the walk itself is not a cross-resource transaction.
func (s *Service) Summarize(ctx context.Context) Summary {
	summary := Summary{ByCondition: map[Condition]int{
		ConditionGood:                0,
		ConditionNeedsRepair:         0,
		ConditionMaintenanceRequired: 0,
	}}
	for _, pool := range s.store.ListPools() {
		summary.PoolCount++
		summary.TotalQuantity += pool.TotalQuantity
		summary.InUse += pool.InUse
	}
	summary.Available = summary.TotalQuantity - summary.InUse
	for _, item := range s.store.ListItems() {
		summary.ItemCount++
		summary.ByCondition[item.Condition]++
		if item.AssigneeID != "" {
			summary.ItemsAssigned++
		}
	}
	return summary
}
