package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ensemble-club/ensemble/internal/ledger"
)

// MaintenanceScanJob sweeps the ledger for instruments that need attention
// and reports them, so the inventory manager gets a daily worklist.
type MaintenanceScanJob struct {
	ledger *ledger.Service
	logger *slog.Logger
}

// NewMaintenanceScanJob constructs the job.
func NewMaintenanceScanJob(svc *ledger.Service, logger *slog.Logger) *MaintenanceScanJob {
	return &MaintenanceScanJob{ledger: svc, logger: logger}
}

// Handle processes TaskMaintenanceScan tasks.
func (j *MaintenanceScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload MaintenanceScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	conditions := payload.Conditions
	if len(conditions) == 0 {
		conditions = []string{string(ledger.ConditionNeedsRepair), string(ledger.ConditionMaintenanceRequired)}
	}

	total := 0
	for _, condition := range conditions {
		items := j.ledger.ListItems(ctx, ledger.ItemFilter{Condition: ledger.Condition(condition)})
		for _, item := range items {
			attrs := []any{
				slog.String("item_id", item.ID),
				slog.String("code", item.Code),
				slog.String("condition", string(item.Condition)),
			}
			if item.AssigneeID != "" {
				attrs = append(attrs, slog.String("assignee_id", item.AssigneeID))
			}
			if n := len(item.MaintenanceLog); n > 0 {
				attrs = append(attrs, slog.Time("last_logged", item.MaintenanceLog[n-1].At))
			}
			j.logger.Warn("instrument needs attention", attrs...)
		}
		total += len(items)
	}

	j.logger.Info("maintenance scan finished", slog.Int("flagged", total))
	return nil
}
