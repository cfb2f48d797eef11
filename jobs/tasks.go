// Package jobs runs background work through Asynq.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMaintenanceScan is the task type for the instrument maintenance sweep.
	TaskMaintenanceScan = "inventory:maintenance_scan"
)

// MaintenanceScanPayload selects which conditions the sweep reports on.
type MaintenanceScanPayload struct {
	Conditions []string `json:"conditions"`
}

// NewMaintenanceScanTask constructs an Asynq task for the maintenance sweep.
func NewMaintenanceScanTask(payload MaintenanceScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMaintenanceScan, data), nil
}
