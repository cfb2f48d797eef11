package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/ensemble-club/ensemble/internal/ledger"
)

func TestMaintenanceScanHandlesFlaggedItems(t *testing.T) {
	ctx := context.Background()
	svc := ledger.NewService(ledger.NewStore())

	piano, err := svc.CreateItem(ctx, ledger.CreateItemInput{Name: "Piano - Grand", Type: "Piano", Code: "PNO-001"})
	require.NoError(t, err)
	_, err = svc.SetCondition(ctx, piano.ID, ledger.ConditionNeedsRepair, "string broke")
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, ledger.CreateItemInput{Name: "Acoustic Guitar", Type: "Guitar", Code: "GTR-001"})
	require.NoError(t, err)

	job := NewMaintenanceScanJob(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	task, err := NewMaintenanceScanTask(MaintenanceScanPayload{})
	require.NoError(t, err)
	require.NoError(t, job.Handle(ctx, task))

	task, err = NewMaintenanceScanTask(MaintenanceScanPayload{Conditions: []string{string(ledger.ConditionMaintenanceRequired)}})
	require.NoError(t, err)
	require.NoError(t, job.Handle(ctx, task))
}

func TestMaintenanceScanSkipsMalformedPayload(t *testing.T) {
	svc := ledger.NewService(ledger.NewStore())
	job := NewMaintenanceScanJob(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	task := asynq.NewTask(TaskMaintenanceScan, []byte("{"))
	err := job.Handle(context.Background(), task)
	require.ErrorIs(t, err, asynq.SkipRetry)
}
