package storemanager

import (
	"context"
	"time"

	"oracle/core"
	"oracle/worker"
)

const spec = "@every 600s"

// Worker store manager worker
type Worker struct {
	*worker.BaseJob
	retention     int
	snapshotStore core.IAccountSnapshotStore
}

// New new store manager worker
func New(cfg core.Worker, snapshotStore core.IAccountSnapshotStore) (*Worker, error) {
	job, err := worker.NewBaseJob(spec, cfg.Location)
	if err != nil {
		return nil, err
	}

	w := &Worker{
		BaseJob:       job,
		retention:     cfg.Retention,
		snapshotStore: snapshotStore,
	}
	job.OnWork = w.onWork
	return w, nil
}

func (w *Worker) onWork(ctx context.Context) error {
	checkPoint := time.Now().AddDate(0, 0, -w.retention)
	return w.snapshotStore.DeleteByTime(ctx, checkPoint)
}
