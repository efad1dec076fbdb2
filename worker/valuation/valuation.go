package valuation

import (
	"context"
	"encoding/json"
	"time"

	"oracle/core"
	"oracle/worker"

	"github.com/fox-one/pkg/logger"
)

// CheckpointKey holds the time the last valuation round finished
const CheckpointKey = "valuation_checkpoint"

// Checkpoints is satisfied by property.Store
type Checkpoints interface {
	Save(ctx context.Context, key string, value interface{}) error
}

// Worker records the value of the watched accounts on every tick
type Worker struct {
	*worker.BaseJob
	accounts      []string
	oracle        core.IOracleService
	snapshotStore core.IAccountSnapshotStore
	checkpoints   Checkpoints
}

// New new valuation worker
func New(
	cfg core.Worker,
	accounts []string,
	oracle core.IOracleService,
	snapshotStore core.IAccountSnapshotStore,
	checkpoints Checkpoints,
) (*Worker, error) {
	job, err := worker.NewBaseJob(cfg.Schedule, cfg.Location)
	if err != nil {
		return nil, err
	}

	w := &Worker{
		BaseJob:       job,
		accounts:      accounts,
		oracle:        oracle,
		snapshotStore: snapshotStore,
		checkpoints:   checkpoints,
	}
	job.OnWork = w.onWork
	return w, nil
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "valuation")

	for _, account := range w.accounts {
		if err := w.snapshot(ctx, account); err != nil {
			// one failing account does not block the others
			log.WithError(err).Errorln("value account", account)
			continue
		}
	}

	if err := w.checkpoints.Save(ctx, CheckpointKey, time.Now()); err != nil {
		log.WithError(err).Errorln("property.Save", CheckpointKey)
		return err
	}

	return nil
}

func (w *Worker) snapshot(ctx context.Context, account string) error {
	value, err := w.oracle.AccountValue(ctx, account)
	if err != nil {
		return err
	}

	breakdown, err := json.Marshal(value.Breakdown)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Debugf("account %s valued at %s", account, value.TotalValue)

	return w.snapshotStore.Save(ctx, &core.AccountSnapshot{
		Account:    account,
		BaseAsset:  value.TotalValue.Info.Key(),
		TotalValue: value.TotalValue.Amount,
		Breakdown:  breakdown,
	})
}
