package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Worker long running job
type Worker interface {
	Run(ctx context.Context) error
}

// OnWork one tick of a job
type OnWork func(ctx context.Context) error

// BaseJob cron driven job, a tick is skipped while the previous one is still running
type BaseJob struct {
	Cron    *cron.Cron
	OnWork  OnWork
	spec    string
	running int32
}

// NewBaseJob new job running on spec in the given time zone
func NewBaseJob(spec, location string) (*BaseJob, error) {
	l, err := time.LoadLocation(location)
	if err != nil {
		return nil, err
	}

	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, err
	}

	return &BaseJob{
		Cron: cron.New(cron.WithLocation(l)),
		spec: spec,
	}, nil
}

// Run schedule the job and block until ctx is done
func (job *BaseJob) Run(ctx context.Context) error {
	if _, err := job.Cron.AddFunc(job.spec, func() { job.Tick(ctx) }); err != nil {
		return err
	}

	job.Cron.Start()
	<-ctx.Done()
	<-job.Cron.Stop().Done()
	return nil
}

// Tick run the job once unless it is already running
func (job *BaseJob) Tick(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&job.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&job.running, 0)

	if err := job.OnWork(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("job failed")
	}
}
