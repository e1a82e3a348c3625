package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"aiview/internal/ports"
)

// CronScheduler triggers the ingest pipeline on a fixed cron expression.
type CronScheduler struct {
	cron *cron.Cron
	spec string
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// New builds a scheduler configured via cron expression string, evaluated in
// the provided location.
func New(spec string, loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{
		cron: cron.New(cron.WithLocation(loc)),
		spec: spec,
	}
}

// Start registers the job and begins the cron loop in its own goroutine.
func (c *CronScheduler) Start(job func()) error {
	if _, err := c.cron.AddFunc(c.spec, job); err != nil {
		return err
	}
	c.cron.Start()
	return nil
}

// Stop halts the cron loop; a running job finishes on its own.
func (c *CronScheduler) Stop() {
	c.cron.Stop()
}
