package etl

import (
	"github.com/robfig/cron/v3"
)

// CronEngine abstracts the cron implementation so tests can drive schedules
// manually.
type CronEngine interface {
	AddFunc(spec string, cmd func()) (int, error)
	Start()
	Stop()
}

// RobfigCronEngine adapts robfig/cron/v3 to the CronEngine interface. The
// cron instance supports standard 5-field cron expressions.
type RobfigCronEngine struct {
	c *cron.Cron
}

// NewRobfigCronEngine creates a cron engine using robfig/cron/v3.
func NewRobfigCronEngine() *RobfigCronEngine {
	return &RobfigCronEngine{c: cron.New()}
}

// AddFunc registers cmd on the given schedule.
func (r *RobfigCronEngine) AddFunc(spec string, cmd func()) (int, error) {
	id, err := r.c.AddFunc(spec, cmd)
	return int(id), err
}

// Start begins the cron scheduler in its own goroutine.
func (r *RobfigCronEngine) Start() {
	r.c.Start()
}

// Stop halts the cron scheduler. It does not remove registered entries.
func (r *RobfigCronEngine) Stop() {
	r.c.Stop()
}

// Schedule registers run on engine with the given cron spec and starts the
// engine. The returned stop function halts further runs.
func Schedule(engine CronEngine, spec string, run func()) (stop func(), err error) {
	if _, err := engine.AddFunc(spec, run); err != nil {
		return nil, err
	}
	engine.Start()
	return engine.Stop, nil
}
