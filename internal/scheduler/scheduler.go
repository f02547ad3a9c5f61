// Package scheduler runs the organizer's recurring jobs.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/normanking/nextup/internal/gtd"
	"github.com/normanking/nextup/internal/storage"
)

// Scheduler manages cron jobs over the organizer store.
type Scheduler struct {
	cron   *cron.Cron
	store  storage.Store
	logger *slog.Logger
}

// New creates a scheduler with the nightly digest job registered on the
// given cron expression.
func New(store storage.Store, schedule string, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:   cron.New(),
		store:  store,
		logger: logger,
	}
	if _, err := s.cron.AddFunc(schedule, s.runDigest); err != nil {
		return nil, err
	}
	return s, nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// runDigest logs a snapshot of the system: open tasks per category, active
// projects, and goal counts. It is a log-only report; nothing is mutated.
func (s *Scheduler) runDigest() {
	ctx := context.Background()

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.logger.Error("digest: failed to list tasks", "error", err)
		return
	}
	open := map[gtd.Category]int{}
	completed := 0
	for _, task := range tasks {
		if task.Completed {
			completed++
			continue
		}
		open[task.Category]++
	}

	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		s.logger.Error("digest: failed to list projects", "error", err)
		return
	}
	active := 0
	for _, p := range projects {
		if p.Status == gtd.StatusActive {
			active++
		}
	}

	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		s.logger.Error("digest: failed to list goals", "error", err)
		return
	}

	args := []any{
		"open_tasks", len(tasks) - completed,
		"completed_tasks", completed,
		"active_projects", active,
		"total_projects", len(projects),
		"goals", len(goals),
	}
	for cat, n := range open {
		args = append(args, "open_"+string(cat), n)
	}
	s.logger.Info("nightly digest", args...)
}
