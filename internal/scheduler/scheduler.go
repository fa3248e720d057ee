// Package scheduler runs periodic team statistics refreshes on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/fast-break/internal/update"
)

// Scheduler manages scheduled team update jobs.
type Scheduler struct {
	cron            *cron.Cron
	engine          *update.Engine
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler backed by the given update engine.
func NewScheduler(engine *update.Engine, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		engine:          engine,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleTeamUpdates schedules a recurring update sweep over the given teams.
// Teams are updated sequentially; a failure on one team does not stop the rest.
func (s *Scheduler) ScheduleTeamUpdates(cronExpression string, teams []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if len(teams) == 0 {
		return fmt.Errorf("no teams to schedule")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		s.logger.WithFields(logrus.Fields{
			"teams": len(teams),
		}).Info("Starting scheduled team update sweep")

		for _, teamID := range teams {
			report, err := s.engine.Update(ctx, teamID)
			if err != nil {
				s.logger.WithError(err).WithField("team_id", teamID).
					Error("Scheduled update failed")
				continue
			}
			s.logger.WithFields(logrus.Fields{
				"team_id":        teamID,
				"games_appended": report.GamesAppended,
				"errors":         len(report.Errors),
			}).Info("Scheduled update completed")
		}
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled team update job")

	return nil
}

// Start starts the scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out waiting for jobs")
	}

	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow triggers an immediate update for a single team outside the cron loop.
func (s *Scheduler) RunNow(ctx context.Context, teamID string) error {
	report, err := s.engine.Update(ctx, teamID)
	if err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"team_id":        teamID,
		"games_appended": report.GamesAppended,
	}).Info("Manual update completed")
	return nil
}
