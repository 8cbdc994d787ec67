package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/common"
	"github.com/ternarybob/respondeo/internal/interfaces"
)

// Service runs the scheduled ingestion trigger. A single cron entry; the
// trigger itself is fire-and-forget against the managed service.
type Service struct {
	ingestion interfaces.IngestionService
	schedule  string
	enabled   bool
	cron      *cron.Cron
	logger    arbor.ILogger

	mu      sync.Mutex
	running bool
	entryID cron.EntryID
	lastRun *time.Time
}

// NewService creates the ingestion scheduler
func NewService(ingestion interfaces.IngestionService, config *common.Config, logger arbor.ILogger) interfaces.SchedulerService {
	return &Service{
		ingestion: ingestion,
		schedule:  config.Ingestion.Schedule,
		enabled:   config.Ingestion.Enabled,
		cron:      cron.New(),
		logger:    logger,
	}
}

// Start registers the cron entry and begins the scheduler. No-op when
// scheduled ingestion is disabled.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		s.logger.Info().Msg("Scheduled ingestion disabled")
		return nil
	}
	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runIngestion)
	if err != nil {
		return fmt.Errorf("invalid ingestion schedule %q: %w", s.schedule, err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.running = true

	s.logger.Info().Str("schedule", s.schedule).Msg("Ingestion scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running trigger to finish
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running = false

	s.logger.Info().Msg("Ingestion scheduler stopped")
	return nil
}

// Status returns the current schedule state
func (s *Service) Status() interfaces.ScheduleStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := interfaces.ScheduleStatus{
		Enabled:  s.enabled,
		Schedule: s.schedule,
		LastRun:  s.lastRun,
	}

	if s.running {
		next := s.cron.Entry(s.entryID).Next
		if !next.IsZero() {
			status.NextRun = &next
		}
	}

	return status
}

func (s *Service) runIngestion() {
	now := time.Now()
	s.mu.Lock()
	s.lastRun = &now
	s.mu.Unlock()

	if _, err := s.ingestion.Trigger(context.Background()); err != nil {
		s.logger.Warn().Err(err).Msg("Scheduled ingestion trigger failed")
	}
}
