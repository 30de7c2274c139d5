// Package scheduler runs periodic portfolio refreshes over the tracked
// holdings and fans the results out to the recorder and notifier.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"PortfolioSentinel/internal/engine"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/notifier"
	"PortfolioSentinel/internal/recorder"
)

// Scheduler manages the cron-driven refresh cycle.
type Scheduler struct {
	Cron     *cron.Cron
	Engine   *engine.Engine
	Holdings []model.Holding
	Notifier *notifier.TelegramNotifier
	Recorder recorder.Recorder
	Ctx      context.Context

	log zerolog.Logger
}

// NewScheduler creates a scheduler over the tracked holdings. The notifier
// may be nil when Telegram is not configured.
func NewScheduler(ctx context.Context, eng *engine.Engine, holdings []model.Holding, tn *notifier.TelegramNotifier, rec recorder.Recorder, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Engine:   eng,
		Holdings: holdings,
		Notifier: tn,
		Recorder: rec,
		Ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the refresh task under the given cron expression.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the refresh task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	if len(s.Holdings) == 0 {
		s.log.Debug().Msg("no tracked holdings, skipping refresh")
		return
	}

	s.log.Info().Int("holdings", len(s.Holdings)).Msg("running scheduled refresh")
	report := s.Engine.Refresh(s.Ctx, s.Holdings)

	if err := s.Recorder.RecordSnapshot(report); err != nil {
		s.log.Error().Err(err).Msg("record snapshot")
	}

	s.trySend(notifier.FormatRefreshDigest(report))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/refresh":
		s.refreshTask()
		return ""
	case "/status":
		report := s.Engine.Last()
		if report == nil {
			return "No refresh has run yet. Send /refresh to trigger one."
		}
		return notifier.FormatRefreshDigest(report)
	default:
		return "Available commands:\n• /refresh\n• /status"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
