package service

import (
	"context"
	"fmt"
	"portfolio-dashboard/config"
	"portfolio-dashboard/pkg/logger"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService refreshes the demo portfolio prices on the
// scheduler.refresh_prices_cron schedule. An empty schedule disables it.
type SchedulerService interface {
	Start() error
	Stop()
	RunRefresh(ctx context.Context) error
}

type schedulerService struct {
	cfg        *config.Config
	log        *logger.Logger
	cronParser cron.Parser
	portfolio  PortfolioService

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

func NewSchedulerService(cfg *config.Config, log *logger.Logger, portfolio PortfolioService) SchedulerService {
	return &schedulerService{
		cfg:        cfg,
		log:        log,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		portfolio:  portfolio,
	}
}

func (s *schedulerService) Start() error {
	expr := s.cfg.Scheduler.RefreshPricesCron
	if expr == "" {
		s.log.Info("Scheduled price refresh disabled")
		return nil
	}

	schedule, err := s.cronParser.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid refresh_prices_cron %q: %w", expr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	s.cron = cron.New(cron.WithParser(s.cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	s.cron.Schedule(schedule, cron.FuncJob(s.runScheduled))
	s.cron.Start()
	s.running = true

	s.log.Info("Scheduled price refresh started",
		logger.StringField("cron", expr),
		logger.StringField("next_run", schedule.Next(time.Now()).Format(time.RFC3339)),
	)
	return nil
}

// Stop waits for a refresh in progress to finish.
func (s *schedulerService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.log.Info("Scheduled price refresh stopped")
}

func (s *schedulerService) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Scheduler.TimeoutDuration)
	defer cancel()

	if err := s.RunRefresh(ctx); err != nil {
		s.log.ErrorContext(ctx, "Scheduled price refresh failed", logger.ErrorField(err))
	}
}

func (s *schedulerService) RunRefresh(ctx context.Context) error {
	start := time.Now()
	updated, err := s.portfolio.RefreshPrices(ctx)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "Price refresh completed",
		logger.IntField("updated", updated),
		logger.DurationField("duration", time.Since(start)),
	)
	return nil
}
