package service

import (
	"portfolio-dashboard/config"
	"portfolio-dashboard/internal/repository"
	"portfolio-dashboard/pkg/logger"
	"time"
)

type Service struct {
	QuoteService     QuoteService
	PortfolioService PortfolioService
	SchedulerService SchedulerService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	randomSource RandomSource,
) *Service {
	randomSource = NewLockedSource(randomSource)
	quoteService := NewQuoteService(log, repo.AlphaVantageRepo, randomSource)
	portfolioService := NewPortfolioService(cfg, log, repo.Store, quoteService, randomSource, time.Now)
	schedulerService := NewSchedulerService(cfg, log, portfolioService)

	return &Service{
		QuoteService:     quoteService,
		PortfolioService: portfolioService,
		SchedulerService: schedulerService,
	}
}
