package cmd

import (
	"math/rand"
	"portfolio-dashboard/config"
	"portfolio-dashboard/internal/repository"
	"portfolio-dashboard/internal/service"
	"portfolio-dashboard/pkg/cache"
	"portfolio-dashboard/pkg/logger"
	"portfolio-dashboard/pkg/postgres"
	"time"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AppDependency struct {
	db        *postgres.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
}

func NewAppDependency() (*AppDependency, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	var db *postgres.DB
	if cfg.Storage.Driver == config.StorageDriverPostgres {
		db, err = postgres.NewDB(cfg.DB, log)
		if err != nil {
			log.Error("Failed to connect to database", zap.Error(err))
			return nil, err
		}
	}

	e := echo.New()
	e.HideBanner = true
	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      e,
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
	}, nil
}

func (d *AppDependency) gormDB() *gorm.DB {
	if d.db == nil {
		return nil
	}
	return d.db.DB
}

// Services builds the repository and service layers on top of the dependency.
func (d *AppDependency) Services() (*service.Service, error) {
	repo, err := repository.NewRepository(d.cfg, d.cache, d.gormDB(), d.log)
	if err != nil {
		return nil, err
	}
	randomSource := rand.New(rand.NewSource(time.Now().UnixNano()))
	return service.NewService(d.cfg, d.log, repo, randomSource), nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	defer func() { _ = d.log.Sync() }()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}
