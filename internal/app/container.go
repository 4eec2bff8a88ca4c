package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"job-tracker/internal/analysis"
	"job-tracker/internal/config"
	"job-tracker/internal/database"
	"job-tracker/internal/database/migration"
	dbpostgres "job-tracker/internal/database/postgres"
	"job-tracker/internal/domain/job"
	"job-tracker/internal/domain/matching"
	"job-tracker/internal/infrastructure/cache"
	"job-tracker/internal/pkg/jwt"
	"job-tracker/internal/pkg/logging"
	"job-tracker/internal/repository"
	"job-tracker/internal/resume"
	"job-tracker/internal/scraper"
	"job-tracker/internal/storage/kv"
	"job-tracker/internal/usecase"
	ucauth "job-tracker/internal/usecase/auth"
	ucjob "job-tracker/internal/usecase/job"
	ucmatch "job-tracker/internal/usecase/match"
	ucprofile "job-tracker/internal/usecase/profile"
	ucresume "job-tracker/internal/usecase/resume"
	ucuser "job-tracker/internal/usecase/user"
	"job-tracker/internal/worker"
	"job-tracker/internal/ws"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	Config  config.Config
	Logger  *logging.Logger
	Metrics *prometheus.Registry

	DB    database.DB
	Redis *redis.Client
	Store kv.Store
	Cache *cache.Redis

	JWT    jwt.Service
	Hub    *ws.Hub
	Pool   *worker.Pool
	Runner *analysis.Runner

	Auth    *ucauth.Service
	Jobs    *ucjob.Service
	Profile *ucprofile.Service
	Resume  *ucresume.Service
	Match   *ucmatch.Service
	Account *ucuser.Service
	Data    *ucuser.DataService

	stopPool context.CancelFunc
}

// NewContainer wires every dependency. Background workers are started by
// Start, not here.
func NewContainer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	c.Metrics = prometheus.NewRegistry()
	c.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c.Redis = cache.Dial(ctx, cfg.Redis, logger)
	c.Cache = cache.NewRedis(c.Redis, cfg.Redis.KeyPrefix, logger)

	store, err := c.openStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Store = store

	vocab := matching.NewVocabulary(cfg.Match.Vocabulary)
	if vocab.Len() == 0 {
		vocab = matching.NewVocabulary(matching.DefaultVocabulary)
	}
	engine := matching.NewEngine(vocab, matching.JitterByName(cfg.Match.Jitter, cfg.Match.JitterSeed, 0))
	extractor := resume.ByName(cfg.Resume.Extractor, vocab, cfg.Resume.CannedDelay)

	users := repository.NewKVUserRepository(store)
	jobs := repository.NewKVJobRepository(store, logger.With("component", "job_repository"))
	profiles := repository.NewKVProfileRepository(store)
	resumes := repository.NewKVResumeRepository(store)

	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	c.Hub = ws.NewHub(logger.With("component", "ws"))

	c.Pool = worker.NewPool(cfg.Analysis.Workers, cfg.Analysis.QueueSize)
	c.Pool.SetRateLimit(cfg.Analysis.RatePerSec, cfg.Analysis.Workers)

	c.Match = ucmatch.NewService(ucmatch.Deps{
		Jobs:     jobs,
		Profiles: profiles,
		Resumes:  resumes,
		Engine:   engine,
		Cache:    c.Cache,
		CacheTTL: cfg.Match.CacheTTL,
		Logger:   logger.With("component", "match"),
	})
	c.Runner = analysis.NewRunner(c.Pool, c.Match.Compute, analysis.Options{
		Timeout:   cfg.Analysis.Timeout,
		Retention: cfg.Analysis.Retention,
		PruneSpec: cfg.Analysis.PruneSpec,
		OnDone: func(r analysis.Request) {
			c.Hub.Publish(r.Owner, ws.Event{Type: ws.EventAnalysisReady, JobID: r.JobID, Status: string(r.Status), RequestID: r.ID})
		},
	}, logger.With("component", "analysis"))
	c.Match.SetRunner(c.Runner)

	invalidator := usecase.NewInvalidator(c.Cache, c.Runner, logger)

	c.Auth = ucauth.NewService(users, c.JWT)
	c.Account = ucuser.NewService(users)
	c.Data = ucuser.NewDataService(ucuser.DataDeps{
		Jobs:        jobs,
		Profiles:    profiles,
		Resumes:     resumes,
		Users:       users,
		Invalidator: invalidator,
		Logger:      logger.With("component", "account_data"),
	})
	c.Jobs = ucjob.NewService(ucjob.Deps{
		Jobs:        jobs,
		Resumes:     resumes,
		Lifecycle:   job.NewLifecycle(job.PolicyByName(cfg.App.StatusPolicy), nil),
		Vocabulary:  vocab,
		Importer:    newImporter(cfg.Scraper, logger),
		Invalidator: invalidator,
		Events:      c.Hub,
		Logger:      logger.With("component", "jobs"),
	})
	c.Profile = ucprofile.NewService(ucprofile.Deps{
		Profiles:       profiles,
		Users:          users,
		Extractor:      extractor,
		MaxUploadBytes: int64(cfg.Resume.MaxUploadBytes),
		Invalidator:    invalidator,
		Logger:         logger.With("component", "profile"),
	})
	c.Resume = ucresume.NewService(ucresume.Deps{
		Jobs:           jobs,
		Resumes:        resumes,
		Extractor:      extractor,
		MaxUploadBytes: int64(cfg.Resume.MaxUploadBytes),
		Invalidator:    invalidator,
		Submitter:      c.Runner,
		Logger:         logger.With("component", "resume"),
	})

	return c, nil
}

func (c *Container) openStore(ctx context.Context) (kv.Store, error) {
	cfg := c.Config
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return kv.OpenSQLite(ctx, cfg.Storage.SQLitePath)
	case config.BackendPostgres:
		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		c.DB = db
		if cfg.Database.MigrateOnStart {
			n, err := migration.Embedded().Run(ctx, db.SQLDB())
			if err != nil {
				return nil, fmt.Errorf("migrate: %w", err)
			}
			c.Logger.Info("migrations applied", "count", n)
		}
		return kv.NewPostgres(db), nil
	case config.BackendRedis:
		if c.Redis == nil {
			return nil, errors.New("redis storage backend selected but redis is unreachable")
		}
		return kv.NewRedis(c.Redis, cfg.Redis.KeyPrefix+"kv:"), nil
	default:
		c.Logger.Warn("using in-memory storage, data is lost on restart")
		return kv.NewMemory(), nil
	}
}

func newImporter(cfg config.ScraperConfig, logger *logging.Logger) *scraper.Importer {
	var fetcher scraper.Fetcher = scraper.NewCollyFetcher(cfg.UserAgent, cfg.Timeout)
	if cfg.Headless {
		fetcher = scraper.NewHeadlessFetcher(cfg.UserAgent, cfg.Timeout)
	}
	return scraper.NewImporter(fetcher, cfg.RatePerSec, cfg.Burst, cfg.AllowedHosts, logger.With("component", "scraper"))
}

// Start launches the hub, the worker pool and the analysis janitor.
func (c *Container) Start() error {
	go c.Hub.Run()

	ctx, cancel := context.WithCancel(context.Background())
	c.stopPool = cancel
	c.Pool.Start(ctx)

	return c.Runner.Start()
}

// Close stops background work and releases connections. It is safe on a
// partially built container.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error

	if c.Runner != nil {
		c.Runner.Stop()
	}
	if c.Pool != nil {
		done := make(chan struct{})
		go func() {
			c.Pool.Close()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			c.Logger.Warn("worker pool did not drain in time")
		}
	}
	if c.stopPool != nil {
		c.stopPool()
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	return errors.Join(errs...)
}
