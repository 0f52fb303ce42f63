package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"waugzee/config"
	"waugzee/internal/database"
	"waugzee/internal/events"
	"waugzee/internal/formatter"
	"waugzee/internal/handlers/middleware"
	"waugzee/internal/jobqueue"
	"waugzee/internal/jobs"
	"waugzee/internal/logger"
	"waugzee/internal/models"
	"waugzee/internal/orchestrator"
	"waugzee/internal/providers"
	"waugzee/internal/store"
	"waugzee/internal/websockets"
	"waugzee/internal/workers"
)

// App is the composition root: every long-lived collaborator the handlers,
// worker pools, and scheduled jobs share, built once at startup. Mirrors
// the teacher's App struct shape, narrowed from a services/repos/
// controllers layering down to the store/orchestrator/formatter layering
// this domain calls for.
type App struct {
	Database     database.DB
	Middleware   middleware.Middleware
	Websocket    *websockets.Manager
	EventBus     *events.EventBus
	Config       config.Config
	Store        *store.Store
	Registry     *providers.Registry
	JobQueue     *jobqueue.Queue
	Orchestrator *orchestrator.Orchestrator
	Formatter    *formatter.Formatter
	Scheduler    *jobs.Scheduler

	pools     []*workers.Pool
	imagePool *workers.ImagePool
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	cfg, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	if err := db.MigrateModels(); err != nil {
		return &App{}, log.Err("failed to migrate models", err)
	}
	if err := db.CreateIndexes(); err != nil {
		return &App{}, log.Err("failed to create indexes", err)
	}

	eventBus := events.New(db.Cache.Events, cfg)
	st := store.New(db.SQL)
	queue := jobqueue.New(db.SQL)

	registry, imageLimiters, err := buildRegistry(cfg, db)
	if err != nil {
		return &App{}, log.Err("failed to build provider registry", err)
	}

	serverURL := cfg.ServerURL
	if serverURL == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "localhost"
		}
		serverURL = fmt.Sprintf("http://%s:%d", host, cfg.ServerPort)
	}
	form := formatter.New(st, serverURL)
	orch := orchestrator.New(st, registry, queue, form, orchestrator.Config{
		AlbumTypes:      splitFilter(cfg.AlbumTypes),
		ReleaseStatuses: splitFilter(cfg.ReleaseStatuses),
	})

	pools := buildWorkerPools(st, registry, queue)
	imagePool := workers.NewImagePool(st, cfg.ImageStorageDir, imageLimiters, 3, 500*time.Millisecond)

	scheduler := jobs.NewScheduler()
	if err := jobs.RegisterAllJobs(scheduler, st, queue, eventBus); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	wsManager, err := websockets.New(eventBus, cfg)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	mw := middleware.New(eventBus, cfg)

	app := &App{
		Database:     db,
		Config:       cfg,
		Middleware:   mw,
		Websocket:    wsManager,
		EventBus:     eventBus,
		Store:        st,
		Registry:     registry,
		JobQueue:     queue,
		Orchestrator: orch,
		Formatter:    form,
		Scheduler:    scheduler,
		pools:        pools,
		imagePool:    imagePool,
	}

	app.startBackgroundWork(context.Background())

	return app, nil
}

// buildRegistry wires the canonical provider plus every enrichment adapter
// the pack's examples ground (§1: "a canonical music-metadata service, an
// encyclopedic text provider, and two or three artwork providers"), each
// behind its own rate limiter so one slow adapter never throttles another.
// It also returns the per-provider limiter map the artwork-binary pool
// needs, keyed by the same adapter.Name() values recorded on Image rows.
func buildRegistry(cfg config.Config, db database.DB) (*providers.Registry, map[string]*providers.RateLimiter, error) {
	canonicalLimiter := providers.NewRateLimiter(db.Cache.RateLimit, "musicbrainz", time.Duration(cfg.CanonicalMinIntervalMS)*time.Millisecond)
	canonical := providers.NewMusicBrainzAdapter(providers.MusicBrainzConfig{
		BaseURL:       cfg.CanonicalBaseURL,
		UserAgent:     cfg.CanonicalUserAgent,
		MinIntervalMS: cfg.CanonicalMinIntervalMS,
	}, canonicalLimiter)

	audioDBLimiter := providers.NewRateLimiter(db.Cache.RateLimit, "theaudiodb", time.Duration(cfg.TheAudioDBMinIntervalMS)*time.Millisecond)
	audioDB := providers.NewTheAudioDBAdapter(providers.TheAudioDBConfig{
		BaseURL:       cfg.TheAudioDBBaseURL,
		APIKey:        cfg.TheAudioDBAPIKey,
		MinIntervalMS: cfg.TheAudioDBMinIntervalMS,
	}, audioDBLimiter)

	coverArtLimiter := providers.NewRateLimiter(db.Cache.RateLimit, "coverartarchive", time.Duration(cfg.CoverArtArchiveMinIntervalMS)*time.Millisecond)
	coverArt := providers.NewCoverArtArchiveAdapter(providers.CoverArtArchiveConfig{
		BaseURL:       cfg.CoverArtArchiveBaseURL,
		MinIntervalMS: cfg.CoverArtArchiveMinIntervalMS,
	}, coverArtLimiter)

	registry, err := providers.NewRegistry(
		canonical,
		[]providers.TextAdapter{audioDB},
		[]providers.ImageAdapter{audioDB, coverArt},
	)
	if err != nil {
		return nil, nil, err
	}

	imageLimiters := map[string]*providers.RateLimiter{
		audioDB.Name():  audioDBLimiter,
		coverArt.Name(): coverArtLimiter,
	}

	return registry, imageLimiters, nil
}

// buildWorkerPools assigns each job type to its pool exactly per §4.5's
// table: a single-worker canonical pool (the upstream rate limit is the
// real bottleneck), a two-worker text pool, and a two-worker artwork-url
// pool. The fourth, artwork-binary, pool is built separately since it
// polls the Image table directly rather than the queue.
func buildWorkerPools(st *store.Store, registry *providers.Registry, queue *jobqueue.Queue) []*workers.Pool {
	processors := workers.NewProcessors(st, registry, queue)

	canonicalPool := workers.NewPool(
		"canonical",
		[]models.JobType{
			models.JobTypeFetchArtist,
			models.JobTypeFetchArtistAlbums,
			models.JobTypeFetchRelease,
			models.JobTypeFetchAlbumFull,
			models.JobTypeArtistFull,
		},
		1, time.Second, queue,
		workers.CanonicalDispatch(processors),
	)

	textPool := workers.NewPool(
		"text",
		[]models.JobType{models.JobTypeFetchArtistText, models.JobTypeFetchAlbumText},
		2, time.Second, queue,
		workers.TextDispatch(processors),
	)

	artworkURLPool := workers.NewPool(
		"artwork-url",
		[]models.JobType{models.JobTypeFetchArtistImages, models.JobTypeFetchAlbumImages},
		2, 500*time.Millisecond, queue,
		workers.ArtworkURLDispatch(processors),
	)

	return []*workers.Pool{canonicalPool, textPool, artworkURLPool}
}

// splitFilter parses a comma-separated config value into a trimmed slice,
// returning nil for an empty string so the orchestrator's "empty means
// match everything" filter semantics apply by default.
func splitFilter(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (a *App) startBackgroundWork(ctx context.Context) {
	if _, err := a.JobQueue.ResetStuck(ctx); err != nil {
		_ = logger.New("app").Function("startBackgroundWork").Err("failed to reset stuck jobs", err)
	}
	for _, pool := range a.pools {
		pool.Start(ctx)
	}
	a.imagePool.Start(ctx)
	_ = a.Scheduler.Start(ctx)
}

func (a *App) Close() (err error) {
	ctx := context.Background()

	for _, pool := range a.pools {
		pool.Stop()
	}
	if a.imagePool != nil {
		a.imagePool.Stop()
	}
	if a.Scheduler != nil {
		if closeErr := a.Scheduler.Stop(ctx); closeErr != nil {
			err = closeErr
		}
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
