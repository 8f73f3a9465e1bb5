package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/feed2index/pkg/config"
	"github.com/umputun/feed2index/pkg/content"
	"github.com/umputun/feed2index/pkg/domain"
	"github.com/umputun/feed2index/pkg/feed"
	"github.com/umputun/feed2index/pkg/fetch"
	"github.com/umputun/feed2index/pkg/indexer"
	"github.com/umputun/feed2index/pkg/repository"
	"github.com/umputun/feed2index/pkg/scheduler"
	"github.com/umputun/feed2index/pkg/searchclient"
	"github.com/umputun/feed2index/pkg/sitemap"
	"github.com/umputun/feed2index/server"
)

// Opts with all CLI options
type Opts struct {
	Config      string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"configuration file"`
	Once        bool   `long:"once" env:"ONCE" description:"run a single synchronization pass and exit"`
	CreateIndex bool   `long:"create-index" description:"create index if it doesn't exist"`
	DropIndex   bool   `long:"drop-index" description:"delete index with all documents and exit"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// indexBackend is a search index the CLI manages and synchronizes to
type indexBackend interface {
	indexer.Index
	Name() string
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, schema domain.IndexSchema) error
	Delete(ctx context.Context, name string) error
}

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	SetupLog(opts.Debug, os.Getenv("SEARCH_API_KEY"))
	log.Printf("[INFO] starting feed2index version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
	log.Print("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Index.Remote.APIKey != "" {
		SetupLog(opts.Debug, cfg.Index.Remote.APIKey)
	}
	if opts.Once {
		cfg.Schedule.Interval = 0
		cfg.Server.Enabled = false
	}

	backend, closeFn, err := makeIndex(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	if opts.DropIndex {
		if err := backend.Delete(ctx, backend.Name()); err != nil {
			return fmt.Errorf("failed to drop index %s: %w", backend.Name(), err)
		}
		log.Printf("[INFO] index %s dropped", backend.Name())
		return nil
	}

	if err := ensureIndex(ctx, backend, cfg.Index.Create || opts.CreateIndex); err != nil {
		return err
	}

	fetcher := fetch.New(fetch.Config{Timeout: cfg.Fetch.Timeout, UserAgent: cfg.Fetch.UserAgent, MaxSize: cfg.Fetch.MaxSize})
	syncer := indexer.New(indexer.Params{
		Index:    backend,
		Pages:    content.NewHTTPExtractor(fetcher, content.ExtractorConfig{RegionID: cfg.Extraction.ContentID, Readability: cfg.Extraction.Readability}),
		Feeds:    feed.NewParser(fetcher),
		Sitemaps: sitemap.NewParser(fetcher),
	})
	sched := scheduler.NewScheduler(syncer, scheduler.Config{Interval: cfg.Schedule.Interval, Sources: cfg.SyncSources()})

	// single pass without api server reports failures through exit code
	if cfg.Schedule.Interval == 0 && !cfg.Server.Enabled {
		if err := sched.RunOnce(ctx); err != nil {
			return fmt.Errorf("synchronization failed: %w", err)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sched.Start(gctx)
		sched.Wait()
		return nil
	})

	if cfg.Server.Enabled {
		repo, ok := backend.(*repository.Repository)
		if !ok {
			return fmt.Errorf("%w: search api requires local index", domain.ErrConfiguration)
		}
		srv := server.New(cfg, repo, sched, revision, opts.Debug)
		g.Go(func() error { return srv.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

// makeIndex opens index backend selected by config, returned func releases it
func makeIndex(ctx context.Context, cfg *config.Config) (indexBackend, func(), error) {
	switch cfg.Index.Backend {
	case config.BackendRemote:
		client, err := searchclient.New(searchclient.Config{
			Endpoint:   cfg.Index.Remote.Endpoint,
			APIKey:     cfg.Index.Remote.APIKey,
			APIVersion: cfg.Index.Remote.APIVersion,
			Index:      cfg.Index.Name,
			Timeout:    cfg.Index.Remote.Timeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to make search client: %w", err)
		}
		log.Printf("[INFO] using hosted index %s at %s", cfg.Index.Name, cfg.Index.Remote.Endpoint)
		return client, func() {}, nil
	default:
		repo, err := repository.New(ctx, repository.Config{
			DSN:             cfg.Index.SQLite.DSN,
			Index:           cfg.Index.Name,
			MaxOpenConns:    cfg.Index.SQLite.MaxOpenConns,
			ConnMaxLifetime: cfg.Index.SQLite.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open local index: %w", err)
		}
		log.Printf("[INFO] using local index %s", cfg.Index.Name)
		return repo, func() {
			if err := repo.Close(); err != nil {
				log.Printf("[WARN] failed to close local index: %v", err)
			}
		}, nil
	}
}

// ensureIndex checks the index exists and creates it with default schema if allowed
func ensureIndex(ctx context.Context, backend indexBackend, create bool) error {
	exists, err := backend.Exists(ctx, backend.Name())
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", backend.Name(), err)
	}
	if exists {
		return nil
	}
	if !create {
		return fmt.Errorf("%w: %s, enable index.create or use --create-index", domain.ErrIndexNotFound, backend.Name())
	}
	if err := backend.Create(ctx, domain.DefaultSchema(backend.Name())); err != nil {
		return fmt.Errorf("failed to create index %s: %w", backend.Name(), err)
	}
	log.Printf("[INFO] index %s created", backend.Name())
	return nil
}

// SetupLog configures lgr and std logger, secrets are masked in the output
func SetupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	var secrets []string
	for _, s := range secs {
		if s != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
