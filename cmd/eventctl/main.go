// Package main provides eventctl, the admin tool for loading the fixture
// catalog and inspecting filtered listings.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/yair/eventify/pkg/collectors"
	"github.com/yair/eventify/pkg/config"
	"github.com/yair/eventify/pkg/domain"
	"github.com/yair/eventify/pkg/integrations"
	"github.com/yair/eventify/pkg/interfaces"
	"github.com/yair/eventify/pkg/logger"
	"github.com/yair/eventify/pkg/render"
	"github.com/yair/eventify/pkg/seed"
)

const usage = `Usage: eventctl <command> [flags]

Commands:
  seed   load the fixture catalog into the configured store
  list   print events matching the given facets
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "seed":
		err = runSeed(os.Args[2:])
	case "list":
		err = runList(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Print(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "eventctl %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	configPath := fs.String("config", envOr("CONFIG_PATH", "config.json"), "Path to config file")
	randSeed := fs.Int64("rand-seed", 0, "Seed for the fixture generator (default: seed.rand_seed from config)")
	fs.Parse(args)

	env, err := openEnv(*configPath)
	if err != nil {
		return err
	}
	defer env.close()

	source := env.cfg.Seed.RandSeed
	if *randSeed != 0 {
		source = *randSeed
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fixtures := seed.Generate(rand.New(rand.NewSource(source)))
	inserted, err := env.service.SeedEvents(ctx, fixtures)
	if err != nil {
		return err
	}

	total, err := env.service.CountEvents(ctx)
	if err != nil {
		return err
	}

	env.logger.Info("Seed complete",
		zap.Int("generated", len(fixtures)),
		zap.Int("inserted", inserted),
		zap.Int("total", total))
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", envOr("CONFIG_PATH", "config.json"), "Path to config file")
	server := fs.String("server", "", "Query a running server at this base URL instead of the local store")
	unified := fs.Bool("unified", false, "Merge events sharing a title")

	q := url.Values{}
	for _, name := range []string{"search", "context", "timeOfDay", "style", "districts", "priceCategory", "features", "minPrice", "maxPrice"} {
		fs.Func(name, "Facet filter, comma-separated for lists", func(v string) error {
			q.Add(name, v)
			return nil
		})
	}
	fs.Parse(args)

	state := interfaces.ParseFilterState(q)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *server != "" {
		client, err := integrations.NewEventifyClient(integrations.EventifyConfig{BaseURL: *server})
		if err != nil {
			return err
		}
		return list(ctx, client, state, *unified)
	}

	env, err := openEnv(*configPath)
	if err != nil {
		return err
	}
	defer env.close()

	return list(ctx, localLister{env.service}, state, *unified)
}

type lister interface {
	ListEvents(ctx context.Context, state *domain.FilterState) ([]domain.Event, error)
	ListUnifiedEvents(ctx context.Context, state *domain.FilterState) ([]domain.DisplayEvent, error)
}

// localLister gives the in-process service the same shape as the HTTP client.
type localLister struct {
	*interfaces.EventService
}

func (l localLister) ListUnifiedEvents(ctx context.Context, state *domain.FilterState) ([]domain.DisplayEvent, error) {
	return l.ListDisplayEvents(ctx, state)
}

func list(ctx context.Context, source lister, state *domain.FilterState, unified bool) error {
	if !unified {
		events, err := source.ListEvents(ctx, state)
		if err != nil {
			return err
		}
		if err := render.Events(os.Stdout, events); err != nil {
			return err
		}
		fmt.Printf("\n%d events\n", len(events))
		return nil
	}

	display, err := source.ListUnifiedEvents(ctx, state)
	if err != nil {
		return err
	}

	if err := render.DisplayEvents(os.Stdout, display); err != nil {
		return err
	}
	fmt.Printf("\n%d unified events\n", len(display))
	return nil
}

type env struct {
	cfg     *config.Config
	service *interfaces.EventService
	logger  *zap.Logger
	closeDB func() error
}

func (e *env) close() {
	e.closeDB()
	e.logger.Sync()
}

func openEnv(configPath string) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options, err := cfg.FilterOptions()
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.New(cfg.Logging.Environment)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	repo, closeDB, err := collectors.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:     cfg,
		service: interfaces.NewEventService(repo, options, zapLogger),
		logger:  zapLogger,
		closeDB: closeDB,
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
