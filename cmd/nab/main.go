package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aquamarinepk/nab"
	"github.com/aquamarinepk/nab/events"
	"github.com/aquamarinepk/nab/internal/person"
	"github.com/aquamarinepk/nab/middleware"
	"github.com/aquamarinepk/nab/seed"
	"github.com/joho/godotenv"
)

const (
	namespace  = "NAB"
	appName    = "Nab"
	appVersion = "v0.1.0"
)

func main() {
	_ = godotenv.Load()

	cfg, err := nab.LoadConfig(namespace, os.Args[1:])
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}

	logLevel := cfg.GetStringOrDef("log.level", "info")
	log := nab.NewLogger(logLevel)

	bus := events.NewBus()
	subscribeAuditLog(bus, log)

	repo := person.NewRepository()
	service := person.NewService(repo, log, cfg, bus)
	handler := person.NewHandler(service, log, cfg)

	if path, ok := cfg.GetString("seed.file"); ok && path != "" {
		if err := seedRoster(context.Background(), repo, path, log); err != nil {
			panic(fmt.Errorf("seed roster: %w", err))
		}
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:        log,
		Timeout:       30 * time.Second,
		CompressLevel: 5,
	})

	app := nab.NewApp(
		nab.WithConfig(cfg),
		nab.WithLogger(log),
		nab.WithHTTPMiddleware(stack...),
		nab.WithHealthChecks("people"),
		nab.WithDebugRoutes(),
		nab.WithLifecycle(service),
		nab.WithHTTPServer("http.port", handler),
	)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	if err := app.Run(ctx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s (%s) stopped with error: %v\n", appName, appVersion, err)
		os.Exit(1)
	}
}

// seedRoster loads the YAML roster into the repository before the server
// starts taking traffic.
func seedRoster(ctx context.Context, repo *person.Repository, path string, log nab.Logger) error {
	tracker := seed.NewMemoryTracker()
	seeds := []seed.Seed{
		{
			ID:          "roster:" + path,
			Description: "load initial people roster",
			Run: func(ctx context.Context) error {
				people, err := person.LoadRoster(path)
				if err != nil {
					return err
				}
				for _, p := range people {
					if err := repo.Add(p); err != nil {
						return fmt.Errorf("add %d: %w", p.ID, err)
					}
				}
				log.Info("roster loaded", "file", path, "count", len(people))
				return nil
			},
		},
	}
	return seed.Apply(ctx, tracker, seeds, appName)
}

func subscribeAuditLog(bus *events.Bus, log nab.Logger) {
	audit := log.With("component", "audit")
	handler := func(topic string) events.HandlerFunc {
		return func(_ context.Context, msg []byte) error {
			audit.Info(topic, "payload", string(msg))
			return nil
		}
	}
	_ = bus.Subscribe(context.Background(), person.TopicCreated, handler(person.TopicCreated))
	_ = bus.Subscribe(context.Background(), person.TopicRemoved, handler(person.TopicRemoved))
}
