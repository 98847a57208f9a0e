package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/natikozel/Mapty/internal/config"
	"github.com/natikozel/Mapty/internal/db"
	"github.com/natikozel/Mapty/internal/events"
	"github.com/natikozel/Mapty/internal/server"
	"github.com/natikozel/Mapty/internal/storage"
	"github.com/natikozel/Mapty/internal/stream"
	"github.com/natikozel/Mapty/internal/worklog"
	"github.com/natikozel/Mapty/internal/workout"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig   func() config.Config
	connectRedis func(config.Config) *redis.Client
	openStore    func(config.Config, *redis.Client) (storage.Store, func(), error)
	notify       func(chan<- os.Signal, ...os.Signal)
	run          func(context.Context, config.Config, storage.Store, *redis.Client, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig:   config.Load,
		connectRedis: db.ConnectRedis,
		openStore:    storage.Open,
		notify:       signal.Notify,
		run:          Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()

	rdb := deps.connectRedis(cfg)

	store, closeStore, err := deps.openStore(cfg, rdb)
	if err != nil {
		log.Printf("open %s store failed: %v", cfg.StoreBackend, err)
		if rdb != nil {
			_ = rdb.Close()
		}
		return
	}
	defer closeStore()

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, store, rdb, signals, nil); err != nil {
		log.Printf("server exited with error: %v", err)
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

var newPublisher = func(cfg config.Config) events.Publisher {
	brokers := cfg.Brokers()
	if len(brokers) == 0 {
		return events.Nop{}
	}
	return events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
}

// restoreLog loads the stored workouts. A corrupt blob is fatal unless
// cfg.DiscardCorrupt is set, in which case the log starts empty and the
// next append overwrites the blob.
func restoreLog(ctx context.Context, cfg config.Config, l *worklog.Log) error {
	err := l.Restore(ctx)
	if errors.Is(err, workout.ErrCorruptBlob) && cfg.DiscardCorrupt {
		log.Printf("discarding unreadable workout log %q: %v", cfg.StoreKey, err)
		return nil
	}
	return err
}

// Run restores the log, starts the HTTP server and waits for termination
// signals.
func Run(ctx context.Context, cfg config.Config, store storage.Store, rdb *redis.Client, signals <-chan os.Signal, listen ListenFunc) error {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	key := cfg.StoreKey
	if key == "" {
		key = "workouts"
	}

	workoutLog := worklog.NewLog(store, key)
	if err := restoreLog(ctx, cfg, workoutLog); err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return err
	}
	log.Printf("restored %d workouts from %q", workoutLog.Len(), key)

	hub := stream.NewHub(rdb)
	publisher := newPublisher(cfg)
	svc := worklog.NewService(workoutLog, workout.NewFactory(), hub, publisher)
	srv := server.NewServer(cfg, svc, hub)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, cfg.ServerPort)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if err := publisher.Close(); err != nil {
		log.Printf("close publisher: %v", err)
	}
	if err := hub.Close(); err != nil {
		log.Printf("close stream hub: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	return nil
}
