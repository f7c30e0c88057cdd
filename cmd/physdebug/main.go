// Command physdebug steps a hand-written scenario through the collision world and streams the
// resulting state to websocket viewers. It is the quickest way to reproduce a movement or
// projectile problem without the game around it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	physics "github.com/gitchub12/gonk12new-sub000"
	"github.com/gitchub12/gonk12new-sub000/config"
)

type options struct {
	scenario string
	tuning   string
	addr     string
	steps    int
	tick     time.Duration
	workers  int
	strict   bool
	verbose  bool
	schema   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.scenario, "scenario", "", "scenario file to run (yaml)")
	flag.StringVar(&opts.tuning, "tuning", "", "tuning overrides (yaml), reloaded when the file changes")
	flag.StringVar(&opts.addr, "addr", ":8080", "websocket listen address, empty to disable")
	flag.IntVar(&opts.steps, "steps", 0, "number of steps to run, 0 runs until interrupted")
	flag.DurationVar(&opts.tick, "tick", 16*time.Millisecond, "wall-clock time between steps")
	flag.IntVar(&opts.workers, "workers", physics.DEFAULT_WORKERS, "goroutines used for per-actor work")
	flag.BoolVar(&opts.strict, "strict", false, "panic on level setup errors instead of logging them")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.BoolVar(&opts.schema, "schema", false, "print the JSON schema of the scenario and tuning files and exit")
	flag.Parse()

	if opts.schema {
		if err := writeSchemas(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	level := log.InfoLevel
	if opts.verbose {
		level = log.DebugLevel
	}
	logger := slog.New(log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "physdebug",
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("physdebug failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger) error {
	if opts.scenario == "" {
		return errors.New("-scenario is required")
	}
	sc, err := LoadScenario(opts.scenario)
	if err != nil {
		return err
	}

	tuning := config.Default()
	var watcher *config.Watcher
	if opts.tuning != "" {
		if tuning, err = config.Load(opts.tuning); err != nil {
			return err
		}
		if watcher, err = config.NewWatcher(opts.tuning); err != nil {
			return fmt.Errorf("watch %s: %w", opts.tuning, err)
		}
		defer watcher.Close()
	}

	w := physics.NewWorld(tuning, nil, nil, logger)
	w.Workers = opts.workers
	w.Strict = opts.strict
	sc.Build(w)

	var recorder eventLog
	recorder.subscribe(&w.Events)

	hub := newHub(logger)
	defer hub.Close()
	if opts.addr != "" {
		srv := &http.Server{Addr: opts.addr, Handler: hub, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("viewer server stopped", slog.Any("error", err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving viewers", slog.String("addr", opts.addr))
	}

	logger.Info("running scenario",
		slog.String("name", sc.Name),
		slog.Int("actors", len(w.Actors)),
		slog.Int("colliders", w.Colliders.Len()),
		slog.Int("projectiles", len(w.Projectiles)),
	)

	input := sc.Input.toInput()
	dt := opts.tick.Seconds()
	ticker := time.NewTicker(opts.tick)
	defer ticker.Stop()

	for step := 1; opts.steps <= 0 || step <= opts.steps; step++ {
		select {
		case <-ctx.Done():
			logger.Info("interrupted", slog.Int("step", step-1))
			return nil
		case <-ticker.C:
		}

		applyTuning(w, watcher, logger)
		w.Step(dt, input, nil)

		events := recorder.drain()
		if len(events) > 0 {
			logger.Debug("step events", slog.Int("step", step), slog.Any("events", events))
		}
		hub.Broadcast(takeSnapshot(w, step, events))
	}

	p := w.Player.Position
	logger.Info("scenario finished",
		slog.Int("steps", opts.steps),
		slog.Any("player", []float64{p.X(), p.Y(), p.Z()}),
		slog.Bool("on_ground", w.Player.OnGround),
	)
	return nil
}

// applyTuning drains pending reloads so tuning only changes between two steps
func applyTuning(w *physics.World, watcher *config.Watcher, logger *slog.Logger) {
	if watcher == nil {
		return
	}

	for {
		select {
		case t, ok := <-watcher.Updates:
			if !ok {
				return
			}
			if err := w.SetTuning(t); err != nil {
				logger.Warn("rejected tuning reload", slog.Any("error", err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("tuning reload failed", slog.Any("error", err))
		default:
			return
		}
	}
}
