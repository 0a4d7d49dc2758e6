package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/grove/components"
	"github.com/pthm-cable/grove/config"
	"github.com/pthm-cable/grove/game"
	"github.com/pthm-cable/grove/server"
	"github.com/pthm-cable/grove/settings"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTurns := flag.Int("max-turns", 0, "Stop after N turns (0 = use config)")
	serveAddr := flag.String("serve", "", "Serve the HTTP API on this address instead of running (e.g. :8080)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	sim, err := game.New(game.Options{
		Seed:        rngSeed,
		Config:      cfg,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
		LogStats:    *logStats,
	})
	if err != nil {
		slog.Error("failed to set up output", "error", err)
	}
	defer func() {
		if err := sim.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}()

	if *serveAddr != "" {
		if err := serve(*serveAddr, sim); err != nil {
			slog.Error("server failed", "error", err)
		}
		return
	}

	if *headless {
		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"max_turns", *maxTurns,
		)
		turns := sim.Run(*maxTurns)
		census := sim.Census()
		slog.Info("simulation finished",
			"turns", turns,
			"viable", sim.Viable(),
			"grazers", census.Of(components.KindGrazer),
			"plants", census.Plants(),
		)
		return
	}

	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Grove")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	prefs, err := settings.Open()
	if err != nil {
		slog.Warn("viewer settings will not persist", "error", err)
	}

	v := newViewer(sim, *maxTurns, prefs)
	for !rl.WindowShouldClose() {
		v.update()
		v.draw()
	}
	v.savePrefs()
}

// serve runs the HTTP API until interrupted.
func serve(addr string, sim *game.Simulation) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := &http.Server{Addr: addr, Handler: server.New(sim).Routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("serving simulation", "addr", addr, "seed", sim.Seed())
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
