package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/WarringStates/internal/config"
	"github.com/mitchelldurbincs/WarringStates/internal/game"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/WarringStates/internal/monitoring"
	"github.com/mitchelldurbincs/WarringStates/internal/persistence"
	"github.com/mitchelldurbincs/WarringStates/internal/server"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", -1, "The server port (-1 to use config default)")
	host := flag.String("host", "", "The server host (empty to use config default)")
	seed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	interval := flag.Duration("interval", 0, "Time between turns (0 to use config default)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()

	if *port == -1 {
		*port = cfg.Server.Port
	}
	if *host == "" {
		*host = cfg.Server.Host
	}
	if *interval == 0 {
		*interval = time.Duration(cfg.Server.TurnIntervalMs) * time.Millisecond
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	setupLogging(cfg.Server.LogLevel, cfg.Server.LogFormat)

	if config.ConfigFilePath() != "" {
		config.WatchConfig(func(next *config.Config) {
			setupLogging(next.Server.LogLevel, next.Server.LogFormat)
			log.Info().Str("log_level", next.Server.LogLevel).Msg("Configuration reloaded")
		}, func(err error) {
			log.Warn().Err(err).Msg("Ignoring invalid configuration change")
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *host, *port, *seed, *interval); err != nil {
		log.Fatal().Err(err).Msg("Observer failed")
	}
	log.Info().Msg("Observer shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, host string, port int, seed int64, interval time.Duration) error {
	rng := rand.New(rand.NewSource(seed))
	bus := events.NewEventBusWithLogger(log.Logger)
	bus.Subscribe(subscribers.NewLoggerSubscriber("event-log", log.Logger, zerolog.DebugLevel))

	var battles server.BattleSource
	if cfg.Persistence.Enabled {
		ledger, err := persistence.Open(cfg.Persistence.Path, log.Logger)
		if err != nil {
			return err
		}
		defer ledger.Close()
		bus.Subscribe(subscribers.NewBattleRecorder("battle-ledger", ledger, log.Logger))
		battles = ledger
	}

	wc := game.WorldConfigFromConfig(cfg)
	wc.Rng = rng
	wc.Logger = log.Logger
	wc.EventBus = bus
	w, err := game.NewWorld(ctx, wc)
	if err != nil {
		return err
	}

	hub := server.NewHub(cfg.Server.BroadcastBuffer, log.Logger)
	go hub.Run(ctx)

	monitor := monitoring.NewGoroutineMonitor(30*time.Second, 1000, log.Logger)
	monitor.Register("observers", hub.Clients)
	go monitor.Run(ctx)

	session := server.NewSession(w, rng, hub, log.Logger)
	srv := server.NewServer(server.Config{Host: host, Port: port}, session, battles, hub, log.Logger)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Start() }()

	log.Info().
		Str("game_id", w.ID()).
		Int64("seed", seed).
		Dur("interval", interval).
		Msg("Simulation running")

	simErr := session.Run(ctx, interval)
	if simErr != nil && !errors.Is(simErr, context.Canceled) {
		log.Error().Err(simErr).Msg("Simulation stopped")
	}

	// A finished game stays observable until the process is told to stop.
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	})
}
