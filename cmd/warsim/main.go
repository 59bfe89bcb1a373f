package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/WarringStates/internal/config"
	"github.com/mitchelldurbincs/WarringStates/internal/game"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events"
	"github.com/mitchelldurbincs/WarringStates/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/WarringStates/internal/persistence"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	seed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	rounds := flag.Int("rounds", 200, "Stop after this many rounds if nobody has won")
	reportEvery := flag.Int("report-every", 10, "Print standings every N rounds")
	dbPath := flag.String("db", "", "Battle ledger path (empty to use config)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error) (empty to use config default)")
	showMap := flag.String("map", "none", "Draw the map with each report (none, plain, color)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	cfg := config.Get()
	if *logLevel == "" {
		*logLevel = cfg.Server.LogLevel
	}
	setupLogging(*logLevel, cfg.Server.LogFormat)

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	log.Info().Int64("seed", *seed).Msg("Starting headless simulation")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *seed, *rounds, *reportEvery, *dbPath, *showMap); err != nil {
		log.Fatal().Err(err).Msg("Simulation failed")
	}
}

func run(ctx context.Context, cfg *config.Config, seed int64, rounds, reportEvery int, dbPath, showMap string) error {
	rng := rand.New(rand.NewSource(seed))
	bus := events.NewEventBusWithLogger(log.Logger)

	logSub := subscribers.NewLoggerSubscriber("event-log", log.Logger, zerolog.InfoLevel)
	logSub.SetEventFilter([]string{
		events.TypeGameStarted, events.TypeGameEnded, events.TypeCityFounded, events.TypeCityFell,
		events.TypeWarDeclared, events.TypePlayerEliminated,
	})
	bus.Subscribe(logSub)

	var ledger *persistence.Ledger
	if dbPath == "" && cfg.Persistence.Enabled {
		dbPath = cfg.Persistence.Path
	}
	if dbPath != "" {
		var err error
		ledger, err = persistence.Open(dbPath, log.Logger)
		if err != nil {
			return err
		}
		defer ledger.Close()
		bus.Subscribe(subscribers.NewBattleRecorder("battle-ledger", ledger, log.Logger))
	}

	wc := game.WorldConfigFromConfig(cfg)
	wc.Rng = rng
	wc.Logger = log.Logger
	wc.EventBus = bus
	w, err := game.NewWorld(ctx, wc)
	if err != nil {
		return fmt.Errorf("create world: %w", err)
	}

	battles := 0
	bus.SubscribeFunc(events.TypeBattleResolved, func(events.Event) { battles++ })

	start := time.Now()
	for !w.IsGameOver() && w.Turn() < rounds {
		round := w.Turn()
		game.PlayBaselineTurn(w, rng)
		if err := w.EndTurn(ctx); err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		if reportEvery > 0 && w.Turn() != round && w.Turn()%reportEvery == 0 {
			printReport(w, battles, showMap)
		}
	}

	fmt.Printf("\n=== Finished after %d rounds in %s ===\n", w.Turn(), time.Since(start).Round(time.Millisecond))
	printReport(w, battles, showMap)
	if winner := w.Winner(); winner >= 0 {
		p, _ := w.Player(winner)
		fmt.Printf("%s wins.\n", p.Name)
	} else {
		fmt.Println("No winner.")
	}

	if ledger != nil {
		totals, err := ledger.CasualtyTotals(ctx, w.ID())
		if err != nil {
			return err
		}
		for _, c := range totals {
			p, _ := w.Player(c.PlayerID)
			fmt.Printf("  %-6s lost %s soldiers in %d battles\n", p.Name, humanize.Comma(int64(c.Lost)), c.Battles)
		}
	}
	return nil
}

func printReport(w *game.World, battles int, showMap string) {
	snap := w.Snapshot()
	if showMap != "none" {
		fmt.Print("\n", game.RenderMap(snap, showMap == "color"))
	}
	fmt.Printf("\nRound %d, %s battles fought\n", snap.Turn, humanize.Comma(int64(battles)))
	for _, p := range snap.Players {
		households, soldiers := 0, 0
		for _, c := range snap.Cities {
			if c.Owner == p.ID {
				households += c.Households
			}
		}
		for _, u := range snap.Units {
			if u.Owner == p.ID {
				soldiers += u.Population
			}
		}
		status := "alive"
		if !p.Alive {
			status = "eliminated"
		}
		fmt.Printf("  %-6s %2d cities %3d units %10s households %10s under arms  %s\n",
			p.Name, p.Cities, p.Units, humanize.Comma(int64(households)), humanize.Comma(int64(soldiers)), status)
	}
}

func setupLogging(level, format string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	if format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}
