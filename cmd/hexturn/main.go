package main

import (
	"flag"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"hexdominion/internal/config"
	"hexdominion/internal/events"
	"hexdominion/internal/model"
	"hexdominion/internal/resolver"
	"hexdominion/internal/store"
	"hexdominion/pkg/background"
	"hexdominion/pkg/logger"
)

// usage :
// Displays the usage of the CLI. Administrative commands here all invoke
// the same core functions a transport/TUI layer would: starting a game is config.NewGame,
// resolving a turn is resolver.ResolveTurn, and dumping a house's view is
// resolver.BuildFogOfWarViews.
func usage() {
	fmt.Println("Usage:")
	fmt.Println("  hexturn -config=[file] -turns=[n] -houses=[csv] -rings=[n] -seed=[n] -daemon")
	fmt.Println("  -config names an optional declarative balance/setup file (viper-readable,")
	fmt.Println("  see internal/config.Load for the recognized keys).")
	fmt.Println("  -turns resolves that many turns with empty order packets and dumps")
	fmt.Println("  each house's fog-of-war view and the turn's events after each one.")
	fmt.Println("  -daemon resolves one turn per -interval instead of resolving -turns")
	fmt.Println("  turns back-to-back, driven by a recurring background process.")
}

func main() {
	help := flag.Bool("h", false, "Print usage")
	conf := flag.String("config", "", "Declarative config file (ship/facility/setup overrides)")
	turns := flag.Int("turns", 1, "Number of turns to resolve")
	housesFlag := flag.String("houses", "", "Comma-separated house names, overrides config file")
	rings := flag.Int("rings", 0, "Galaxy ring count, 0 keeps the config/default value")
	seed := flag.Int64("seed", 0, "Master RNG seed, 0 keeps the config/default value")
	daemon := flag.Bool("daemon", false, "Resolve one turn per -interval instead of all -turns immediately")
	interval := flag.Duration("interval", 5*time.Second, "Tick interval when -daemon is set")

	flag.Parse()

	if *help {
		usage()
		return
	}

	log := logger.NewStdLogger("local", "localhost")
	defer func() {
		if err := recover(); err != nil {
			stack := string(debug.Stack())
			log.Trace(logger.Fatal, "main", fmt.Sprintf("hexturn crashed: %v (stack: %s)", err, stack))
		}
		log.Release()
	}()

	opts := config.ParseRuntime(*conf)
	if *housesFlag != "" {
		opts.Houses = strings.Split(*housesFlag, ",")
	}
	if *rings > 0 {
		opts.Rings = *rings
	}
	if *seed != 0 {
		opts.Seed = *seed
	}

	cfg := config.Load(*conf)
	cfg.RNGSeed = opts.Seed

	g, err := config.NewGame(cfg, opts.Houses, opts.Rings, opts.Seed)
	if err != nil {
		log.Trace(logger.Fatal, "main", fmt.Sprintf("could not start game: %v", err))
		return
	}
	log.Trace(logger.Info, "main", fmt.Sprintf("game started with %d houses on a %d-ring galaxy (seed %d)", len(opts.Houses), opts.Rings, opts.Seed))

	houseIDs := make([]model.HouseID, 0, g.Houses.Len())
	for _, h := range g.Houses.All() {
		houseIDs = append(houseIDs, h.ID)
	}

	runner := &turnRunner{g: g, cfg: cfg, seed: opts.Seed, houses: houseIDs, log: log}

	if !*daemon {
		for t := 0; t < *turns; t++ {
			if err := runner.resolveOne(); err != nil {
				log.Trace(logger.Error, "resolver", fmt.Sprintf("turn aborted: %v", err))
				break
			}
		}
		return
	}

	remaining := *turns
	proc := background.NewProcess(*interval, log).WithModule("hexturn")
	proc.WithOperation(func() (bool, error) {
		if remaining <= 0 {
			return true, nil
		}
		remaining--
		return true, runner.resolveOne()
	})
	if err := proc.Start(); err != nil {
		log.Trace(logger.Fatal, "main", fmt.Sprintf("could not start daemon: %v", err))
		return
	}
	time.Sleep(*interval * time.Duration(*turns+1))
	proc.Stop()
}

// turnRunner closes over the mutable game state - ResolveTurn mutates
// g in place and returns it as the new state (see internal/resolver's
// own doc comment), so the runner just reassigns its field each call.
type turnRunner struct {
	g      *store.GameState
	cfg    *model.ConfigSnapshot
	seed   int64
	houses []model.HouseID
	log    logger.Logger
}

func (r *turnRunner) resolveOne() error {
	packets := make([]model.OrderPacket, 0, len(r.houses))
	for _, h := range r.houses {
		packets = append(packets, model.OrderPacket{ID: uuid.New(), House: h, Turn: r.g.Turn + 1})
	}

	newState, turnLog, err := resolver.ResolveTurn(r.g, r.cfg, packets, r.seed)
	if err != nil {
		return err
	}
	r.g = newState
	r.report(turnLog)
	return nil
}

func (r *turnRunner) report(turnLog *events.Log) {
	r.log.Trace(logger.Notice, "turn", fmt.Sprintf("--- turn %d resolved, %d events ---", r.g.Turn, len(turnLog.All())))

	views := resolver.BuildFogOfWarViews(r.g, r.g.Turn)
	for _, h := range r.houses {
		view := views[h]
		visible := 0
		for _, vis := range view.Systems {
			if vis != model.Hidden {
				visible++
			}
		}
		r.log.Trace(logger.Info, "fog", fmt.Sprintf(
			"%s: %d/%d systems visible, %d colonies known, %d fleets detected",
			houseNameOf(r.g, h), visible, len(view.Systems), len(view.VisibleColonies), len(view.VisibleFleets),
		))

		for _, e := range turnLog.ForHouse(h) {
			r.log.Trace(logger.Debug, "event", fmt.Sprintf("[%s] kind=%d payload=%v", e.Phase, e.Kind, e.Payload))
		}
	}
}

func houseNameOf(g *store.GameState, h model.HouseID) string {
	if house, ok := g.Houses.Get(h); ok {
		return house.Name
	}
	return h.String()
}
