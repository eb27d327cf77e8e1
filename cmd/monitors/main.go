// Command monitors supervises a single match between two UGI/UCI
// engines (or one engine and a human driven from stdin), per the
// roster/run-config pair passed on the command line.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/toanth/monitors/internal/adjudicate"
	"github.com/toanth/monitors/internal/clock"
	"github.com/toanth/monitors/internal/config"
	"github.com/toanth/monitors/internal/matchstate"
	"github.com/toanth/monitors/internal/oracle"
	"github.com/toanth/monitors/internal/oracle/oracletest"
	"github.com/toanth/monitors/internal/orchestrator"
	"github.com/toanth/monitors/internal/protocol"
	"github.com/toanth/monitors/internal/registry"
	"github.com/toanth/monitors/internal/sink"
)

var (
	runConfigPath    = flag.String("config", "", "path to a TOML run config")
	engineRosterPath = flag.String("roster", "", "path to a JSON engine roster")
	verbose          = flag.Bool("v", false, "enable debug-level logging")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: monitors -config run.toml -roster engines.json

monitors supervises one match between two UGI/UCI engines.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if *runConfigPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	log := newLogger(*verbose)
	defer log.Sync()

	if err := run(log); err != nil {
		log.Error("match ended with an error", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	log, err := cfg.Build()
	if err != nil {
		log = zap.NewNop()
	}
	return log
}

func run(log *zap.Logger) error {
	runCfg, err := config.LoadRunConfig(*runConfigPath)
	if err != nil {
		return fmt.Errorf("loading run config: %w", err)
	}

	var roster config.EngineRoster
	if *engineRosterPath != "" {
		roster, err = config.LoadEngineRoster(*engineRosterPath)
		if err != nil {
			return fmt.Errorf("loading engine roster: %w", err)
		}
	}

	names := registry.NewNameSet()
	game := oracletest.New(100)

	white, whiteLimit, err := buildSlot(runCfg.White, roster, names, log)
	if err != nil {
		return fmt.Errorf("configuring white: %w", err)
	}
	black, blackLimit, err := buildSlot(runCfg.Black, roster, names, log)
	if err != nil {
		return fmt.Errorf("configuring black: %w", err)
	}

	match := matchstate.NewMatchState(game, runCfg.Event, runCfg.Site, white, black)

	limitsByColor := map[oracle.Color]clock.SearchLimit{
		oracle.White: whiteLimit,
		oracle.Black: blackLimit,
	}

	adj := buildAdjudicator(runCfg.Adjudication, white.Kind == matchstate.PlayerHuman || black.Kind == matchstate.PlayerHuman)

	sinks := sink.Multi{sink.NewText(os.Stdout), sink.NewZapLog(log)}
	var live *sink.Live
	if runCfg.LiveSpectator.Enabled {
		live = sink.NewLive(log)
		sinks = append(sinks, live)
		go serveLive(live, runCfg.LiveSpectator.Addr, log)
	}

	o, err := orchestrator.New(match, limitsByColor, adj, sinks, log, names)
	if err != nil {
		return fmt.Errorf("starting match: %w", err)
	}

	orchestrator.Run(o, orchestrator.NewStdinDriver(os.Stdin), log)
	return nil
}

func buildSlot(pc config.PlayerConfig, roster config.EngineRoster, names *registry.NameSet, log *zap.Logger) (matchstate.PlayerSlot, clock.SearchLimit, error) {
	if pc.Human {
		return matchstate.PlayerSlot{Kind: matchstate.PlayerHuman, Name: "human"}, clock.InfiniteLimit(), nil
	}

	entry, ok := roster.Find(pc.EngineName)
	if !ok {
		return matchstate.PlayerSlot{}, clock.SearchLimit{}, fmt.Errorf("engine %q not found in roster", pc.EngineName)
	}
	displayName := names.MakeUnique(entry.DisplayName)

	remaining, increment, fixedTime := pc.TimeControlDurations()
	limit := clock.SearchLimit{
		TC:        clock.TimeControl{Remaining: remaining, Increment: increment, MovesToGo: pc.MovesToGo},
		FixedTime: fixedTime,
		Depth:     clock.MaxCount,
		Nodes:     ^uint64(0),
		Mate:      clock.MaxCount,
	}
	if pc.Depth != 0 {
		limit.Depth = pc.Depth
	}
	if pc.Nodes != 0 {
		limit.Nodes = uint64(pc.Nodes)
	}
	if remaining == 0 {
		limit.TC.Remaining = clock.Infinite
	}
	if fixedTime == 0 {
		limit.FixedTime = clock.Infinite
	}

	slot := matchstate.PlayerSlot{
		Kind: matchstate.PlayerEngine,
		Name: displayName,
		Engine: &matchstate.EngineState{
			DisplayName: displayName,
			TC:          limit.TC,
			Builder:     entry.Builder(log),
		},
	}
	return slot, limit, nil
}

func buildAdjudicator(sec config.AdjudicationSection, humanPresent bool) *adjudicate.Adjudicator {
	if !sec.Enabled {
		return nil
	}
	return &adjudicate.Adjudicator{
		Draw: &adjudicate.ScoreAdjudication{
			Threshold:      protocol.Score(sec.DrawThreshold),
			RequiredStreak: sec.DrawStreak,
			StartAfterPly:  sec.DrawStartPly,
		},
		Resign: &adjudicate.ScoreAdjudication{
			Threshold:      protocol.Score(sec.ResignThreshold),
			RequiredStreak: sec.ResignStreak,
			StartAfterPly:  sec.ResignStartPly,
		},
		MaxMovesUntilDraw: sec.MaxMovesUntilDraw,
		HumanPresent:      humanPresent,
	}
}

func serveLive(live *sink.Live, addr string, log *zap.Logger) {
	if addr == "" {
		addr = ":8080"
	}
	log.Info("live spectator endpoint listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, live.Handler()); err != nil {
		log.Error("live spectator server stopped", zap.Error(err))
	}
}
