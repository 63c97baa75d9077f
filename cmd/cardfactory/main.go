package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/magefree/mage-cardfactory/internal/config"
	"github.com/magefree/mage-cardfactory/internal/game/card"
	"github.com/magefree/mage-cardfactory/internal/game/cardb"
	"github.com/magefree/mage-cardfactory/internal/game/factory"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	cardName   = flag.String("card", "", "print a single bound card")
	randomN    = flag.Int("random", 0, "print n distinct random cards from the pool")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting card factory",
		zap.String("version", version),
		zap.String("config", *configPath),
		zap.String("source", cfg.Cards.Source),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("card factory failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("card templates loaded", zap.Int("cards", store.Len()))

	seed := cfg.Factory.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	owner := card.PlayerID(cfg.Factory.DefaultOwner)
	f := factory.New(store,
		factory.WithLogger(logger),
		factory.WithRand(rand.New(rand.NewSource(seed))),
		factory.WithPoolOwner(owner),
	)

	switch {
	case *cardName != "":
		c, err := f.Card(*cardName, owner)
		if err != nil {
			if errors.Is(err, cardb.ErrUnknownCard) {
				return fmt.Errorf("no card named %q", *cardName)
			}
			return err
		}
		printCard(logger, c)
	case *randomN > 0:
		cards, err := f.RandomCombination(*randomN)
		if err != nil {
			return err
		}
		for _, c := range cards {
			printCard(logger, c)
		}
	default:
		bound := 0
		for c := range f.All() {
			bound++
			logger.Debug("card bound", zap.Stringer("card", c), zap.Int("abilities", len(c.Abilities())))
		}
		logger.Info("card pool bound",
			zap.Int("templates", store.Len()),
			zap.Int("bound", bound),
		)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*cardb.Store, error) {
	if cfg.Cards.Source == config.SourcePostgres {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		defer pool.Close()
		return cardb.LoadPostgres(ctx, pool, cfg.Cards.Removed...)
	}

	info, err := os.Stat(cfg.Cards.Path)
	if err != nil {
		return nil, fmt.Errorf("card path: %w", err)
	}
	if info.IsDir() {
		return cardb.LoadDir(ctx, cfg.Cards.Path, logger, cfg.Cards.Removed...)
	}
	return cardb.LoadFile(cfg.Cards.Path, cfg.Cards.Removed...)
}

func printCard(logger *zap.Logger, c *card.Instance) {
	abilities := make([]string, 0, len(c.Abilities()))
	for _, a := range c.Abilities() {
		abilities = append(abilities, a.String())
	}
	statics := make([]string, 0, len(c.Statics()))
	for _, a := range c.Statics() {
		statics = append(statics, a.Description)
	}
	hooks := make(map[string]int)
	for _, h := range []card.Hook{card.HookEnter, card.HookLeave, card.HookDestroy, card.HookControlChange} {
		if n := len(c.Commands(h)); n > 0 {
			hooks[h.String()] = n
		}
	}

	logger.Info("card",
		zap.Stringer("card", c),
		zap.String("cost", c.ManaCost),
		zap.Strings("types", c.Types),
		zap.Strings("keywords", c.Keywords()),
		zap.Strings("abilities", abilities),
		zap.Strings("statics", statics),
		zap.Any("hooks", hooks),
		zap.Int("triggers", len(c.Triggers)),
	)
}
