// Command cardimport loads YAML card templates into PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/magefree/mage-cardfactory/internal/config"
	"github.com/magefree/mage-cardfactory/internal/game/cardb"
)

var configPath = flag.String("config", "", "path to configuration file")

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

	path := cfg.Cards.Path
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, path, logger); err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, path string, logger *zap.Logger) error {
	rows, err := readRows(ctx, path, logger)
	if err != nil {
		return err
	}
	// Validate the whole set before touching the database.
	if _, err := cardb.NewStore(rows); err != nil {
		return err
	}
	templates := make([]*cardb.Template, 0, len(rows))
	for _, r := range rows {
		templates = append(templates, r.Template)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("parsing database url: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Database.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	if _, err := pool.Exec(ctx, cardb.Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	start := time.Now()
	imported, err := cardb.ImportPostgres(ctx, pool, templates, cfg.Database.BatchSize, logger)
	if err != nil {
		return err
	}
	logger.Info("import complete",
		zap.String("path", path),
		zap.Int("imported", imported),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func readRows(ctx context.Context, path string, logger *zap.Logger) ([]cardb.Row, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return cardb.ReadDir(ctx, path, logger)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return cardb.DecodeYAML(f, path)
}
