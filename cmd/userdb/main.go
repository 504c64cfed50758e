package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/arllen133/userdb/config"
	"github.com/arllen133/userdb/database"
	"github.com/arllen133/userdb/logger"
	"github.com/arllen133/userdb/orm"
	"github.com/arllen133/userdb/shell"
	"github.com/arllen133/userdb/user"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	demo := flag.Bool("demo", false, "run the scripted demo instead of the interactive menu")
	flag.Parse()

	if err := run(context.Background(), *configPath, *demo); err != nil {
		fmt.Printf("❌ Error: %v\n", err)
	}
}

func run(ctx context.Context, configPath string, demo bool) error {
	fmt.Println("🚀 Users Console CRUD")
	fmt.Println("=====================")
	fmt.Println()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer log.Sync()

	db, dialect, err := database.Open(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	sess := orm.NewSession(db, dialect, sessionOptions(cfg, log)...)

	fmt.Println("📦 Preparing database...")
	if err := orm.EnsureSchema(ctx, sess, user.Table()); err != nil {
		log.Error("schema bootstrap failed", zap.Error(err))
		return err
	}
	fmt.Println("✅ Database ready!")

	sh := shell.New(user.NewService(sess, log), os.Stdin, os.Stdout)
	if demo {
		return sh.RunDemo(ctx)
	}
	return sh.Run(ctx)
}

func sessionOptions(cfg *config.Config, log *zap.Logger) []orm.SessionOption {
	opts := []orm.SessionOption{
		orm.WithLogger(log),
		orm.WithSlowQueryThreshold(cfg.Observability.SlowQueryThreshold),
		orm.WithQueryLogging(cfg.Observability.LogQueries),
	}
	if cfg.Observability.Tracing {
		opts = append(opts, orm.WithDefaultTracer())
	}
	if cfg.Observability.Metrics {
		opts = append(opts, orm.WithDefaultMeter())
	}
	return opts
}
