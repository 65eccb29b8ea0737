package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/config"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/database/migrations"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", "up", "migration direction: up, down or version")
	steps := flag.Int("steps", 1, "number of migrations to roll back with -direction=down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		fmt.Println("Error creating logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolSize{MaxConns: 2, MinConns: 1})
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}
	defer db.Close()

	sqlDB := db.SQLDB()
	defer sqlDB.Close()

	switch *direction {
	case "up":
		if err := migrations.Up(sqlDB); err != nil {
			log.Fatal("migrate up", zap.Error(err))
		}
		if err := migrations.VerifySchema(ctx, sqlDB); err != nil {
			log.Fatal("verify schema", zap.Error(err))
		}
		log.Info("migrations applied")
	case "down":
		if err := migrations.Down(sqlDB, *steps); err != nil {
			log.Fatal("migrate down", zap.Error(err))
		}
		log.Info("migrations rolled back", zap.Int("steps", *steps))
	case "version":
		version, dirty, err := migrations.Version(sqlDB)
		if err != nil {
			log.Fatal("read schema version", zap.Error(err))
		}
		log.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	default:
		log.Fatal("unknown direction", zap.String("direction", *direction))
	}
}
