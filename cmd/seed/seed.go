package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"task-board/internal/config"
	"task-board/internal/database"
	"task-board/internal/logger"
	"task-board/internal/seed"
)

var (
	loadConfig      = config.LoadDatabase
	newLogger       = logger.New
	newPgxPool      = database.NewPgxPool
	runMigrationsFn = database.RunMigrations
	runSeed         = seed.Run
	exitFunc        = os.Exit
)

var stdout io.Writer = os.Stdout

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}

	log := newLogger(cfg.IsProduction(), cfg.Logging.Level, "task-board-seed")
	defer func() { _ = log.Sync() }()

	if err := runMigrationsFn(cfg.Database.URL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	ctx := context.Background()
	db, err := newPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	res, err := runSeed(ctx, db)
	if errors.Is(err, seed.ErrAlreadySeeded) {
		log.Infow("demo data already present, nothing to do", "email", seed.DemoEmail)
		return nil
	}
	if err != nil {
		return err
	}

	log.Infow("seeded demo data",
		"user_id", res.User.ID,
		"workspace_id", res.Workspace.ID,
		"project_id", res.Project.ID,
	)
	fmt.Fprintln(stdout, "Seeded. Project ID:", res.Project.ID)
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
