package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"flour-ledger/internal/backup"
	"flour-ledger/internal/config"
	"flour-ledger/internal/database"
	"flour-ledger/internal/router"
	"flour-ledger/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Printf("flour-ledger: %v", err)
		os.Exit(1)
	}
}

// run starts the server and blocks until it stops.
func run(configPath string) error {
	// load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Log.File)); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	if err := ensureDir(cfg.Backup.Dir); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	logger, closeLog, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closeLog()

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		config.LogError(logger, "main", "database.Init", cfg.Database.Path, err)
		return err
	}
	defer database.Close(db)

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		config.LogError(logger, "main", "database.AutoMigrate", nil, err)
		return err
	}

	// one clock for every service so createdAt stays unique across tables
	clock := service.MonotonicClock()
	svc := router.Services{
		Users:    service.NewUserService(db, logger, clock),
		Orders:   service.NewOrderService(db, logger, clock),
		Invoices: service.NewInvoiceService(db, logger, clock),
	}
	if cfg.Backup.Secret != "" {
		svc.Backups = backup.New(db, cfg.Backup.Dir, cfg.Backup.Secret, logger)
	} else {
		logger.Warn("backup.secret is empty, backup endpoints disabled")
	}

	r := router.SetupRouter(cfg, logger, svc)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	logger.WithField("addr", addr).Info("server listening")
	if err := r.Run(addr); err != nil {
		config.LogError(logger, "main", "Run", addr, err)
		return err
	}
	return nil
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
