package main

import (
	"log"

	"arena/config"
	"arena/internal/arena"
	"arena/internal/db"
	"arena/internal/ledger"
	"arena/internal/nats"
	"arena/internal/server"
	temporal "arena/internal/workflow"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if _, err := db.InitDB(&cfg.Database); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.Migrate(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	natsConn, js, err := nats.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer natsConn.Close()

	if err := nats.ConfigureStream(js, &cfg.NATS.Stream); err != nil {
		log.Fatalf("Failed to configure JetStream: %v", err)
	}

	env := ledger.NewEnvironment()
	core := arena.NewCore(env, nats.NewEvents(js), logger)
	if cfg.Arena.UpgradeCost > 0 {
		core.SetUpgradeCost(cfg.Arena.UpgradeCost)
	}

	tc, err := temporal.StartWorker(cfg, core, db.GetDB())
	if err != nil {
		log.Fatalf("Failed to start Temporal worker: %v", err)
	}
	defer tc.Close()

	srv := server.New(cfg, core, tc, js, db.GetDB(), logger)
	if err := server.StartServer(srv); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
