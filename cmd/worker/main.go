package main

import (
	"log"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"backoffice-service/internal/config"
	"backoffice-service/internal/consumers"
	"backoffice-service/internal/database"
	"backoffice-service/internal/logger"
	"backoffice-service/internal/services"
	"backoffice-service/internal/worker"
)

func main() {
	// Load env
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found in ../../.env, trying .env")
		if err := godotenv.Load(".env"); err != nil {
			log.Println("No .env file found, using system env")
		}
	}

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	cfg := config.Load()

	// Connect DB
	database.Connect()
	db := database.DB

	// Init Services. The worker never enqueues, so the payout service
	// runs without an asynq client; asynq itself owns the retries here.
	calc := services.NewSlabCalculator(cfg.Payout)
	ledgerService := services.NewLedgerService(db, zlog)
	payoutService := services.NewPayoutService(db, ledgerService, calc, nil, zlog)

	// Processor
	processor := consumers.NewPayoutProcessor(payoutService, zlog)

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr}

	log.Println("Starting Asynq Worker...")
	worker.StartWorker(redisOpt, processor)
}
