package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"backoffice-service/internal/config"
	"backoffice-service/internal/database"
	"backoffice-service/internal/handlers"
	"backoffice-service/internal/logger"
	"backoffice-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found in current directory, trying parent")
		if err := godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found, using system environment variables")
		}
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	zlog, err := logger.New()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	cfg := config.Load()

	// Initialize Database
	database.Connect()
	database.Migrate()
	db := database.DB

	// Redis/Asynq Client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asynqClient.Close()

	// Init Services
	calc := services.NewSlabCalculator(cfg.Payout)
	userService := services.NewUserService(db, zlog)
	ledgerService := services.NewLedgerService(db, zlog)
	payoutService := services.NewPayoutService(db, ledgerService, calc, asynqClient, zlog)
	approvalService := services.NewApprovalService(db, userService, ledgerService, payoutService, zlog)
	reportService := services.NewReportService(db, calc, zlog)

	// Handlers
	userHandler := handlers.NewUserHandler(userService)
	walletHandler := handlers.NewWalletHandler(ledgerService)
	approvalHandler := handlers.NewApprovalHandler(approvalService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Initialize Gin
	r := gin.Default()

	// Ping endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome To Backoffice Payout service",
		})
	})

	// User Routes
	r.POST("/users", userHandler.CreateUser)
	r.GET("/users/:id", userHandler.GetUser)

	// Wallet Routes
	r.GET("/wallets/balance", walletHandler.GetBalance)
	r.POST("/wallets/credit", walletHandler.ManualCredit)
	r.GET("/wallets/transactions", walletHandler.GetTransactions)

	// Shop Onboarding Routes
	r.POST("/onboardings", approvalHandler.CreateOnboarding)
	r.POST("/onboardings/:id/review", approvalHandler.ReviewOnboarding)
	r.POST("/onboardings/:id/admin-review", approvalHandler.AdminReviewOnboarding)

	// Bank Transfer Routes
	r.POST("/transfers", approvalHandler.CreateTransfer)
	r.POST("/transfers/:id/review", approvalHandler.ReviewTransfer)

	// Reward Pass Routes
	r.POST("/reward-passes", approvalHandler.CreateRewardPass)
	r.POST("/reward-passes/:id/review", approvalHandler.ReviewRewardPass)

	// Withdrawal Routes
	r.POST("/withdrawals", approvalHandler.RequestWithdrawal)
	r.POST("/withdrawals/:id/review", approvalHandler.ReviewWithdrawal)

	// Report Routes
	r.GET("/reports/fees", reportHandler.GetFeeDeductions)
	r.GET("/reports/agents/:id/monthly", reportHandler.GetAgentMonthly)

	// Start Cron Schedulers
	archiveService := services.NewLedgerArchiveService(db, zlog)
	archiveService.StartScheduler()

	log.Printf("HTTP Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
