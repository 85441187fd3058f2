package services

import (
	"log"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"backoffice-service/internal/models"
)

// NOTE: These tests require a running MySQL instance. They skip when
// DATABASE_URL is not set, so the pure calculator tests still run in a
// bare environment.

var testDB *gorm.DB

func setup() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("Skipping DB tests: DATABASE_URL not set")
		return
	}

	var err error
	testDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		return
	}

	// Migrate schemas
	testDB.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.WalletTransaction{},
		&models.ArchivedWalletTransaction{},
		&models.ShopOnboarding{},
		&models.BankTransfer{},
		&models.RewardPass{},
		&models.WithdrawalRequest{},
	)
}

func cleanup() {
	if testDB != nil {
		testDB.Exec("DELETE FROM wallet_transactions")
		testDB.Exec("DELETE FROM archived_wallet_transactions")
		testDB.Exec("DELETE FROM shop_onboardings")
		testDB.Exec("DELETE FROM bank_transfers")
		testDB.Exec("DELETE FROM reward_passes")
		testDB.Exec("DELETE FROM withdrawal_requests")
		testDB.Exec("DELETE FROM wallets")
		testDB.Exec("DELETE FROM users")
	}
}

func seedAgent(t *testing.T, username string) models.User {
	t.Helper()
	users := NewUserService(testDB, zap.NewNop())
	user, err := users.CreateUser(CreateUserDTO{Username: username, Role: "agent"})
	if err != nil {
		t.Fatalf("seed agent failed: %v", err)
	}
	return user
}

func TestCreditThenBalance(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "ledger_agent_1")
	svc := NewLedgerService(testDB, zap.NewNop())

	applied, err := svc.Credit(LedgerEntryDTO{
		UserId:        agent.ID,
		Amount:        decimal.NewFromInt(200),
		ReferenceType: models.RefManualCredit,
		Remark:        "opening credit",
	})
	if err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if !applied {
		t.Error("Expected credit to apply")
	}

	balance, err := svc.Balance(agent.ID)
	if err != nil {
		t.Fatalf("Balance failed: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(200)) {
		t.Errorf("Expected balance 200, got %s", balance)
	}
}

func TestCreditIdempotency(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "ledger_agent_2")
	svc := NewLedgerService(testDB, zap.NewNop())

	refId := 999
	entry := LedgerEntryDTO{
		UserId:        agent.ID,
		Amount:        decimal.NewFromInt(240),
		ReferenceType: models.RefOnboardingPayout,
		ReferenceId:   &refId,
	}

	applied, err := svc.Credit(entry)
	if err != nil || !applied {
		t.Fatalf("First credit: applied=%v err=%v", applied, err)
	}

	// Same key again: no-op, no error.
	applied, err = svc.Credit(entry)
	if err != nil {
		t.Fatalf("Duplicate credit errored: %v", err)
	}
	if applied {
		t.Error("Expected duplicate credit to be ignored")
	}

	balance, _ := svc.Balance(agent.ID)
	if !balance.Equal(decimal.NewFromInt(240)) {
		t.Errorf("Expected balance 240 after duplicate, got %s", balance)
	}

	var count int64
	testDB.Model(&models.WalletTransaction{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 ledger row, got %d", count)
	}
}

func TestDebitInsufficientFunds(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "ledger_agent_3")
	svc := NewLedgerService(testDB, zap.NewNop())

	svc.Credit(LedgerEntryDTO{
		UserId:        agent.ID,
		Amount:        decimal.NewFromInt(100),
		ReferenceType: models.RefManualCredit,
	})

	err := svc.Debit(LedgerEntryDTO{
		UserId:        agent.ID,
		Amount:        decimal.NewFromInt(150),
		ReferenceType: models.RefWithdrawal,
	})
	if err != ErrInsufficientFunds {
		t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
	}

	// Balance untouched, no debit row written.
	balance, _ := svc.Balance(agent.ID)
	if !balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected balance 100 after failed debit, got %s", balance)
	}
	var count int64
	testDB.Model(&models.WalletTransaction{}).Where("transaction_type = ?", models.TrxDebit).Count(&count)
	if count != 0 {
		t.Errorf("Expected no debit rows, got %d", count)
	}
}

func TestBalanceEqualsLedgerSum(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "ledger_agent_4")
	svc := NewLedgerService(testDB, zap.NewNop())

	amounts := []int64{200, 240, 120}
	for i, a := range amounts {
		refId := i + 1
		svc.Credit(LedgerEntryDTO{
			UserId:        agent.ID,
			Amount:        decimal.NewFromInt(a),
			ReferenceType: models.RefOnboardingPayout,
			ReferenceId:   &refId,
		})
	}
	svc.Debit(LedgerEntryDTO{
		UserId:        agent.ID,
		Amount:        decimal.NewFromInt(160),
		ReferenceType: models.RefWithdrawal,
	})

	balance, _ := svc.Balance(agent.ID)
	if !balance.Equal(decimal.NewFromInt(400)) {
		t.Errorf("Expected balance 400, got %s", balance)
	}

	// The newest entry carries the running balance.
	var last models.WalletTransaction
	testDB.Order("id DESC").First(&last)
	if !last.Balance.Equal(balance) {
		t.Errorf("Running balance %s does not match wallet balance %s", last.Balance, balance)
	}
}

func TestCreditRejectsBadInput(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "ledger_agent_5")
	svc := NewLedgerService(testDB, zap.NewNop())

	_, err := svc.Credit(LedgerEntryDTO{
		UserId:        agent.ID,
		Amount:        decimal.NewFromInt(-5),
		ReferenceType: models.RefManualCredit,
	})
	if err != ErrInvalidAmount {
		t.Errorf("Expected ErrInvalidAmount for negative amount, got %v", err)
	}

	_, err = svc.Credit(LedgerEntryDTO{
		UserId:        9999999,
		Amount:        decimal.NewFromInt(10),
		ReferenceType: models.RefManualCredit,
	})
	if err != ErrUnknownUser {
		t.Errorf("Expected ErrUnknownUser, got %v", err)
	}
}

func TestHistoryPaginationAndFilter(t *testing.T) {
	if testDB == nil {
		t.Skip("Database not configured")
	}
	defer cleanup()

	agent := seedAgent(t, "ledger_agent_6")
	svc := NewLedgerService(testDB, zap.NewNop())

	for i := 0; i < 3; i++ {
		refId := i + 1
		svc.Credit(LedgerEntryDTO{
			UserId:        agent.ID,
			Amount:        decimal.NewFromInt(200),
			ReferenceType: models.RefOnboardingPayout,
			ReferenceId:   &refId,
		})
	}
	svc.Credit(LedgerEntryDTO{
		UserId:        agent.ID,
		Amount:        decimal.NewFromInt(50),
		ReferenceType: models.RefManualCredit,
	})

	result, err := svc.History(HistoryDTO{UserId: agent.ID, Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if result.Count != 4 {
		t.Errorf("Expected 4 total entries, got %d", result.Count)
	}
	if result.LastPage != 2 {
		t.Errorf("Expected 2 pages at limit 2, got %d", result.LastPage)
	}

	filtered, err := svc.History(HistoryDTO{UserId: agent.ID, Kind: models.RefManualCredit})
	if err != nil {
		t.Fatalf("Filtered history failed: %v", err)
	}
	if filtered.Count != 1 {
		t.Errorf("Expected 1 manual credit entry, got %d", filtered.Count)
	}
}

func TestMain(m *testing.M) {
	setup()
	code := m.Run()
	os.Exit(code)
}
