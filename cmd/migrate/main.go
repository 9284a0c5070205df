package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/gestor/backend/internal/infrastructure/logger"
	"github.com/gestor/backend/internal/infrastructure/persistence"
	"github.com/gestor/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		log.Info("Running schema migration",
			zap.String("database", cfg.Database.DBName),
			zap.String("host", cfg.Database.Host),
		)
		if err := db.DB.AutoMigrate(allModels()...); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		// at most one OPEN register session per tenant
		if err := db.DB.Exec(
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_cash_registers_open_tenant
			 ON cash_registers (tenant_id) WHERE status = 'OPEN'`,
		).Error; err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Migration completed successfully")

	case "status":
		migrator := db.DB.Migrator()
		for _, model := range allModels() {
			stmt := &gorm.Statement{DB: db.DB}
			_ = stmt.Parse(model)
			log.Info("Table status",
				zap.String("table", stmt.Table),
				zap.Bool("exists", migrator.HasTable(model)),
			)
		}

	default:
		printUsage()
		os.Exit(1)
	}
}

// allModels lists every persisted model in dependency order so foreign
// keys resolve during migration.
func allModels() []interface{} {
	return []interface{}{
		&models.OrganizationModel{},
		&models.UserModel{},
		&models.ContactModel{},
		&models.ContactPhoneModel{},
		&models.ContactAddressModel{},
		&models.ProductModel{},
		&models.PaymentMethodModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.OrderPaymentModel{},
		&models.ReceivableModel{},
		&models.CashRegisterModel{},
		&models.CashMovementModel{},
	}
}

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  up      Apply the schema to the configured database")
	fmt.Println("  status  Show which tables exist")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  -log-level  Log level (debug, info, warn, error)")
}
