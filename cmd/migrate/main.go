package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const commandTimeout = 2 * time.Minute

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
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	log.Info("Migration CLI started", zap.String("command", command))

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("Failed to close database", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	switch command {
	case "up":
		if err := persistence.AutoMigrate(ctx, db.DB); err != nil {
			log.Fatal("Schema migration failed", zap.Error(err))
		}
		log.Info("Schema is up to date", zap.Int("tables", len(persistence.Models())))

	case "create-admin":
		fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
		email := fs.String("email", "", "Administrator email")
		password := fs.String("password", "", "Administrator password")
		_ = fs.Parse(args[1:])
		if err := createAdmin(ctx, db, *email, *password); err != nil {
			log.Fatal("Failed to create administrator", zap.Error(err))
		}
		log.Info("Administrator created", zap.String("email", identity.NormalizeEmail(*email)))

	case "seed-shipping":
		fs := flag.NewFlagSet("seed-shipping", flag.ExitOnError)
		country := fs.String("country", "US", "Country code of the domestic zone")
		amount := fs.String("amount", "5.99", "Flat shipping amount")
		free := fs.String("free-over", "", "Subtotal above which shipping is free (optional)")
		_ = fs.Parse(args[1:])
		zone, err := seedShipping(ctx, db, *country, *amount, *free)
		if err != nil {
			log.Fatal("Failed to seed shipping", zap.Error(err))
		}
		log.Info("Shipping seeded",
			zap.String("zone_id", zone.ID.String()),
			zap.Strings("countries", zone.Countries),
		)

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func createAdmin(ctx context.Context, db *persistence.Database, email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.New("-email and -password are required")
	}
	repo := persistence.NewGormUserRepository(db.DB)
	exists, err := repo.ExistsByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("user %s already exists", email)
	}
	admin, err := identity.NewAdmin(email, password)
	if err != nil {
		return err
	}
	return repo.Save(ctx, admin)
}

// seedShipping creates a domestic zone with one flat-rate standard method
func seedShipping(ctx context.Context, db *persistence.Database, country, amount, freeOver string) (*shipping.Zone, error) {
	base, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid -amount: %w", err)
	}
	spec := shipping.MethodSpec{
		Name:            "Standard",
		Code:            "standard",
		Carrier:         "Postal",
		MinDeliveryDays: 3,
		MaxDeliveryDays: 7,
	}
	if freeOver != "" {
		threshold, err := decimal.NewFromString(freeOver)
		if err != nil {
			return nil, fmt.Errorf("invalid -free-over: %w", err)
		}
		spec.FreeShippingThreshold = &threshold
	}

	zone, err := shipping.NewZone("Domestic", shipping.ZoneRules{Countries: []string{country}}, 0)
	if err != nil {
		return nil, err
	}
	method, err := shipping.NewMethod(zone.ID, spec)
	if err != nil {
		return nil, err
	}
	rate, err := shipping.NewRate(method.ID, shipping.RateSpec{
		Type:       shipping.RateTypeFlat,
		BaseAmount: base,
	})
	if err != nil {
		return nil, err
	}

	zones := persistence.NewGormShippingZoneRepository(db.DB)
	methods := persistence.NewGormShippingMethodRepository(db.DB)
	if err := zones.Save(ctx, zone); err != nil {
		return nil, err
	}
	if err := methods.Save(ctx, method); err != nil {
		return nil, err
	}
	if err := methods.SaveRate(ctx, rate); err != nil {
		return nil, err
	}
	return zone, nil
}

func printUsage() {
	fmt.Println(`Marketplace Database Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                                  Create or update all tables
  create-admin -email E -password P   Create an administrator account
  seed-shipping [-country US] [-amount 5.99] [-free-over 50]
                                      Create a domestic zone with a flat-rate method

Flags:
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  MKT_DATABASE_HOST, MKT_DATABASE_PORT, MKT_DATABASE_USER,
  MKT_DATABASE_PASSWORD, MKT_DATABASE_DBNAME, MKT_DATABASE_SSLMODE`)
}
