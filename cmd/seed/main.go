package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"datawallet/internal/auth"
	"datawallet/internal/config"
	"datawallet/internal/db"
	"datawallet/internal/money"
	"datawallet/internal/store"
)

type bundleSeed struct {
	network    string
	dataAmount string
	validity   string
	price      string
}

var bundleSeeds = []bundleSeed{
	{"9mobile", "500MB", "30 days", "120"},
	{"9mobile", "1GB", "30 days", "200"},
	{"9mobile", "2GB", "30 days", "380"},
	{"9mobile", "3GB", "30 days", "550"},
	{"9mobile", "5GB", "30 days", "900"},
	{"9mobile", "10GB", "30 days", "1700"},
	{"9mobile", "15GB", "30 days", "2500"},
	{"9mobile", "20GB", "30 days", "3200"},
	{"MTN", "500MB", "30 days", "150"},
	{"MTN", "1GB", "30 days", "250"},
	{"MTN", "2GB", "30 days", "480"},
	{"MTN", "3GB", "30 days", "700"},
	{"MTN", "5GB", "30 days", "1100"},
	{"MTN", "10GB", "30 days", "2100"},
	{"MTN", "20GB", "30 days", "4000"},
	{"MTN", "40GB", "30 days", "7500"},
	{"Glo", "1GB", "30 days", "230"},
	{"Glo", "2GB", "30 days", "400"},
	{"Glo", "3GB", "30 days", "600"},
	{"Glo", "5GB", "30 days", "950"},
	{"Glo", "10GB", "30 days", "1800"},
	{"Glo", "15GB", "30 days", "2600"},
	{"Glo", "25GB", "30 days", "4200"},
	{"Airtel", "750MB", "14 days", "200"},
	{"Airtel", "1.5GB", "30 days", "350"},
	{"Airtel", "3GB", "30 days", "650"},
	{"Airtel", "6GB", "30 days", "1200"},
	{"Airtel", "10GB", "30 days", "1900"},
	{"Airtel", "15GB", "30 days", "2800"},
	{"Airtel", "25GB", "30 days", "4500"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	admins := store.NewAdminStore(database)
	bundles := store.NewCatalogStore(database)
	settings := store.NewSettingsStore(database)

	err = db.WithTx(ctx, database, func(tx *sqlx.Tx) error {
		if err := seedAdmin(ctx, tx, admins); err != nil {
			return err
		}
		if err := seedPaymentSettings(ctx, tx, settings); err != nil {
			return err
		}
		return seedBundles(ctx, tx, bundles)
	})
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	fmt.Println("seed complete")
}

func seedAdmin(ctx context.Context, tx *sqlx.Tx, admins *store.AdminStore) error {
	exists, err := admins.HasAny(ctx)
	if err != nil {
		return err
	}
	if exists {
		fmt.Println("admin already present, skipping")
		return nil
	}
	username := envOr("SEED_ADMIN_USERNAME", "vesta")
	password := envOr("SEED_ADMIN_PASSWORD", "vesta")
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := admins.Create(ctx, tx, uuid.NewString(), username, hash); err != nil {
		return err
	}
	fmt.Printf("created admin %q\n", username)
	return nil
}

func seedPaymentSettings(ctx context.Context, tx *sqlx.Tx, settings *store.SettingsStore) error {
	if _, err := settings.Get(ctx); err == nil {
		fmt.Println("payment settings already present, skipping")
		return nil
	}
	bankName := envOr("SEED_BANK_NAME", "Moniepoint")
	accountNumber := envOr("SEED_ACCOUNT_NUMBER", "8121320468")
	accountName := envOr("SEED_ACCOUNT_NAME", "Keno")
	if err := settings.Upsert(ctx, tx, bankName, accountNumber, accountName); err != nil {
		return err
	}
	fmt.Println("created payment settings")
	return nil
}

func seedBundles(ctx context.Context, tx *sqlx.Tx, bundles *store.CatalogStore) error {
	exists, err := bundles.HasAny(ctx)
	if err != nil {
		return err
	}
	if exists {
		fmt.Println("bundles already present, skipping")
		return nil
	}
	for _, seed := range bundleSeeds {
		priceKobo, err := money.ParseKobo(seed.price)
		if err != nil {
			return fmt.Errorf("bundle %s %s: %w", seed.network, seed.dataAmount, err)
		}
		bundle := store.DataBundle{
			ID:         uuid.NewString(),
			Network:    seed.network,
			DataAmount: seed.dataAmount,
			Validity:   seed.validity,
			PriceKobo:  priceKobo,
			IsActive:   true,
		}
		if err := bundles.Create(ctx, tx, bundle); err != nil {
			return err
		}
	}
	fmt.Printf("created %d data bundles\n", len(bundleSeeds))
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
