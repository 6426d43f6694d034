package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"datawallet/internal/config"
	"datawallet/internal/db"
	"datawallet/internal/handlers"
	"datawallet/internal/otp"
	"datawallet/internal/services"
	"datawallet/internal/store"
	"datawallet/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		sugar.Fatalw("failed to connect database", "error", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	admins := store.NewAdminStore(database)
	transactions := store.NewTransactionStore(database)
	funding := store.NewFundingStore(database)
	bundles := store.NewCatalogStore(database)
	purchases := store.NewPurchaseStore(database)
	settings := store.NewSettingsStore(database)
	otps := store.NewOTPStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	minFundingKobo, err := cfg.MinFundingKobo()
	if err != nil {
		sugar.Fatalw("invalid funding minimum", "error", err)
	}

	ledger := services.NewLedgerService(txRunner, users, transactions, hub, sugar)
	fundingSvc := services.NewFundingService(txRunner, funding, ledger, hub, minFundingKobo, sugar)
	purchaseSvc := services.NewPurchaseService(txRunner, bundles, purchases, ledger, hub, sugar)
	referralSvc := services.NewReferralService(txRunner, users, ledger, sugar)

	var sender otp.Sender = otp.DisabledSender{}
	var telegram *otp.TelegramSender
	if cfg.TelegramBotToken != "" {
		telegram, err = otp.NewTelegramSender(cfg.TelegramBotToken, sugar)
		if err != nil {
			sugar.Fatalw("failed to init telegram bot", "error", err)
		}
		sender = telegram
	} else {
		sugar.Warnw("TELEGRAM_BOT_TOKEN not set, OTP delivery disabled")
	}
	otpSvc := otp.NewService(otps, sender, cfg.OTPTTL(), sugar)

	handler := handlers.New(cfg, sugar, txRunner, database,
		users, admins, transactions, bundles, purchases, settings,
		fundingSvc, purchaseSvc, referralSvc, otpSvc, hub)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		sugar.Infow("API listening", "addr", server.Addr, "env", cfg.AppEnv)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if telegram != nil {
		group.Go(func() error {
			telegram.Run(ctx, otps)
			return nil
		})
	}
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		sugar.Fatalw("server exited", "error", err)
	}
	sugar.Infow("shutdown complete")
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
