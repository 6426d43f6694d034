package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"datawallet/internal/config"
	"datawallet/internal/db"
	"datawallet/internal/middleware"
	"datawallet/internal/store"
	"datawallet/internal/websocket"
)

type Handler struct {
	cfg          config.Config
	log          *zap.SugaredLogger
	txRunner     db.TxRunner
	reconcileDB  store.Selecter
	users        UserStore
	admins       AdminStore
	transactions TransactionStore
	bundles      CatalogStore
	purchases    PurchaseStore
	settings     SettingsStore
	funding      FundingService
	purchase     PurchaseService
	referral     ReferralService
	otp          OTPService
	hub          *websocket.Hub
}

func New(cfg config.Config, log *zap.SugaredLogger, txRunner db.TxRunner, reconcileDB store.Selecter, users UserStore, admins AdminStore, transactions TransactionStore, bundles CatalogStore, purchases PurchaseStore, settings SettingsStore, funding FundingService, purchase PurchaseService, referral ReferralService, otp OTPService, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:          cfg,
		log:          log,
		txRunner:     txRunner,
		reconcileDB:  reconcileDB,
		users:        users,
		admins:       admins,
		transactions: transactions,
		bundles:      bundles,
		purchases:    purchases,
		settings:     settings,
		funding:      funding,
		purchase:     purchase,
		referral:     referral,
		otp:          otp,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authed := middleware.Auth(h.cfg.JWTSecret)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/request-otp", h.RequestOTP)
		r.With(authed).Get("/me", h.Me)
	})
	router.Post("/admin/login", h.AdminLogin)

	router.Get("/bundles", h.ListBundles)
	router.With(authed).Get("/transactions", h.ListTransactions)
	router.With(authed).Get("/funding/settings", h.GetPaymentSettings)
	router.With(authed).Post("/funding/requests", h.CreateFundingRequest)
	router.With(authed).Post("/purchases/data", h.BuyData)
	router.With(authed).Post("/purchases/airtime", h.BuyAirtime)
	router.With(authed).Get("/purchases/data", h.ListDataPurchases)
	router.With(authed).Get("/purchases/airtime", h.ListAirtimePurchases)
	router.Get("/ws/balance", h.WSBalance)

	router.Route("/admin", func(r chi.Router) {
		r.Use(authed)
		r.Use(middleware.RequireAdmin(h.admins))
		r.Get("/funding/pending", h.ListPendingFunding)
		r.Post("/funding/{id}/confirm", h.ConfirmFunding)
		r.Post("/funding/{id}/reject", h.RejectFunding)
		r.Get("/payment-settings", h.GetPaymentSettings)
		r.Put("/payment-settings", h.UpdatePaymentSettings)
		r.Post("/bundles", h.CreateBundle)
		r.Get("/reconcile", h.Reconcile)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
