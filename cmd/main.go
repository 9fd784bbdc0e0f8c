package main

import (
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/remserv/workshop/internal/analytics"
	"github.com/remserv/workshop/internal/auth"
	"github.com/remserv/workshop/internal/config"
	"github.com/remserv/workshop/internal/db"
	"github.com/remserv/workshop/internal/events"
	"github.com/remserv/workshop/internal/handlers"
	"github.com/remserv/workshop/internal/ledger"
	"github.com/remserv/workshop/internal/middleware"
	"github.com/remserv/workshop/internal/orders"
	"github.com/remserv/workshop/internal/suggest"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	cfg := config.Load()

	client, err := db.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	collections := db.NewCollections(client.Database(cfg.DatabaseName))

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	// Event publishing is optional: without a broker the lifecycle manager
	// runs with notifications disabled.
	var publisher orders.EventPublisher
	if cfg.MQTTBrokerURL != "" {
		p, err := events.Connect(cfg.MQTTBrokerURL, "workshop-server")
		if err != nil {
			log.WithError(err).Warn("MQTT broker unreachable, order events disabled")
		} else {
			publisher = p
			defer p.Close()
		}
	}

	manager := orders.NewManager(orders.Stores{
		Orders:   collections.Orders,
		Details:  collections.Details,
		Parts:    collections.Parts,
		Ledger:   collections.Transactions,
		Services: collections.Services,
		Cars:     collections.Cars,
		Groups:   collections.CarGroups,
		Clients:  collections.Clients,
		Masters:  collections.Masters,
	}, publisher)

	stockLedger := ledger.New(collections.Transactions)
	aggregator := analytics.NewAggregator(collections.Orders, collections.Details, collections.Parts, collections.Masters)

	var suggester suggest.Suggester
	if cfg.GeminiAPIKey != "" {
		suggester = suggest.NewGeminiClient(cfg.GeminiAPIKey)
	}

	authHandler := handlers.NewAuthHandler(authService, collections.Users)
	orderHandler := handlers.NewOrderHandler(manager, collections.Orders, collections.Parts)
	pricingHandler := handlers.NewPricingHandler(collections.Services, collections.Cars, collections.CarGroups)
	inventoryHandler := handlers.NewInventoryHandler(stockLedger)
	analyticsHandler := handlers.NewAnalyticsHandler(aggregator)
	catalogHandler := handlers.NewCatalogHandler(collections.Services, collections.Cars, collections.CarGroups, collections.Masters, collections.Clients)
	suggestHandler := handlers.NewSuggestHandler(suggester)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/profile", authHandler.GetProfile)
	mux.HandleFunc("/api/auth/profile/update", authHandler.UpdateProfile)
	mux.HandleFunc("/api/auth/password", authHandler.ChangePassword)

	mux.HandleFunc("/api/orders", orderHandler.Orders)
	mux.HandleFunc("/api/orders/summary", orderHandler.Summary)
	mux.HandleFunc("/api/orders/status", orderHandler.UpdateStatus)
	mux.HandleFunc("/api/orders/services", orderHandler.AddServices)
	mux.HandleFunc("/api/orders/parts", orderHandler.AddParts)
	mux.HandleFunc("/api/orders/parts/status", orderHandler.UpdatePartStatus)

	mux.HandleFunc("/api/pricing/resolve", pricingHandler.Resolve)

	mux.HandleFunc("/api/warehouse/transactions", inventoryHandler.Transactions)
	mux.HandleFunc("/api/warehouse/stock", inventoryHandler.Stock)

	mux.Handle("/api/analytics/report",
		authMiddleware.RequirePermission("view_analytics")(http.HandlerFunc(analyticsHandler.Report)))
	mux.Handle("/api/analytics/masters",
		authMiddleware.RequirePermission("view_analytics")(http.HandlerFunc(analyticsHandler.MasterStats)))

	mux.HandleFunc("/api/services", catalogHandler.Services)
	mux.HandleFunc("/api/cars", catalogHandler.Cars)
	mux.HandleFunc("/api/cargroups", catalogHandler.CarGroups)
	mux.HandleFunc("/api/masters", catalogHandler.Masters)
	mux.HandleFunc("/api/clients", catalogHandler.Clients)

	mux.HandleFunc("/api/suggestions", suggestHandler.Suggest)

	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = rateLimiter.RateLimit(120, 60)(handler)

	log.WithField("port", cfg.Port).Info("HTTP server listening")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.WithError(err).Fatal("HTTP server failed")
	}
}
