package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/maestrodigital/maestro_shop/internal/advisor"
	"github.com/maestrodigital/maestro_shop/internal/cart"
	"github.com/maestrodigital/maestro_shop/internal/config"
	"github.com/maestrodigital/maestro_shop/internal/es"
	"github.com/maestrodigital/maestro_shop/internal/events"
	"github.com/maestrodigital/maestro_shop/internal/fulfillment"
	"github.com/maestrodigital/maestro_shop/internal/handlers"
	"github.com/maestrodigital/maestro_shop/internal/logging"
	"github.com/maestrodigital/maestro_shop/internal/payment"
	"github.com/maestrodigital/maestro_shop/internal/service/checkout"
	"github.com/maestrodigital/maestro_shop/internal/service/token"
	"github.com/maestrodigital/maestro_shop/internal/store"
	httpserver "github.com/maestrodigital/maestro_shop/internal/transport/http"
	"github.com/maestrodigital/maestro_shop/internal/watermark"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	catalog, err := store.OpenCatalog(db, logger)
	if err != nil {
		log.Fatalf("catalog init error: %v", err)
	}
	accounts, err := store.OpenAccounts(db, logger)
	if err != nil {
		log.Fatalf("accounts init error: %v", err)
	}

	prod := events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	defer prod.Close()

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	carts := cart.NewRegistry()
	tokens := &token.Service{
		DB:            db,
		JWTSecret:     []byte(configuration.JWT_SECRET),
		RefreshSecret: []byte(configuration.REFRESH_SECRET),
	}
	fulfiller := fulfillment.NewManager(
		&watermark.Simulated{Delay: configuration.WatermarkDelay()},
		logger,
	)
	checkoutSvc := &checkout.Service{
		DB:          db,
		Accounts:    accounts,
		Gateway:     &payment.SimulatedGateway{Delay: configuration.PaymentDelay()},
		Fulfillment: fulfiller,
		Producer:    prod,
		Log:         logger,
	}
	adviser := advisor.NewClient(configuration.GEMINI_API_KEY, configuration.GEMINI_URL, logger)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{Accounts: accounts, Tokens: tokens, Carts: carts, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{Catalog: catalog, ES: esClient, Index: "products", Producer: prod},
		CartHandler:     &handlers.CartHandler{Carts: carts, Catalog: catalog, Producer: prod},
		CheckoutHandler: &handlers.CheckoutHandler{Service: checkoutSvc, Carts: carts},
		DownloadHandler: &handlers.DownloadHandler{Fulfillment: fulfiller},
		AdminHandler:    &handlers.AdminHandler{Code: configuration.ADMIN_CODE, Tokens: tokens, Accounts: accounts},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: "products", Catalog: catalog},
		AdvisorHandler:  &handlers.AdvisorHandler{Advisor: adviser, Catalog: catalog},
		Tokens:          tokens,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.APP_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()
	logger.Info("maestro shop listening", "port", configuration.APP_PORT)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
