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

	"ecomshop/internal/config"
	"ecomshop/internal/es"
	"ecomshop/internal/events"
	"ecomshop/internal/handlers"
	"ecomshop/internal/httperr"
	"ecomshop/internal/logging"
	authmw "ecomshop/internal/middleware/auth"
	"ecomshop/internal/payment"
	"ecomshop/internal/search"
	httpserver "ecomshop/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWTSecret)

	producer := events.NewProducer(configuration.KafkaBrokers)

	var index *search.Index
	if configuration.ESURL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		index = &search.Index{ES: esClient, Name: "products"}
	}

	gateway := payment.NewBraintree(
		configuration.BraintreeEnv,
		configuration.BraintreeMerchantID,
		configuration.BraintreePublicKey,
		configuration.BraintreePrivateKey,
	)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	e.HTTPErrorHandler = httperr.Handler()

	deps := httpserver.Deps{
		Auth:            &authmw.Middleware{DB: db, JWTSecret: jwtSecret},
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, Producer: producer},
		OrderHandler:    &handlers.OrderHandler{DB: db, Producer: producer},
		CategoryHandler: &handlers.CategoryHandler{DB: db},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: producer, Index: index},
		PaymentHandler:  &handlers.PaymentHandler{DB: db, Gateway: gateway, Producer: producer},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", configuration.Port, "env", configuration.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
