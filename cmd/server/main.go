package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"sportsstore/internal/cart"
	"sportsstore/internal/config"
	"sportsstore/internal/es"
	"sportsstore/internal/handlers"
	"sportsstore/internal/logging"
	loggingmw "sportsstore/internal/middleware/logging"
	"sportsstore/internal/mykafka"
	"sportsstore/internal/seed"
	"sportsstore/internal/service/token"
	httpserver "sportsstore/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	if err := seed.EnsurePopulated(db); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Fatal(err)
		}
	} else {
		logger.Warn("KAFKA_ADDRESS not set, events disabled")
	}

	carts := cart.NewStore()

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             db,
		AuthHandler:    &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		AccountHandler: &handlers.AccountHandler{DB: db, UploadDir: configuration.UPLOAD_DIR},
		ProductHandler: &handlers.ProductHandler{DB: db, Producer: prod, Index: "product"},
		CartHandler:    &handlers.CartHandler{DB: db, Carts: carts, Producer: prod},
		OrderHandler:   &handlers.OrderHandler{DB: db, Carts: carts, Producer: prod},
		ReviewHandler:  &handlers.ReviewHandler{DB: db, Producer: prod},
		TutorHandler:   &handlers.TutorHandler{DB: db, Producer: prod},
		StatsHandler:   &handlers.StatsHandler{DB: db},
		SearchHandler:  &handlers.SearchHandler{Index: "product"},
		ServiceHandler: &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret},
	}

	if configuration.ES_URL != "" {
		client, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		deps.ProductHandler.ES = client
		deps.SearchHandler.ES = client
	} else {
		logger.Warn("ES_URL not set, search disabled")
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.SERVER_PORT),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

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

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
