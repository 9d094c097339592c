package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrecho-v4"
	"github.com/swiftride/dispatch/internal/pkg/config"
	"github.com/swiftride/dispatch/internal/pkg/database"
	"github.com/swiftride/dispatch/internal/pkg/health"
	"github.com/swiftride/dispatch/internal/pkg/logger"
	"github.com/swiftride/dispatch/internal/pkg/middleware"
	"github.com/swiftride/dispatch/internal/pkg/nats"
	nrpkg "github.com/swiftride/dispatch/internal/pkg/newrelic"
	"github.com/swiftride/dispatch/internal/pkg/server"
	wspkg "github.com/swiftride/dispatch/internal/pkg/websocket"
	bookinggw "github.com/swiftride/dispatch/services/bookings/gateway"
	bookinghttp "github.com/swiftride/dispatch/services/bookings/handler/http"
	bookingrepo "github.com/swiftride/dispatch/services/bookings/repository"
	bookinguc "github.com/swiftride/dispatch/services/bookings/usecase"
	drivergw "github.com/swiftride/dispatch/services/drivers/gateway"
	driverhttp "github.com/swiftride/dispatch/services/drivers/handler/http"
	driverrepo "github.com/swiftride/dispatch/services/drivers/repository"
	driveruc "github.com/swiftride/dispatch/services/drivers/usecase"
	matchgw "github.com/swiftride/dispatch/services/match/gateway"
	matchnats "github.com/swiftride/dispatch/services/match/handler"
	matchhttp "github.com/swiftride/dispatch/services/match/handler/http"
	matchuc "github.com/swiftride/dispatch/services/match/usecase"
	realtimenats "github.com/swiftride/dispatch/services/realtime/handler"
	realtimews "github.com/swiftride/dispatch/services/realtime/handler/websocket"
	trackinggw "github.com/swiftride/dispatch/services/tracking/gateway"
	trackingnats "github.com/swiftride/dispatch/services/tracking/handler"
	trackingrepo "github.com/swiftride/dispatch/services/tracking/repository"
	trackinguc "github.com/swiftride/dispatch/services/tracking/usecase"
)

var errNATSDisconnected = errors.New("nats connection lost")

func main() {
	appName := "dispatch-service"
	configPath := "config/dispatch.env"
	configs := config.InitConfig(configPath)

	nrApp := nrpkg.InitNewRelic(configs.NewRelic)

	zapLogger, err := logger.NewZapLogger(configs.Logger, nrApp)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment))

	postgresClient, err := database.NewPostgresClient(configs.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to PostgreSQL", logger.Err(err))
	}

	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", logger.Err(err))
	}

	natsClient, err := nats.NewClient(configs.NATS.URL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to NATS with JetStream", logger.Err(err))
	}
	if !natsClient.IsConnected() {
		zapLogger.Fatal("NATS JetStream client not connected")
	}

	// Driver registry
	driverRepo := driverrepo.NewDriverRepo(configs, postgresClient, redisClient)
	driverGW := drivergw.NewDriverGW(natsClient)
	driverUC := driveruc.NewDriverUC(configs, driverRepo, driverGW)

	// Booking store, warmed with active bookings on boot
	bookingRepo := bookingrepo.NewBookingRepo(configs, postgresClient)
	bookingGW := bookinggw.NewBookingGW(natsClient)
	bookingUC, err := bookinguc.NewBookingUC(context.Background(), configs, bookingRepo, bookingGW)
	if err != nil {
		zapLogger.Fatal("Failed to initialize booking store", logger.Err(err))
	}

	// Match coordinator
	matchGW := matchgw.NewMatchGW(natsClient)
	matchUC := matchuc.NewMatchUC(configs, driverUC, bookingUC, matchGW)

	// Location broadcaster
	trackingRepo := trackingrepo.NewTrackingRepo(configs, redisClient)
	trackingGW := trackinggw.NewTrackingGW(natsClient)
	trackingUC := trackinguc.NewTrackingUC(configs, driverUC, bookingUC, trackingRepo, trackingGW)

	// WebSocket connection manager shared by the realtime handlers
	wsManager := wspkg.NewManager(configs.JWT)

	// NATS consumers
	matchHandler := matchnats.NewMatchHandler(matchUC, natsClient, nrApp)
	if err := matchHandler.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize match NATS consumers", logger.Err(err))
	}
	trackingHandler := trackingnats.NewTrackingHandler(trackingUC, natsClient, nrApp)
	if err := trackingHandler.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize tracking NATS consumers", logger.Err(err))
	}
	realtimeHandler := realtimenats.NewRealtimeHandler(wsManager, natsClient, nrApp)
	if err := realtimeHandler.InitNATSConsumers(); err != nil {
		zapLogger.Fatal("Failed to initialize realtime NATS consumers", logger.Err(err))
	}

	// Accept-deadline sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go matchUC.StartSweep(sweepCtx)

	// HTTP server
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.PanicRecoveryMiddleware(zapLogger))
	e.Use(middleware.RequestIDMiddleware())
	e.Use(nrecho.Middleware(nrApp))
	e.Use(logger.EchoMiddleware(zapLogger))

	jwtMW := middleware.JWTAuthMiddleware(configs.JWT)
	apiKeyMW := middleware.ValidateAPIKey(configs.APIKey)

	health.RegisterHealthEndpoints(e, appName,
		health.Checker{Name: "postgres", Check: postgresClient.Ping},
		health.Checker{Name: "redis", Check: redisClient.Ping},
		health.Checker{Name: "nats", Check: func(context.Context) error {
			if !natsClient.IsConnected() {
				return errNATSDisconnected
			}
			return nil
		}},
	)

	bookinghttp.NewBookingHandler(bookingUC).RegisterRoutes(e, jwtMW)
	driverhttp.NewDriverHandler(driverUC, configs).RegisterRoutes(e, apiKeyMW)
	matchhttp.NewMatchHandler(matchUC).RegisterRoutes(e, apiKeyMW)
	realtimews.NewWebSocketHandler(wsManager, driverUC, bookingUC, matchUC, trackingUC, nrApp).RegisterRoutes(e)

	// Shutdown order: stop the sweep, then close the messaging and storage
	// clients once the HTTP server has drained.
	shutdownManager := server.NewShutdownManager(zapLogger)
	shutdownManager.Register(func(context.Context) error {
		stopSweep()
		return nil
	})
	shutdownManager.Register(func(context.Context) error {
		natsClient.Close()
		return nil
	})
	shutdownManager.Register(func(context.Context) error {
		return redisClient.Close()
	})
	shutdownManager.Register(func(context.Context) error {
		return postgresClient.Close()
	})
	shutdownManager.Register(func(context.Context) error {
		if nrApp != nil {
			nrApp.Shutdown(10 * time.Second)
		}
		return nil
	})

	srv := server.NewGracefulServer(e, zapLogger, configs.Server.Port)
	if err := srv.Start(); err != nil {
		zapLogger.Error("HTTP server shutdown failed", logger.Err(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = shutdownManager.Shutdown(ctx)

	logger.Info("Server exiting gracefully")
}
