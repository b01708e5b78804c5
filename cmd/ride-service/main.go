package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenride/internal/ride/domain"
	"greenride/internal/ride/handler"
	"greenride/internal/ride/messaging"
	"greenride/internal/ride/repository"
	"greenride/internal/ride/service"
	"greenride/pkg/auth"
	"greenride/pkg/config"
	"greenride/pkg/db"
	"greenride/pkg/logger"
	"greenride/pkg/rabbitmq"
	"greenride/pkg/websocket"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log := logger.NewLogger("ride-service")
	log.Info("service_starting", fmt.Sprintf("Ride service starting on port %d", cfg.HTTP.Port))

	// Connect to database
	pool, err := db.NewConnection(cfg, log)
	if err != nil {
		log.Error("db_connect_failed", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Connect to RabbitMQ
	rabbit, err := rabbitmq.NewConnection(cfg, log)
	if err != nil {
		log.Error("rabbitmq_connect_failed", err)
		os.Exit(1)
	}
	defer rabbit.Close()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)

	// Initialize WebSocket manager
	wsManager := websocket.NewManager(log)

	clock := domain.SystemClock{}
	store := repository.NewPostgresStore(pool, log)
	publisher := messaging.NewNotificationPublisher(rabbit)
	notifier := service.NewNotifier(store, publisher, clock, log)

	// Use cases
	createRoute := service.NewCreateRouteUseCase(store, clock, log)
	bookSeat := service.NewBookSeatUseCase(store, notifier, clock, log)
	cancelBooking := service.NewCancelBookingUseCase(store, notifier, clock, log)
	cancelRoute := service.NewCancelRouteUseCase(store, notifier, clock, log)
	updateStatus := service.NewUpdateRideStatusUseCase(store, clock, log)
	queries := service.NewQueryService(store, log)
	authUC := service.NewAuthUseCase(store, clock, log)

	// Start the notification fan-out consumer
	consumer := messaging.NewNotificationConsumer(rabbit, wsManager, log)
	if err := consumer.StartConsuming(); err != nil {
		log.Error("consumer_start_failed", err)
		os.Exit(1)
	}

	// Start the reminder scheduler
	reminderCtx, cancelReminder := context.WithCancel(context.Background())
	defer cancelReminder()
	reminder := service.NewReminderScheduler(store, notifier, clock, cfg.Reminder.Interval, cfg.Reminder.Window, log)
	reminder.Start(reminderCtx)
	defer reminder.Stop()

	// Setup routes
	mux := http.NewServeMux()
	h := handler.NewHandler(createRoute, bookSeat, cancelBooking, cancelRoute, updateStatus, queries, authUC, jwtManager, log)
	h.RegisterRoutes(mux)

	// WebSocket endpoint: the client authenticates with its first message.
	wsHandler := websocket.NewHandler(log, jwtManager, func(conn *websocket.Connection) {
		userID := conn.Claims.UserID
		wsManager.AddConnection(userID, conn)

		conn.ReadPump(
			func(msgType int, p []byte) {
				log.WithFields(logger.LogFields{
					"user_id": userID,
					"message": string(p),
				}).Debug("ws_message", "Message from client")
			},
			func() {
				wsManager.RemoveConnection(userID)
			},
		)
	})
	mux.Handle("GET /ws", wsHandler)

	// Start server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", err)
			os.Exit(1)
		}
	}()

	log.Info("server_running", fmt.Sprintf("Ride service running on :%d", cfg.HTTP.Port))

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("server_shutdown", "Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
	log.Info("server_stopped", "Server stopped gracefully")
}
