package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotel-core/config"
	"hotel-core/controllers"
	"hotel-core/routes"
	"hotel-core/services"
)

func buildStore() (services.Store, error) {
	if strings.EqualFold(config.EnvOrDefault("STORE_DRIVER", "mysql"), "memory") {
		log.Println("Using in-memory store (STORE_DRIVER=memory)")
		return services.NewMemoryStore(), nil
	}
	if err := config.ConnectDatabase(); err != nil {
		return nil, err
	}
	return services.NewGormStore(config.DB), nil
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	staffAPIKey := os.Getenv("STAFF_API_KEY")
	if staffAPIKey == "" {
		log.Fatal("STAFF_API_KEY environment variable is not set; staff routes cannot be secured")
	}

	store, err := buildStore()
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}

	// Services
	inventory := services.NewInventoryService(store)
	pricing := services.NewPricingService(store)
	availability := services.NewAvailabilityService(store)
	reservations := services.NewReservationService(store, pricing, availability)
	lifecycle := services.NewLifecycleService(store)

	// Controllers
	roomController := controllers.NewRoomController(inventory, availability)
	roomTypeController := controllers.NewRoomTypeController(inventory)
	rateController := controllers.NewRateController(inventory)
	bookingController := controllers.NewBookingController(reservations, lifecycle, pricing)

	router := routes.SetupRouter(roomController, roomTypeController, rateController, bookingController, staffAPIKey)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped gracefully")
}
