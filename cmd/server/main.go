package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"parkease/internal/api"
	"parkease/internal/auth"
	"parkease/internal/config"
	"parkease/internal/repository"
	"parkease/internal/service"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	database, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := database.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database)
	lotRepo := repository.NewLotRepository(database)
	spotRepo := repository.NewSpotRepository(database)
	reservationRepo := repository.NewReservationRepository(database)
	reportRepo := repository.NewReportRepository(database)

	notifier := service.NewNotifyService(cfg)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	lotSvc := service.NewLotService(database, lotRepo, spotRepo, reservationRepo)
	bookingSvc := service.NewBookingService(database, spotRepo, reservationRepo, lotRepo, userRepo, notifier)
	reportSvc := service.NewReportService(reportRepo)
	jobSvc := service.NewJobService(reportRepo)

	if err := authSvc.EnsureSuperuser(context.Background(), cfg); err != nil {
		log.Fatalf("Failed to bootstrap superuser: %v", err)
	}

	authHandler := api.NewAuthHandler(authSvc)
	userHandler := api.NewUserHandler(lotSvc, bookingSvc, reportSvc)
	adminHandler := api.NewAdminHandler(lotSvc, bookingSvc, reportSvc, authSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")

	// User endpoints (authenticated)
	user := r.PathPrefix("/api").Subrouter()
	user.Use(auth.Middleware(cfg.JWTSecret))
	user.HandleFunc("/profile", authHandler.GetProfile).Methods("GET")
	user.HandleFunc("/profile", authHandler.UpdateProfile).Methods("PUT")
	user.HandleFunc("/pincodes", userHandler.ListPincodes).Methods("GET")
	user.HandleFunc("/lots", userHandler.SearchLots).Methods("GET")
	user.HandleFunc("/lots/{id}/spots", userHandler.AvailableSpots).Methods("GET")
	user.HandleFunc("/bookings", userHandler.Book).Methods("POST")
	user.HandleFunc("/bookings", userHandler.History).Methods("GET")
	user.HandleFunc("/bookings/{id}/release", userHandler.Release).Methods("POST")
	user.HandleFunc("/summary", userHandler.Summary).Methods("GET")

	// Admin endpoints (superuser only)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.Middleware(cfg.JWTSecret), auth.RequireAdmin)
	admin.HandleFunc("/lots", adminHandler.CreateLot).Methods("POST")
	admin.HandleFunc("/lots", adminHandler.ListLots).Methods("GET")
	admin.HandleFunc("/lots/{id}", adminHandler.UpdateLot).Methods("PUT")
	admin.HandleFunc("/lots/{id}", adminHandler.DeleteLot).Methods("DELETE")
	admin.HandleFunc("/lots/{id}/capacity", adminHandler.ResizeLot).Methods("PUT")
	admin.HandleFunc("/spots/{id}", adminHandler.SpotDetail).Methods("GET")
	admin.HandleFunc("/reservations/{id}/release", adminHandler.ForceRelease).Methods("POST")
	admin.HandleFunc("/summary", adminHandler.Summary).Methods("GET")
	admin.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")

	c := cron.New()
	if _, err := c.AddFunc(cfg.SummarySchedule, func() {
		if err := jobSvc.LogDailySummary(context.Background()); err != nil {
			log.Printf("Daily summary job failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule daily summary job: %v", err)
	}
	c.Start()
	defer c.Stop()

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(r)

	log.Printf("Server running on port %s", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, corsHandler))
}
