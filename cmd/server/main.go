package main

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"adria/internal/api"
	"adria/internal/auth"
	"adria/internal/realtime"
	"adria/internal/repository"
	"adria/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}

	loc, err := time.LoadLocation(getenv("TIMEZONE", "Europe/Rome"))
	if err != nil {
		log.Fatalf("Invalid TIMEZONE: %v", err)
	}

	slotRepo := repository.NewSlotRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	jobRepo := repository.NewJobRepository(db)

	notifier := service.NewNotifyService(loc)
	limiter := service.NewRateLimiter(5, time.Hour)
	challenges := service.NewChallengeService(5 * time.Minute)

	authSvc := service.NewAuthService(settingsRepo, userRepo, secret)
	if pw := os.Getenv("ADMIN_PASSWORD"); pw != "" {
		if err := authSvc.SeedAdminPassword(pw); err != nil {
			log.Printf("Error seeding admin password: %v", err)
		}
	}

	slotSvc := service.NewSlotService(slotRepo, loc)
	reservationSvc := service.NewReservationService(reservationRepo, slotRepo, userRepo, notifier, limiter, challenges, loc)
	jobSvc := service.NewJobService(jobRepo, challenges, limiter)

	hub := realtime.NewHub()
	listener := realtime.NewListener(dbURL, hub)
	go listener.Run()

	c := cron.New()
	c.AddFunc("@every 10m", func() {
		if err := jobSvc.CancelStalePendingReservations(); err != nil {
			log.Printf("Error in pending reservation sweep: %v", err)
		}
	})
	c.AddFunc("@hourly", func() {
		if err := jobSvc.DeletePastFreeSlots(); err != nil {
			log.Printf("Error in past slot sweep: %v", err)
		}
	})
	c.AddFunc("@every 1m", func() { jobSvc.PruneInMemoryState() })
	c.Start()

	userHandler := api.NewUserReservationHandler(reservationSvc, slotSvc, challenges)
	adminHandler := api.NewAdminHandler(slotSvc, reservationSvc)
	authHandler := api.NewAuthHandler(authSvc)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/slots", userHandler.ListSlots).Methods("GET")
	r.HandleFunc("/api/slots/watch", hub.ServeWS).Methods("GET")
	r.HandleFunc("/api/challenge", userHandler.NewChallenge).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.UserLogin).Methods("POST")
	r.HandleFunc("/api/reservations", userHandler.CreateReservation).Methods("POST")
	r.HandleFunc("/api/reservations/{code}", userHandler.GetReservation).Methods("GET")
	r.HandleFunc("/api/reservations/{code}", userHandler.CancelReservation).Methods("DELETE")
	r.HandleFunc("/api/reservations/{code}/calendar", userHandler.DownloadCalendar).Methods("GET")
	r.HandleFunc("/api/reservations/{code}/calendar/links", userHandler.CalendarLinks).Methods("GET")

	// Authenticated user endpoints
	me := r.PathPrefix("/api/me").Subrouter()
	me.Use(auth.UserOnly(secret))
	me.HandleFunc("/reservations", userHandler.MyReservations).Methods("GET")

	// Admin endpoints (protected)
	r.HandleFunc("/admin/login", authHandler.AdminLogin).Methods("POST")
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminOnly(secret))
	admin.HandleFunc("/slots", adminHandler.ListSlots).Methods("GET")
	admin.HandleFunc("/slots", adminHandler.CreateSlot).Methods("POST")
	admin.HandleFunc("/slots/batch", adminHandler.CreateSlotBatch).Methods("POST")
	admin.HandleFunc("/slots/{id}", adminHandler.DeleteSlot).Methods("DELETE")
	admin.HandleFunc("/reservations", adminHandler.ListReservations).Methods("GET")
	admin.HandleFunc("/reservations/{id}/status", adminHandler.UpdateReservationStatus).Methods("PUT")
	admin.HandleFunc("/reservations/{id}", adminHandler.DeleteReservation).Methods("DELETE")

	cors := handlers.CORS(
		handlers.AllowedOrigins(strings.Split(getenv("ALLOWED_ORIGINS", "*"), ",")),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
	)

	port := getenv("PORT", "8080")
	log.Printf("Server running on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, cors(r)))
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
