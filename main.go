package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/JBLarson/dayAndNight/internal/archive"
	"github.com/JBLarson/dayAndNight/internal/config"
	"github.com/JBLarson/dayAndNight/internal/db"
	"github.com/JBLarson/dayAndNight/internal/events"
	"github.com/JBLarson/dayAndNight/internal/geocode"
	"github.com/JBLarson/dayAndNight/internal/middleware"
	"github.com/JBLarson/dayAndNight/pkg/graceful"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "Server is up! %s\n", time.Now().UTC().Format(time.RFC3339))
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	conn := db.Connect(cfg.DatabaseURL)
	geocode.Init(conn)

	publisher := events.NewPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
	archiver, err := archive.NewSnapshotArchiver(cfg.Minio)
	if err != nil {
		log.Fatal("Failed to create snapshot archiver: ", err)
	}

	gateway := geocode.NewNominatimClient(cfg.Geocoder)
	store := geocode.NewStore(conn)
	recorder := geocode.NewSearchLogger(conn)
	service := geocode.NewService(store, recorder, gateway, publisher)
	analytics := geocode.NewAnalytics(conn)

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Get("/", RootHandler)
	r.Mount("/geo", geocode.SetupRoutes(service, analytics, archiver, cfg.AdminTokenHash))

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: r,
	}

	ctx, cancel := graceful.Context(context.Background())
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[main] shutdown error: %v", err)
		}
		publisher.Close()
	}()

	log.Printf("Server listening on port :%s...", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server error: ", err)
	}
}
