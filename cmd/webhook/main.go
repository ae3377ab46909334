package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/strava-import/internal/config"
	"example.com/strava-import/internal/domain"
	"example.com/strava-import/internal/events"
	"example.com/strava-import/internal/importer"
	persistence "example.com/strava-import/internal/persistence/postgres"
	"example.com/strava-import/internal/strava"
	httptransport "example.com/strava-import/internal/transport/http"
	"example.com/strava-import/internal/webhook"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()
	if cfg.WebhookVerifyToken == "" {
		log.Println("warning: STRAVA_VERIFY_TOKEN not set, subscription handshakes will fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	producer := events.NewKafkaProducer(cfg.KafkaBrokers)
	defer producer.Close()

	registry := events.NewSchemaRegistryClient(cfg.SchemaRegistryURL, cfg.SchemaRegistryTimeout)
	sink := events.NewPublisher(producer, registry, cfg.EventsTopic)

	baseURL, err := url.Parse(cfg.StravaBaseURL)
	if err != nil {
		log.Fatalf("invalid STRAVA_BASE_URL %q: %v", cfg.StravaBaseURL, err)
	}
	httpClient := strava.NewOAuthClient(ctx, cfg.StravaClientID, cfg.StravaClientSecret, cfg.StravaRefreshToken)
	httpClient.Timeout = cfg.StravaTimeout
	source := strava.NewClient(baseURL, httpClient)

	imp := importer.New(
		source,
		importer.Stores{
			Activities:     persistence.NewActivityStore(pool),
			Streams:        persistence.NewStreamStore(pool),
			Laps:           persistence.NewLapStore(pool),
			SegmentEfforts: persistence.NewSegmentEffortStore(pool),
			Photos:         persistence.NewPhotoStore(pool),
		},
		sink,
		buildFilters(cfg),
	)

	handler := webhook.NewHandler(cfg.WebhookVerifyToken, imp)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address: cfg.HTTPAddress,
	}, logger(mux))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("strava-import webhook listening on %s", cfg.HTTPAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func buildFilters(cfg config.Config) []importer.Filter {
	visibilities := make([]domain.Visibility, 0, len(cfg.ImportVisibilities))
	for _, v := range cfg.ImportVisibilities {
		visibilities = append(visibilities, domain.Visibility(v))
	}

	for _, raw := range cfg.ImportSkipActivities {
		if _, err := domain.ParseActivityID(raw); err != nil {
			log.Fatalf("invalid IMPORT_SKIP_ACTIVITIES entry %q: %v", raw, err)
		}
	}

	cutoff, err := config.ParseCutoff(cfg.ImportSkipBefore)
	if err != nil {
		log.Fatalf("invalid IMPORT_SKIP_BEFORE: %v", err)
	}

	return []importer.Filter{
		importer.NewVisibilityFilter(visibilities),
		importer.NewSkipListFilter(cfg.ImportSkipActivities),
		importer.NewMinStartDateFilter(cutoff),
	}
}
