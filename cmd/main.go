package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/warelay/warelay/internal/ai"
	"github.com/warelay/warelay/internal/relay"
	"github.com/warelay/warelay/internal/transport"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProductionConfig().Build()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dataDir := os.Getenv("WARELAY_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logger.Fatal("create data dir", zap.String("dir", dataDir), zap.Error(err))
	}

	// --- optional traffic archive ---
	var archive relay.Archive
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			logger.Fatal("db open error", zap.Error(err))
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = db.PingContext(pingCtx)
		cancel()
		if err != nil {
			logger.Fatal("db ping error", zap.Error(err))
		}
		archive = relay.NewArchive(db)
	} else {
		logger.Info("DATABASE_URL not set, traffic archive disabled")
	}

	// --- relay wiring ---
	answers, err := ai.NewOpenAIClient(logger.Named("ai"))
	if err != nil {
		logger.Fatal("ai client", zap.Error(err))
	}

	store := relay.NewFileStore(filepath.Join(dataDir, "greeted.json"), logger.Named("store"))
	dispatcher := relay.NewDispatcher(store, answers, archive, logger.Named("dispatch"))
	dialer := transport.NewWhatsmeowDialer(dataDir)
	creds := transport.NewFileCredentials(filepath.Join(dataDir, "creds.json"))

	supervisor := relay.NewSupervisor(dialer, dispatcher, logger.Named("session"),
		relay.WithPairingDisplay(relay.LogPairing{Log: logger.Named("pairing")}),
		relay.WithCredentialSaver(creds),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	supervisor.Start(ctx)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	relay.RegisterRoutes(r, relay.NewHandler(supervisor, store, archive))

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: r}
	go func() {
		logger.Info("listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	supervisor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
