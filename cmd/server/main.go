// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/voxai/voxai-sql/internal/config"
	"github.com/voxai/voxai-sql/internal/handlers"
	"github.com/voxai/voxai-sql/internal/middleware"
	"github.com/voxai/voxai-sql/internal/observability"
	"github.com/voxai/voxai-sql/internal/ratelimit"
	chatrepo "github.com/voxai/voxai-sql/internal/repository/chat"
	dbrepo "github.com/voxai/voxai-sql/internal/repository/database"
	translationrepo "github.com/voxai/voxai-sql/internal/repository/translation"
	userrepo "github.com/voxai/voxai-sql/internal/repository/user"
	"github.com/voxai/voxai-sql/internal/services"
	"github.com/voxai/voxai-sql/internal/services/ai"
	"github.com/voxai/voxai-sql/internal/services/assistant"
	"github.com/voxai/voxai-sql/internal/services/dbconn"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	cfg := config.Load()
	logger := services.NewLogger("voxai-sql")

	// --- Document store ---
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("FATAL: MongoDB connect failed: %v", err)
	}
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		cancelPing()
		log.Fatalf("FATAL: MongoDB unreachable: %v", err)
	}
	cancelPing()
	db := client.Database(cfg.MongoDBName)

	// --- Repositories ---
	userRepo := userrepo.NewUserRepository(db)
	chatRepo := chatrepo.NewChatRepository(db)
	databaseRepo := dbrepo.NewDatabaseRepository(db)
	translationRepo := translationrepo.NewTranslationRepository(db)

	// --- Services ---
	aiProvider, err := ai.NewHTTPProvider(&ai.Config{
		TitleBaseURL:      cfg.TitleServiceURL,
		NLToSQLBaseURL:    cfg.NLToSQLServiceURL,
		TranscribeBaseURL: cfg.TranscriptionServiceURL,
		Timeout:           time.Duration(cfg.InferenceTimeoutSeconds) * time.Second,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize AI provider: %v", err)
	}

	connManager := dbconn.NewManager(logger)

	userService, err := services.NewUserService(userRepo, []byte(cfg.JWTSecretKey), logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize user service: %v", err)
	}

	databaseService, err := services.NewDatabaseService(databaseRepo, userRepo, connManager, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database service: %v", err)
	}

	chatService, err := services.NewChatService(
		chatRepo, databaseRepo, translationRepo,
		aiProvider, aiProvider,
		assistant.NewResponder(),
		databaseService, logger,
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize chat service: %v", err)
	}

	translationService, err := services.NewTranslationService(
		translationRepo, databaseRepo, aiProvider, aiProvider, logger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize translation service: %v", err)
	}

	// --- Observability ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)
	aiProvider.SetObserver(metrics)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService)
	chatHandler := handlers.NewChatHandler(chatService)
	databaseHandler := handlers.NewDatabaseHandler(databaseService, chatService, metrics)
	translationHandler := handlers.NewTranslationHandler(translationService, metrics)
	voiceHandler := handlers.NewVoiceHandler(translationService)

	// --- Router ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware([]byte(cfg.JWTSecretKey))
	authLimiter := ratelimit.NewMemoryLimiter(ratelimit.AuthConfig())
	defer authLimiter.Close()

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(middleware.MetricsMiddleware(metrics))

	// --- Public routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")

	limited := middleware.RateLimitMiddleware(authLimiter, "auth", logger)
	onSuccess := middleware.AuthSuccessMiddleware(authLimiter)
	r.Handle("/user/signup",
		limited(onSuccess(http.HandlerFunc(authHandler.Signup)))).Methods("POST")
	r.Handle("/user/login",
		limited(onSuccess(http.HandlerFunc(authHandler.Login)))).Methods("POST")

	// --- Protected routes ---
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(authMiddleware)

	protected.HandleFunc("/user/profile", authHandler.Profile).Methods("GET")

	protected.HandleFunc("/chat/create", chatHandler.CreateChat).Methods("POST")
	protected.HandleFunc("/chat", chatHandler.GetUserChats).Methods("GET")
	protected.HandleFunc("/chat/message", chatHandler.AddMessage).Methods("POST")
	protected.HandleFunc("/chat/{chatId}/title", chatHandler.GetTitle).Methods("GET")
	protected.HandleFunc("/chat/{chatId}/title", chatHandler.UpdateTitle).Methods("PUT")
	protected.HandleFunc("/chat/{chatId}", chatHandler.GetChat).Methods("GET")

	protected.HandleFunc("/database/add", databaseHandler.AddDatabase).Methods("POST")
	protected.HandleFunc("/database/getAll", databaseHandler.GetAllDatabases).Methods("GET")
	protected.HandleFunc("/database/active", databaseHandler.GetActiveDatabase).Methods("GET")
	protected.HandleFunc("/database/connect/{id}", databaseHandler.ConnectDatabase).Methods("POST")
	protected.HandleFunc("/database/disconnect/{id}", databaseHandler.DisconnectDatabase).Methods("POST")
	protected.HandleFunc("/database/query/{id}", databaseHandler.ExecuteQuery).Methods("POST")
	protected.HandleFunc("/database/{id}", databaseHandler.UpdateDatabase).Methods("PUT")
	protected.HandleFunc("/database/{id}", databaseHandler.DeleteDatabase).Methods("DELETE")

	protected.HandleFunc("/text-to-sql/convert", translationHandler.Convert).Methods("POST")
	protected.HandleFunc("/text-to-sql/history", translationHandler.History).Methods("GET")
	protected.HandleFunc("/voice-to-text", voiceHandler.Transcribe).Methods("POST")

	// --- Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	logger.Info("server starting", "port", cfg.ServerPort, "environment", cfg.Environment)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: Server startup failed: %v", err)
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("FATAL: Server shutdown failed: %v", err)
	}
	connManager.Disconnect()
	if err := client.Disconnect(ctx); err != nil {
		logger.Warn("error disconnecting MongoDB client", "error", err.Error())
	}
	logger.Info("server stopped")
}
