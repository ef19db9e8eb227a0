package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mpetrov/liftbook/internal/config"
	"github.com/mpetrov/liftbook/internal/middleware"
	"github.com/mpetrov/liftbook/internal/repository"
	"github.com/mpetrov/liftbook/internal/server"
	"github.com/mpetrov/liftbook/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Println("Starting Liftbook Service...")

	ctx := context.Background()

	otelProvider, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    "liftbook-api",
		ServiceVersion: "1.0.0",
		Environment:    getEnvOr("ENVIRONMENT", "development"),
		OTLPEndpoint:   cfg.OTEL.Endpoint,
		OTLPHeaders:    telemetry.ParseHeaders(cfg.OTEL.Headers),
		Enabled:        cfg.OTEL.Enabled,
	})
	if err != nil {
		log.Printf("Warning: Failed to initialize OpenTelemetry: %v", err)
	}
	if otelProvider != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			otelProvider.Shutdown(shutdownCtx)
		}()
	}

	// Firebase backs both ID token verification and the Firestore
	// document store, so initialize it if either is configured
	var verifier middleware.TokenVerifier
	var docs repository.DocumentStore

	needFirebase := cfg.Auth.Mode == "firebase" || cfg.Docstore.Backend == "firestore"
	if needFirebase {
		firebaseApp, err := middleware.InitFirebase(ctx,
			cfg.Firebase.ProjectID,
			cfg.Firebase.PrivateKey,
			cfg.Firebase.ClientEmail,
		)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}

		if cfg.Auth.Mode == "firebase" {
			authClient, err := firebaseApp.Auth(ctx)
			if err != nil {
				log.Fatalf("Failed to get Firebase Auth client: %v", err)
			}
			verifier = authClient
		}

		if cfg.Docstore.Backend == "firestore" {
			fsClient, err := firebaseApp.Firestore(ctx)
			if err != nil {
				log.Fatalf("Failed to get Firestore client: %v", err)
			}
			defer fsClient.Close()
			docs = repository.NewFirestoreDocumentStore(fsClient)
		}
		log.Println("✓ Firebase initialized")
	}

	switch cfg.Docstore.Backend {
	case "mongo":
		ctxMongo, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		mongoOpts := options.Client().ApplyURI(cfg.MongoDB.URI)
		if cfg.OTEL.Enabled {
			mongoOpts.SetMonitor(otelmongo.NewMonitor())
		}

		mongoClient, err := mongo.Connect(ctxMongo, mongoOpts)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer func() {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Printf("Error disconnecting from MongoDB: %v", err)
			}
		}()

		if err := mongoClient.Ping(ctxMongo, nil); err != nil {
			log.Fatalf("Failed to ping MongoDB: %v", err)
		}
		log.Println("✓ MongoDB connected")

		docs = repository.NewMongoDocumentStore(mongoClient.Database(cfg.MongoDB.Database))
	case "memory":
		log.Println("✓ Using in-memory document store")
		docs = repository.NewMemoryDocumentStore()
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("✓ Redis connected")
	}

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		Docs:        docs,
		RedisClient: redisClient,
		Verifier:    verifier,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("Shutting down gracefully...")
		app.Shutdown()
	}()

	log.Printf("🚀 Server starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
