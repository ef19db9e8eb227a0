package main

import (
	"context"
	"log"
	"time"

	"github.com/mpetrov/liftbook/internal/config"
	"github.com/mpetrov/liftbook/internal/domain"
	"github.com/mpetrov/liftbook/internal/middleware"
	"github.com/mpetrov/liftbook/internal/repository"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// Seeds the exercises collection with the built-in catalog. Upserts by
// exercise id so reruns are safe.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var docs repository.DocumentStore
	switch cfg.Docstore.Backend {
	case "firestore":
		firebaseApp, err := middleware.InitFirebase(ctx,
			cfg.Firebase.ProjectID,
			cfg.Firebase.PrivateKey,
			cfg.Firebase.ClientEmail,
		)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		fsClient, err := firebaseApp.Firestore(ctx)
		if err != nil {
			log.Fatalf("Failed to get Firestore client: %v", err)
		}
		defer fsClient.Close()
		docs = repository.NewFirestoreDocumentStore(fsClient)
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoDB.URI))
		if err != nil {
			log.Fatalf("Failed to connect to Mongo: %v", err)
		}
		defer client.Disconnect(ctx)
		docs = repository.NewMongoDocumentStore(client.Database(cfg.MongoDB.Database))
	default:
		log.Fatalf("DOCSTORE_BACKEND %q cannot be seeded", cfg.Docstore.Backend)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, ex := range domain.PredefinedExercises {
		g.Go(func() error {
			return docs.SetDocument(gCtx, "exercises", ex.ID, repository.ExerciseFields(ex), false)
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("✓ Seeded %d exercises", len(domain.PredefinedExercises))
}
