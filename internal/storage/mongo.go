package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"discord-warden/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	mongoClient *mongo.Client
	mongoDB     *mongo.Database
)

// InitializeMongo connects to the document store holding case records.
func InitializeMongo(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("failed to ping mongodb: %w", err)
	}

	mongoClient = client
	mongoDB = client.Database(cfg.Mongo.Database)

	log.Printf("MongoDB connection established: %s", cfg.Mongo.Database)
	return nil
}

// CloseMongo disconnects the document store client.
func CloseMongo() {
	if mongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mongoClient.Disconnect(ctx); err != nil {
		log.Printf("Error disconnecting mongodb: %v", err)
	}
}

// MongoDatabase returns the document store handle.
func MongoDatabase() *mongo.Database {
	return mongoDB
}
