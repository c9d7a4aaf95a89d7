package database

import (
	"context"
	"log"
	"time"

	"github.com/tmurray-at-tygershark/solushipX-sub005/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the shared MongoDB client. Repositories derive their
// collections from it after InitDB has run.
var MongoClient *mongo.Client

// InitDB connects to MongoDB and verifies the connection with a ping.
// A failure is fatal.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.DatabaseURL))
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}
	MongoClient = client
	log.Printf("connected to MongoDB, database %s", config.AppConfig.DatabaseName)
}
