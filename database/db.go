package database

import (
	"context"
	"time"

	"bookpilot/config"
	"bookpilot/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoClient is the global MongoDB client instance, nil when the
// archive backend is not configured.
var MongoClient *mongo.Client

// InitDB initializes the MongoDB connection when DATABASE_URL is set.
// Absence of the archive backend is a valid mode, not an error.
func InitDB() {
	if !config.MongoConfigured() {
		return
	}
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Warn("failed to connect to MongoDB, booking records will not be archived", zap.Error(err))
		return
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Warn("failed to ping MongoDB, booking records will not be archived", zap.Error(err))
		return
	}
	MongoClient = client
	logger.Info("Connected to MongoDB successfully")
}
