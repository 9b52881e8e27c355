package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"crm_records_api/internal/config/connections/mongo"
	"crm_records_api/internal/config/connections/s3"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	Mongo *mongo.Mongo
	S3    *s3.S3

	RecordsCollection string
	ConfigCollection  string
}

// Init loads the environment and establishes every connection the server
// needs. An unreachable store is fatal: there is no partial-service mode.
func Init(ctx context.Context) *Config {
	_ = godotenv.Load()

	mg, err := mongo.NewConnection(ctx, mongo.ConnectionInfo{
		URI: getenv("MONGODB_URL", "mongodb://localhost:27017"),
		DB:  getenv("DATABASE_NAME", "crm_database"),
	})
	if err != nil {
		log.Fatal("Mongo connect error: ", err)
	}

	s3c, err := s3.NewConnection(s3.ConnectionInfo{
		Endpoint:  getenv("AWS_ENDPOINT", "localhost:9000"),
		AccessKey: getenv("AWS_ACCESS_KEY_ID", "minioadmin"),
		SecretKey: getenv("AWS_SECRET_ACCESS_KEY", "minioadmin"),
		Region:    getenv("AWS_DEFAULT_REGION", "us-east-1"),
		Bucket:    getenv("AWS_BUCKET", "exports"),
		UseSSL:    getenv("AWS_USE_SSL", "false") == "true",
	})
	if err != nil {
		log.Fatal("S3 connect error: ", err)
	}

	return &Config{
		Port:              getenv("SERVER_PORT", "3008"),
		Mongo:             mg,
		S3:                s3c,
		RecordsCollection: getenv("COLLECTION_NAME", "crm_records"),
		ConfigCollection:  getenv("CONFIG_COLLECTION_NAME", "config"),
	}
}

func (c *Config) CheckConnections(ctx context.Context) error {
	var errs []error

	if c.Mongo == nil || c.Mongo.Client == nil {
		errs = append(errs, errors.New("mongo not initialized"))
	} else if err := c.Mongo.Client.Ping(ctx, nil); err != nil {
		errs = append(errs, fmt.Errorf("mongo ping failed: %w", err))
	}

	if c.S3 == nil || c.S3.Client == nil {
		errs = append(errs, errors.New("s3 not initialized"))
	} else if err := c.S3.EnsureBucket(ctx); err != nil {
		errs = append(errs, fmt.Errorf("s3 bucket check failed: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

func (c *Config) Close(ctx context.Context) {
	if c.Mongo != nil {
		if err := c.Mongo.Close(ctx); err != nil {
			log.Printf("[SHUTDOWN] mongo close: %v", err)
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
