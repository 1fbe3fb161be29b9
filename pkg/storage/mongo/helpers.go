package mongo

import (
	"context"
	"os"
)

// testConf returns the connection parameters of the test Mongo instance, or
// nil when MONGO_TEST_HOST is not set.
func testConf() *Config {
	host := os.Getenv("MONGO_TEST_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("MONGO_TEST_PORT")
	if port == "" {
		port = "27018"
	}
	return &Config{Host: host, Port: port, DBName: "moderation_test"}
}

// storageConnect establishes a connection to the test Mongo instance.
func storageConnect(ctx context.Context, conf *Config) (*Storage, error) {
	db, err := New(ctx, conf)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

// restoreDB drops the flagged collection to reset the database state.
// WARNING: Use only in tests to avoid data loss.
func restoreDB(db *Storage) error {
	return db.coll().Drop(context.Background())
}
