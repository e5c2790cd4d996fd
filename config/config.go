package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gustapinto/go-todo-store/todo/snapshot"
)

const (
	SnapshotFile = "file"
	SnapshotS3   = "s3"
)

type S3Config struct {
	Bucket          string
	Key             string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

type Config struct {
	Addr        string
	Snapshot    string
	DataFile    string
	WriteMode   snapshot.WriteMode
	LockTimeout time.Duration
	LogLevel    string
	SentryDSN   string
	S3          S3Config
}

// Load Reads the configuration from the environment
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	env := func(key, defaultValue string) string {
		if value := getenv(key); value != "" {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		Addr:      env("TODO_ADDR", ":3000"),
		Snapshot:  env("TODO_SNAPSHOT", SnapshotFile),
		DataFile:  env("TODO_DATA_FILE", "./files/todo_data.json"),
		LogLevel:  env("LOG_LEVEL", "info"),
		SentryDSN: env("SENTRY_DSN", ""),
		S3: S3Config{
			Bucket:          env("TODO_S3_BUCKET", ""),
			Key:             env("TODO_S3_KEY", "todo_data.json"),
			Region:          env("TODO_S3_REGION", "us-east-1"),
			Endpoint:        env("TODO_S3_ENDPOINT", ""),
			AccessKeyID:     env("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: env("AWS_SECRET_ACCESS_KEY", ""),
		},
	}

	writeMode, ok := snapshot.ParseWriteMode(env("TODO_WRITE_MODE", "sync"))
	if !ok {
		return nil, fmt.Errorf("invalid TODO_WRITE_MODE %q, expected sync or buffered", getenv("TODO_WRITE_MODE"))
	}
	cfg.WriteMode = writeMode

	lockTimeout, err := time.ParseDuration(env("TODO_LOCK_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TODO_LOCK_TIMEOUT: %w", err)
	}
	if lockTimeout <= 0 {
		return nil, fmt.Errorf("invalid TODO_LOCK_TIMEOUT %s, must be positive", lockTimeout)
	}
	cfg.LockTimeout = lockTimeout

	switch cfg.Snapshot {
	case SnapshotFile:
		if cfg.DataFile == "" {
			return nil, fmt.Errorf("TODO_DATA_FILE must not be empty")
		}
	case SnapshotS3:
		if cfg.S3.Bucket == "" {
			return nil, fmt.Errorf("TODO_S3_BUCKET is required when TODO_SNAPSHOT=s3")
		}
	default:
		return nil, fmt.Errorf("invalid TODO_SNAPSHOT %q, expected %s or %s", cfg.Snapshot, SnapshotFile, SnapshotS3)
	}

	return cfg, nil
}
