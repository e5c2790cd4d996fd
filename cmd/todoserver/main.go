package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/gustapinto/go-todo-store/config"
	"github.com/gustapinto/go-todo-store/httpapi"
	"github.com/gustapinto/go-todo-store/logger"
	"github.com/gustapinto/go-todo-store/todo"
	"github.com/gustapinto/go-todo-store/todo/snapshot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("todo", "info").WithError(err).Fatal("failed to load config")
	}

	log := logger.New("todo", cfg.LogLevel)
	if log.Logger.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	snap, err := openSnapshot(cfg)
	if err != nil {
		log.WithError(err).Fatal("failed to open snapshot")
	}

	ctx := context.Background()
	store, err := todo.NewStore(ctx, snap,
		todo.WithLockTimeout(cfg.LockTimeout),
		todo.WithLogger(log.WithField("component", "store")),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize store")
	}

	useSentry := cfg.SentryDSN != ""
	if useSentry {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			log.WithError(err).Fatal("sentry initialization failed")
		}
		defer sentry.Flush(2 * time.Second)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := httpapi.NewRouter(store, log, httpapi.Options{
		Metrics: httpapi.NewMetrics(reg),
		Sentry:  useSentry,
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.Addr, "snapshot": cfg.Snapshot}).Info("todo server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
		return
	}

	log.Info("todo server stopped")
}

func openSnapshot(cfg *config.Config) (todo.Snapshot, error) {
	if cfg.Snapshot == config.SnapshotS3 {
		return snapshot.NewS3(cfg.S3.Bucket, cfg.S3.Key, awsConfig(cfg.S3)), nil
	}

	return snapshot.NewFile(cfg.DataFile, cfg.WriteMode)
}

func awsConfig(cfg config.S3Config) aws.Config {
	awsCfg := aws.Config{
		Region: cfg.Region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     cfg.AccessKeyID,
				SecretAccessKey: cfg.SecretAccessKey,
				Source:          "environment",
			}, nil
		}),
	}

	if cfg.Endpoint != "" {
		awsCfg.BaseEndpoint = aws.String(cfg.Endpoint)
	}

	return awsCfg
}
