// cmd/insight-server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"attrition-insights/internal/analytics"
	"attrition-insights/internal/attrition"
	"attrition-insights/internal/cache"
	"attrition-insights/internal/common/config"
	"attrition-insights/internal/common/database"
	"attrition-insights/internal/common/logger"
	"attrition-insights/internal/common/observability"
	"attrition-insights/internal/common/validation"
	"attrition-insights/internal/notify"
	"attrition-insights/internal/pipeline"
	"attrition-insights/internal/server"
	"attrition-insights/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting insight server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
	)

	// Reject bad alert rules before touching any backend.
	if err := validation.ValidateRules(cfg.Alerts.Rules); err != nil {
		zapLog.Fatal("alert rule validation failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry (optional, audit trail only) ---
	var esClient *database.ElasticsearchClient
	if cfg.Database.Elasticsearch.Enabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Load and train the attrition model ---
	surveyStore := store.NewSurveyStore(pg.DB, log)

	service, err := attrition.NewService(
		cfg.Model.Strategy,
		attrition.StrategyConfig{Trees: cfg.Model.Trees, Seed: cfg.Model.Seed},
		attrition.Config{
			IdentifierColumn: cfg.Survey.IdentifierColumn,
			SequenceColumn:   cfg.Survey.SequenceColumn,
			LabelColumn:      cfg.Survey.LabelColumn,
			TestFraction:     cfg.Model.TestFraction,
			SplitSeed:        cfg.Model.Seed,
		},
		log,
	)
	if err != nil {
		zapLog.Fatal("model service construction failed", zap.Error(err))
	}

	frame, err := surveyStore.LoadMerged(ctx)
	if err != nil {
		zapLog.Fatal("survey load failed", zap.Error(err))
	}
	if err := service.LoadAndClean(frame); err != nil {
		zapLog.Fatal("survey cleaning failed", zap.Error(err))
	}
	accuracy, err := service.Train()
	if err != nil {
		zapLog.Fatal("model training failed", zap.Error(err))
	}
	zapLog.Info("Attrition model trained", zap.Float64("accuracy", accuracy))

	// --- Wire the analytics pipeline ---
	engine := analytics.NewEngine(analytics.Config{
		IdentifierColumn:   cfg.Survey.IdentifierColumn,
		SequenceColumn:     cfg.Survey.SequenceColumn,
		LabelColumn:        cfg.Survey.LabelColumn,
		GroupDimensions:    cfg.Survey.GroupDimensions,
		MaxQuestionColumns: cfg.Survey.MaxQuestionColumns,
		QuestionColumns:    cfg.Survey.QuestionColumns,
	}, log)

	reportCache := cache.NewReportCache(redisClient.Client,
		time.Duration(cfg.Database.Redis.TTL)*time.Second, log)

	var notifier *notify.Notifier
	if cfg.Notifications.Enabled {
		var indexer notify.AlertIndexer
		if esClient != nil {
			indexer = esClient
		}
		notifier, err = notify.New(ctx, cfg.Notifications, indexer,
			cfg.Database.Elasticsearch.AlertIndex, log)
		if err != nil {
			zapLog.Fatal("notifier construction failed", zap.Error(err))
		}
	}

	runner := pipeline.NewRunner(surveyStore, engine, cfg.Alerts.Rules,
		reportCache, notifier, obs, log)
	runner.SetModelAccuracy(accuracy)

	// First pass at startup so the report endpoints have warm data.
	if _, _, err := runner.Run(ctx); err != nil {
		zapLog.Error("initial analytics pass failed", zap.Error(err))
	}

	// --- Schedule recurring passes ---
	var scheduler *cron.Cron
	if cfg.Scheduler.Enabled {
		scheduler = cron.New()
		_, err = scheduler.AddFunc(cfg.Scheduler.CronSpec, func() {
			if _, _, err := runner.Run(context.Background()); err != nil {
				log.WithError(err).Error("scheduled analytics pass failed", nil)
			}
		})
		if err != nil {
			zapLog.Fatal("cron schedule invalid", zap.Error(err))
		}
		scheduler.Start()
		zapLog.Info("Scheduler started", zap.String("spec", cfg.Scheduler.CronSpec))
	}

	// --- Serve HTTP ---
	srv := server.New(service, runner, reportCache, log)
	go func() {
		if err := srv.Run(cfg.Server.ListenAddress); err != nil {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down insight server...")
	if scheduler != nil {
		scheduler.Stop()
	}
}
