package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/Ramsey-B/laurel/config"
	"github.com/Ramsey-B/laurel/internal/database"
	"github.com/Ramsey-B/laurel/internal/logging"
	"github.com/Ramsey-B/laurel/internal/tracing"
	datasetrepo "github.com/Ramsey-B/laurel/internal/repositories/dataset"
	matchrepo "github.com/Ramsey-B/laurel/internal/repositories/match"
	"github.com/Ramsey-B/laurel/internal/repositories/mastermatch"
	recordrepo "github.com/Ramsey-B/laurel/internal/repositories/record"
	"github.com/Ramsey-B/laurel/pkg/engine"
	"github.com/Ramsey-B/laurel/pkg/events"
	"github.com/Ramsey-B/laurel/pkg/kafka"
	"github.com/Ramsey-B/laurel/pkg/matching"
	"github.com/Ramsey-B/laurel/pkg/models"
	"github.com/Ramsey-B/laurel/pkg/names"
	"github.com/Ramsey-B/laurel/pkg/nlp"
	"github.com/Ramsey-B/laurel/pkg/routes/health"
	matchroutes "github.com/Ramsey-B/laurel/pkg/routes/match"
	"github.com/Ramsey-B/laurel/pkg/search"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the matching engine: job consumer plus review API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	shutdownTracing, err := tracing.Init(ctx, cfg.AppName)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdownTracing(context.Background()) //nolint:errcheck

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(cfg, db, logger); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	searchClient, err := search.NewClient(search.Config{
		Host:     cfg.SearchDBHost,
		Port:     cfg.SearchDBPort,
		Username: cfg.SearchDBUser,
		Password: cfg.SearchDBPassword,
	}, logger)
	if err != nil {
		return fmt.Errorf("connect candidate index: %w", err)
	}
	defer searchClient.Close(ctx) //nolint:errcheck

	index := search.NewIndex(searchClient, logger, cfg.SearchIndexName, cfg.SearchMaxHits)

	datasets := datasetrepo.NewRepository(db, logger)
	records := recordrepo.NewRepository(db, logger)
	matches := matchrepo.NewRepository(db, logger)
	masters := mastermatch.NewRepository(db, logger)

	classifier := names.NewClassifier(names.TypeConfig{
		LastNameTypes:  cfg.LastNameTypes(),
		FirstNameTypes: cfg.FirstNameTypes(),
		OrgNameTypes:   cfg.OrgNameTypes(),
	})
	bioScorer := matching.NewBioScorer(nlp.NewExtractor())
	scorer := matching.NewMatchScorer(classifier, bioScorer, logger)
	aggregator := engine.NewAggregator(masters, classifier)

	matchEngine := engine.New(logger, datasets, records, matches, index, scorer, classifier, aggregator, engine.Config{
		ScoreThreshold:  cfg.MatchScoreThreshold,
		WorkerCount:     cfg.MatchWorkerCount,
		RecordBatchSize: cfg.RecordBatchSize,
	})

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaEventTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, logger)
	defer producer.Close()

	emitter := events.NewEmitter(producer, logger)

	handler := func(ctx context.Context, incoming *kafka.IncomingMessage) error {
		msg := *incoming.JobMessage
		emitter.EmitJobStarted(ctx, msg)
		if err := matchEngine.Process(ctx, msg); err != nil {
			emitter.EmitJobFailed(ctx, msg, err)
			return err
		}
		emitter.EmitJobCompleted(ctx, msg, countMatches(ctx, matches, msg))
		return nil
	}

	var consumer *kafka.Consumer
	if cfg.KafkaConsumerEnabled {
		consumer = kafka.NewConsumer(cfg, logger, handler)
		if err := consumer.Start(ctx); err != nil {
			return fmt.Errorf("start consumer: %w", err)
		}
		defer consumer.Stop() //nolint:errcheck
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.AllowOrigins}))

	checker := health.NewChecker(db, searchClient, version)
	checker.RegisterRoutes(e)
	checker.SetReady(true)

	matchroutes.NewHandler(matches, masters).Register(e.Group("/api/v1"))

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("http server stopped", zap.Error(err))
			cancel()
		}
	}()

	logger.Info("laurel engine started", zap.Int("port", cfg.Port))
	<-ctx.Done()
	logger.Info("laurel engine shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return e.Shutdown(shutdownCtx)
}

func countMatches(ctx context.Context, matches *matchrepo.Repository, msg models.MatchJobMessage) int {
	count, err := matches.CountByJob(ctx, msg.JobID)
	if err != nil {
		return 0
	}
	return count
}
