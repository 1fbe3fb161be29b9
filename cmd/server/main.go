package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"moderation/pkg/api"
	"moderation/pkg/audit"
	"moderation/pkg/censor"
	"moderation/pkg/config"
	"moderation/pkg/storage"
	"moderation/pkg/storage/memdb"
	"moderation/pkg/storage/mongo"
)

func main() {
	var (
		configPath  string
		lexiconPath string
		httpAddr    string
		logLevel    string
		kafkaAddr   string
		kafkaTopic  string
		dev         bool
	)

	flag.StringVar(&configPath, "servconf", "cmd/server/config.toml", "Path to TOML config file")
	flag.StringVar(&lexiconPath, "lexicon", "", "Path to JSON lexicon file, built-in word list if empty")
	flag.StringVar(&httpAddr, "http", "", "HTTP server address in the form 'host:port'.")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.StringVar(&kafkaAddr, "kafka", "", "Kafka server address in the form 'host:port'.")
	flag.StringVar(&kafkaTopic, "topic", "", "Kafka topic for moderation events.")
	flag.BoolVar(&dev, "dev", false, "Run the server in development mode with in-memory DB.")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[server] failed to load config file %s: %v", configPath, err)
	}

	// Override config with flags if set
	if lexiconPath != "" {
		cfg.LexiconPath = lexiconPath
	}
	if httpAddr != "" {
		cfg.HTTPAddr = httpAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if kafkaAddr != "" {
		cfg.Kafka.Addr = kafkaAddr
	}
	if kafkaTopic != "" {
		cfg.Kafka.EventTopic = kafkaTopic
	}
	if dev {
		cfg.Dev = true
	}

	log.SetLevel(cfg.Level())

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[server] invalid config: %v", err)
	}

	c, err := newCensor(cfg)
	if err != nil {
		log.Fatalf("[server] failed to load lexicon %s: %v", cfg.LexiconPath, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := newStorage(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("[server] failed to initialize storage: %v", err)
	}

	pub, writers := newPublisher(cfg)

	api, err := api.New(cfg.ServiceName, c, db, pub)
	if err != nil {
		log.Fatalf("[server] failed to create API: %v", err)
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Infof("[server] starting on port %v", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[server] failed to start: %v", err)
			return
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownRelease := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownRelease()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("[server] HTTP server shutdown error: %v", err)
	} else {
		log.Info("[server] HTTP server shut down gracefully")
	}

	for _, w := range writers {
		if err := w.Close(); err != nil {
			log.Errorf("[server] failed to close Kafka writer: %v", err)
		}
	}

	if err := db.Close(shutdownCtx); err != nil {
		log.Errorf("[server] failed to disconnect from DB: %v", err)
	} else {
		log.Info("[server] disconnected from DB")
	}
}

func newCensor(cfg config.Config) (*censor.Censor, error) {
	opt := censor.WithMaskRune(cfg.MaskRune())
	if cfg.LexiconPath == "" {
		log.Info("[server] using built-in lexicon")
		return censor.Default(opt), nil
	}
	return censor.NewFromJSON(cfg.LexiconPath, opt)
}

func newStorage(ctx context.Context, cfg config.Config) (storage.Storage, error) {
	if cfg.Dev {
		log.Info("[server] run server with in memory DB")
		return memdb.New(), nil
	}

	db, err := mongo.New(ctx, &cfg.Mongo)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(ctx); err != nil {
		return nil, err
	}
	log.Infof("[server] connected to mongo: %s", cfg.Mongo)

	return db, nil
}

// newPublisher builds Kafka writers for the configured topics. Topics are
// created best effort.
func newPublisher(cfg config.Config) (*audit.Publisher, []*kafka.Writer) {
	if !cfg.KafkaEnabled() {
		log.Warnf("[server] kafka was not configured, logs and events will not be sent to Kafka")
		return nil, nil
	}

	var (
		logs, events audit.Writer
		writers      []*kafka.Writer
	)
	newWriter := func(topic string) *kafka.Writer {
		w := &kafka.Writer{
			Addr:      kafka.TCP(cfg.Kafka.Addr),
			Topic:     topic,
			BatchSize: cfg.Kafka.Batch,
		}
		if err := audit.CreateTopic(cfg.Kafka.Addr, topic); err != nil {
			log.Warnf("[server] failed to create Kafka topic %s: %v", topic, err)
		}
		writers = append(writers, w)
		return w
	}

	if cfg.Kafka.LogTopic != "" {
		logs = newWriter(cfg.Kafka.LogTopic)
	}
	if cfg.Kafka.EventTopic != "" {
		events = newWriter(cfg.Kafka.EventTopic)
	}

	return audit.NewPublisher(cfg.ServiceName, logs, events), writers
}
