package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/TrackSheet/config"
	"github.com/BearBump/TrackSheet/internal/api/records_api"
	"github.com/BearBump/TrackSheet/internal/broker/kafka"
	"github.com/BearBump/TrackSheet/internal/cache/rediscache"
	"github.com/BearBump/TrackSheet/internal/services/ingest"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}

	httpAddr := cfg.TrackSheet.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}
	consumerGroup := cfg.TrackSheet.KafkaConsumerGroup
	if consumerGroup == "" {
		consumerGroup = "tracksheet-api"
	}
	topics := ingest.Topics{
		RecordsPersisted: cfg.Kafka.RecordsPersistedTopicName,
		RecordEdited:     cfg.Kafka.RecordEditedTopicName,
	}
	if topics.RecordsPersisted == "" {
		topics.RecordsPersisted = "records.persisted"
	}
	if topics.RecordEdited == "" {
		topics.RecordEdited = "record.edited"
	}
	editRequestsTopic := cfg.Kafka.EditRequestsTopicName
	if editRequestsTopic == "" {
		editRequestsTopic = "record.edit.requests"
	}
	cacheTTL := time.Duration(cfg.TrackSheet.RecordCacheTTLSeconds) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	uploadLimit := int64(cfg.TrackSheet.UploadRateLimitPerMinute)
	if uploadLimit <= 0 {
		uploadLimit = 30
	}

	sslMode := cfg.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.Username, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, sslMode)
	st := mustOpenPostgresWithRetry(connString, 60*time.Second)
	defer st.Close()

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	rc := rediscache.New(redisAddr)
	rl := rediscache.NewRateLimiter(redisAddr)

	brokers := []string{fmt.Sprintf("%s:%d", cfg.Kafka.Host, cfg.Kafka.Port)}
	producer := kafka.NewProducer(brokers)
	defer func() { _ = producer.Close() }()
	consumer := kafka.NewConsumer(brokers, editRequestsTopic, consumerGroup)
	defer func() { _ = consumer.Close() }()

	svc := ingest.New(st, rc, producer, topics, cacheTTL)
	api := records_api.New(svc).WithRateLimiter(rl, uploadLimit)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := runAPI(ctx, apiOpts{
		httpAddr:          httpAddr,
		editRequestsTopic: editRequestsTopic,
		consumerGroup:     consumerGroup,
	}, api, svc, consumer); err != nil && err != context.Canceled {
		panic(err)
	}
}
