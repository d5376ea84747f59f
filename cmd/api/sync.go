package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"example.com/salesvault/internal/config"
	"example.com/salesvault/internal/crmsync"
	"example.com/salesvault/internal/domain"
	"example.com/salesvault/internal/outbox"
)

// buildNotifier selects the CRM sync backend. Every backend except none runs behind an
// AsyncNotifier so submissions never wait on the network. The returned func releases resources.
func buildNotifier(ctx context.Context, cfg config.Config, logger *zap.Logger) (domain.Notifiable, func(), error) {
	var (
		inner   domain.Notifiable
		closers []func()
	)

	switch cfg.SyncBackend {
	case crmsync.BackendNone, "":
		return crmsync.Noop{}, func() {}, nil
	case crmsync.BackendHTTP:
		if cfg.CRMWebhookURL == "" {
			return nil, nil, errors.New("CRM_WEBHOOK_URL is required for the http backend")
		}
		inner = crmsync.NewHTTPNotifier(cfg.CRMWebhookURL, cfg.CRMWebhookToken, cfg.SyncTimeout)
	case crmsync.BackendKafka:
		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		closers = append(closers, func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close", zap.Error(err))
			}
		})
		registry := outbox.NewSchemaRegistryClient(cfg.SchemaRegistryURL, cfg.SyncTimeout)
		inner = crmsync.NewKafkaNotifier(outbox.NewPublisher(producer, registry), cfg.SyncTopic)
	case crmsync.BackendOutbox:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		inner = crmsync.NewOutboxNotifier(pool, cfg.SyncTopic)
	default:
		return nil, nil, fmt.Errorf("unknown SYNC_BACKEND %q", cfg.SyncBackend)
	}

	async := crmsync.NewAsyncNotifier(inner, cfg.SyncQueueSize, cfg.SyncTimeout, logger.Named("crmsync"))
	closeAll := func() {
		async.Close()
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return async, closeAll, nil
}
