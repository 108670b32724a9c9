package consumer

import (
	"context"
	"encoding/json"
	"time"

	"go-campus/internal/events"
	"go-campus/internal/leavebalance"
	"go-campus/internal/shared/apperror"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type BalanceInitializer interface {
	Initialize(ctx context.Context, req leavebalance.InitializeRequest) (leavebalance.InitializeResult, error)
}

// RetryBackoff is the first wait before an unavailable dependency is retried.
// It doubles on every attempt up to MaxRetryBackoff.
var (
	RetryBackoff    = time.Second
	MaxRetryBackoff = 30 * time.Second
)

// ConsumeUserLifecycle opens the current academic year's balance for every
// created user. Redelivered events find the balance already present and are
// skipped. A message whose initialisation hits an unavailable dependency is
// retried in place, so later offsets are never committed ahead of it.
func ConsumeUserLifecycle(
	ctx context.Context,
	reader MessageReader,
	balances BalanceInitializer,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.user_lifecycle")
	log.Info("user lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("user lifecycle consumer stopped")
				return
			}
			log.Error("fetch user lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.UserCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode user lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}
		if event.EventType != events.UserCreatedEventType {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		res, err := initializeWithRetry(ctx, balances, event, log)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("user lifecycle consumer stopped",
					zap.String("user_id", event.UserID),
					zap.Int64("uncommitted_offset", msg.Offset),
				)
				return
			}

			log.Warn("user_created event cannot initialize a balance, skipping",
				zap.String("user_id", event.UserID),
				zap.String("user_type", event.UserType),
				zap.Error(err),
			)
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit user lifecycle message failed", zap.Error(err))
			continue
		}

		if !res.Created {
			log.Info("balance already initialized, skipping",
				zap.String("user_id", event.UserID),
				zap.String("academic_year", res.Balance.AcademicYear),
			)
			continue
		}
		log.Info("balance initialized from user_created event",
			zap.String("user_id", event.UserID),
			zap.String("academic_year", res.Balance.AcademicYear),
		)
	}
}

func initializeWithRetry(
	ctx context.Context,
	balances BalanceInitializer,
	event events.UserCreatedEvent,
	log *zap.Logger,
) (leavebalance.InitializeResult, error) {
	backoff := RetryBackoff
	for attempt := 1; ; attempt++ {
		res, err := balances.Initialize(ctx, leavebalance.InitializeRequest{
			UserID:     event.UserID,
			UserType:   event.UserType,
			Department: event.Department,
		})
		if err == nil || !retryable(err) {
			return res, err
		}

		log.Error("initialize balance from user_created failed, retrying",
			zap.String("user_id", event.UserID),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return leavebalance.InitializeResult{}, ctx.Err()
		case <-timer.C:
		}
		backoff = min(backoff*2, MaxRetryBackoff)
	}
}

func retryable(err error) bool {
	return apperror.IsConnectivity(err) || apperror.Is(err, apperror.CodeServiceUnavailable)
}
