package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go-campus/internal/bootstrap"
	"go-campus/internal/config"
	"go-campus/internal/events"
	"go-campus/internal/leavebalance"
	"go-campus/internal/leavepolicy"
	"go-campus/internal/messaging/kafka"
	"go-campus/internal/messaging/kafka/consumer"
	"go-campus/internal/shared/connection"
	"go-campus/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer runs the user lifecycle and leave notification consumers
// until SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config, logger *zap.Logger) error {
	log := logger.Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return errors.New("KAFKA_BROKER is required")
	}

	userService := user.NewService(sqlDB, user.NewRepository(gormDB), kafka.NewOutboxRepository(sqlDB), logger)
	policyService := leavepolicy.NewService(sqlDB, leavepolicy.NewRepository(gormDB), userService,
		cfg.Leave.AcademicYearStartMonth, logger)
	balanceService := leavebalance.NewService(sqlDB, leavebalance.NewRepository(gormDB), policyService, userService,
		bootstrap.NewStdoutAuditLogger(logger),
		leavebalance.Settings{
			AcademicYearStartMonth: cfg.Leave.AcademicYearStartMonth,
			LowBalanceThreshold:    cfg.Leave.LowBalanceThreshold,
		}, logger)

	userReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.UserLifecycleTopic,
		GroupID:        cfg.Kafka.GroupID + "-leave-balance",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer userReader.Close()

	leaveReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.LeaveApplicationTopic,
		GroupID:        cfg.Kafka.GroupID + "-leave-notification",
		CommitInterval: 0,
		StartOffset:    kafkago.LastOffset,
	})
	defer leaveReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeUserLifecycle(ctx, userReader, balanceService, log)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeLeaveNotifications(ctx, leaveReader, consumer.NewLogNotifier(log), log)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("consumer shutting down")
	cancel()
	wg.Wait()

	return nil
}
