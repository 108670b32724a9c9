package consumer

import (
	"context"
	"encoding/json"

	"go-campus/internal/events"

	"go.uber.org/zap"
)

// Notifier delivers a leave application event to the people it concerns.
// The socket layer that pushes to browsers lives outside this service.
type Notifier interface {
	Notify(ctx context.Context, event events.LeaveApplicationEvent) error
}

type logNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) Notifier {
	return &logNotifier{logger: logger.Named("notifier")}
}

func (n *logNotifier) Notify(ctx context.Context, event events.LeaveApplicationEvent) error {
	n.logger.Info("leave application notification",
		zap.String("event_type", event.EventType),
		zap.String("reference_no", event.ReferenceNo),
		zap.String("user_id", event.UserID),
		zap.String("department", event.Department),
		zap.String("status", event.Status),
		zap.String("actor_id", event.ActorID),
	)
	return nil
}

// ConsumeLeaveNotifications forwards leave application events to notifier.
// Delivery is best effort: a failed notification is logged and committed.
func ConsumeLeaveNotifications(
	ctx context.Context,
	reader MessageReader,
	notifier Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notification")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		var event events.LeaveApplicationEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave application event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notifier.Notify(ctx, event); err != nil {
			log.Warn("leave notification failed",
				zap.String("application_id", event.ApplicationID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave notification message failed", zap.Error(err))
		}
	}
}
