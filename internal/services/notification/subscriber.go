package notification

import (
	"context"
	"fmt"
	"io"
	"os"

	"catering-platform/internal/logger"
	"catering-platform/internal/messaging"
	"catering-platform/internal/models"
)

// Subscriber prints a line for every catering event it consumes
type Subscriber struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
	out      io.Writer
}

// NewSubscriber creates a new notification subscriber
func NewSubscriber(consumer *messaging.Consumer, log *logger.Logger) *Subscriber {
	return &Subscriber{
		consumer: consumer,
		logger:   log,
		out:      os.Stdout,
	}
}

// Start consumes until ctx is cancelled
func (s *Subscriber) Start(ctx context.Context) error {
	requestID := logger.GenerateRequestID()
	s.logger.Info("service_started", "Notification subscriber started", requestID, nil)

	err := s.consumer.StartConsuming(ctx, s.handleEvent)
	if err != nil && ctx.Err() == nil {
		s.logger.Error("consumer_failed", "Notification consumer failed", requestID, err, nil)
		return err
	}

	s.logger.Info("graceful_shutdown", "Notification subscriber stopped", requestID, nil)
	return s.consumer.Close()
}

func (s *Subscriber) handleEvent(ctx context.Context, routingKey string, body []byte) error {
	requestID := logger.GenerateRequestID()

	var event models.Event
	if err := messaging.ParseMessage(body, &event); err != nil {
		s.logger.Error("message_parsing_failed", "Failed to parse event", requestID, err,
			map[string]interface{}{"routing_key": routingKey})
		return err
	}
	if event.Type == "" {
		event.Type = routingKey
	}

	fmt.Fprintln(s.out, formatNotification(&event))

	s.logger.Info("notification_displayed", "Notification displayed", requestID, map[string]interface{}{
		"type":       event.Type,
		"menu_id":    event.MenuID,
		"order_id":   event.OrderID,
		"old_status": event.OldStatus,
		"new_status": event.NewStatus,
	})
	return nil
}

// formatNotification renders an event as a human-readable line
func formatNotification(event *models.Event) string {
	timestamp := event.Timestamp.Format("2006-01-02 15:04:05")

	switch event.Type {
	case models.EventMenuPublished:
		date := "unknown date"
		if event.MenuDate != nil {
			date = event.MenuDate.Format(models.DateLayout)
		}
		return fmt.Sprintf("[%s] Menu %s published for %s", timestamp, event.MenuID, date)
	case models.EventOrderCreated:
		total := "0.00"
		if event.Total != nil {
			total = event.Total.String()
		}
		return fmt.Sprintf("[%s] New order %s from %s on menu %s, total %s",
			timestamp, event.OrderID, event.CustomerName, event.MenuID, total)
	case models.EventOrderStatusChanged:
		return fmt.Sprintf("[%s] Order %s for %s changed from '%s' to '%s'",
			timestamp, event.OrderID, event.CustomerName, event.OldStatus, event.NewStatus)
	default:
		return fmt.Sprintf("[%s] Event %s received", timestamp, event.Type)
	}
}
