package notification

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/messaging"
	"catering-platform/internal/models"
)

func TestFormatNotification(t *testing.T) {
	ts := time.Date(2025, 10, 15, 9, 30, 0, 0, time.UTC)
	day := time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC)
	total := models.MustMoney("49.98")

	tests := []struct {
		name  string
		event models.Event
		want  string
	}{
		{
			"menu published",
			models.Event{Type: models.EventMenuPublished, MenuID: "m1", MenuDate: &day, Timestamp: ts},
			"[2025-10-15 09:30:00] Menu m1 published for 2025-10-18",
		},
		{
			"order created",
			models.Event{Type: models.EventOrderCreated, OrderID: "o1", MenuID: "m1", CustomerName: "Jane", Total: &total, Timestamp: ts},
			"[2025-10-15 09:30:00] New order o1 from Jane on menu m1, total 49.98",
		},
		{
			"status changed",
			models.Event{Type: models.EventOrderStatusChanged, OrderID: "o1", CustomerName: "Jane",
				OldStatus: models.StatusPending, NewStatus: models.StatusConfirmed, Timestamp: ts},
			"[2025-10-15 09:30:00] Order o1 for Jane changed from 'pending' to 'confirmed'",
		},
		{
			"unknown",
			models.Event{Type: "menu.deleted", Timestamp: ts},
			"[2025-10-15 09:30:00] Event menu.deleted received",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatNotification(&tt.event); got != tt.want {
				t.Errorf("formatNotification =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestHandleEvent(t *testing.T) {
	var out bytes.Buffer
	s := &Subscriber{
		logger: logger.NewWithWriter("test", io.Discard, slog.LevelError),
		out:    &out,
	}

	body := []byte(`{"type":"order.status_changed","order_id":"o1","customer_name":"Jane","old_status":"pending","new_status":"completed","timestamp":"2025-10-15T09:30:00Z"}`)
	if err := s.handleEvent(context.Background(), models.EventOrderStatusChanged, body); err != nil {
		t.Fatalf("handleEvent: %v", err)
	}
	if !strings.Contains(out.String(), "Order o1 for Jane changed from 'pending' to 'completed'") {
		t.Errorf("output = %q", out.String())
	}

	if err := s.handleEvent(context.Background(), models.EventOrderCreated, []byte("nope")); !errors.Is(err, messaging.ErrMalformedMessage) {
		t.Errorf("malformed error = %v", err)
	}
}
