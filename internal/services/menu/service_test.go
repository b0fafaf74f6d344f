package menu

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/models"
	"catering-platform/internal/store/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*models.Event
}

func (p *recordingPublisher) PublishEvent(ctx context.Context, event *models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func newTestService(opts Options) (*Service, *memory.Store, *recordingPublisher) {
	st := memory.New()
	pub := &recordingPublisher{}
	log := logger.NewWithWriter("test", io.Discard, slog.LevelError)
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return NewService(st, st, pub, log, opts), st, pub
}

func intPtr(v int) *int { return &v }

func TestCreateMenuRequest_Validate(t *testing.T) {
	tests := []struct {
		name          string
		req           CreateMenuRequest
		wantField     string
		wantMaxOrders int
	}{
		{"valid", CreateMenuRequest{Date: "2025-10-15", ItemIDs: []string{"a"}, MaxOrders: intPtr(10)}, "", 10},
		{"default max orders", CreateMenuRequest{Date: "2025-10-15T12:00:00Z", ItemIDs: []string{"a"}}, "", 50},
		{"missing date", CreateMenuRequest{ItemIDs: []string{"a"}}, "date", 0},
		{"bad date", CreateMenuRequest{Date: "tomorrow", ItemIDs: []string{"a"}}, "date", 0},
		{"no items", CreateMenuRequest{Date: "2025-10-15", ItemIDs: []string{}}, "itemIds", 0},
		{"blank item id", CreateMenuRequest{Date: "2025-10-15", ItemIDs: []string{"a", " "}}, "itemIds[1]", 0},
		{"zero max orders", CreateMenuRequest{Date: "2025-10-15", ItemIDs: []string{"a"}, MaxOrders: intPtr(0)}, "maxOrders", 0},
		{"negative max orders", CreateMenuRequest{Date: "2025-10-15", ItemIDs: []string{"a"}, MaxOrders: intPtr(-3)}, "maxOrders", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			menu, err := tt.req.Validate(time.UTC, models.DefaultMaxOrders)
			if tt.wantField != "" {
				var ve *models.ValidationError
				if !errors.As(err, &ve) || ve.Field != tt.wantField {
					t.Errorf("Validate() error = %v, want validation error on %s", err, tt.wantField)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if menu.MaxOrders != tt.wantMaxOrders {
				t.Errorf("MaxOrders = %d, want %d", menu.MaxOrders, tt.wantMaxOrders)
			}
		})
	}
}

func TestService_GetByDateIgnoresTimeOfDay(t *testing.T) {
	svc, _, pub := newTestService(Options{})
	ctx := context.Background()

	created, err := svc.Create(ctx, &CreateMenuRequest{
		Date: "2025-10-15T18:45:00Z", ItemIDs: []string{"i1", "i2"}, MaxOrders: intPtr(10),
	}, "req")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.GetByDate(ctx, "2025-10-15")
	if err != nil {
		t.Fatalf("GetByDate: %v", err)
	}
	if got.ID != created.ID || len(got.ItemIDs) != 2 || got.MaxOrders != 10 {
		t.Errorf("GetByDate = %+v, want %+v", got, created)
	}

	if len(pub.events) != 1 || pub.events[0].Type != models.EventMenuPublished || pub.events[0].MenuID != created.ID {
		t.Errorf("published events = %+v", pub.events)
	}
}

func TestService_GetByDateNotFound(t *testing.T) {
	svc, _, _ := newTestService(Options{})

	if _, err := svc.GetByDate(context.Background(), "2025-10-16"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("GetByDate error = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetByDate(context.Background(), "not-a-date"); !models.IsValidation(err) {
		t.Errorf("GetByDate(bad) error = %v, want validation error", err)
	}
}

func TestService_DuplicateDates(t *testing.T) {
	ctx := context.Background()
	req := func(date string) *CreateMenuRequest {
		return &CreateMenuRequest{Date: date, ItemIDs: []string{"a"}}
	}

	t.Run("permissive returns first match", func(t *testing.T) {
		svc, _, _ := newTestService(Options{})
		first, err := svc.Create(ctx, req("2025-10-15"), "")
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := svc.Create(ctx, req("2025-10-15T09:00:00Z"), ""); err != nil {
			t.Fatalf("second Create: %v", err)
		}
		got, err := svc.GetByDate(ctx, "2025-10-15")
		if err != nil || got.ID != first.ID {
			t.Errorf("GetByDate = %v, %v; want first menu %s", got, err, first.ID)
		}
	})

	t.Run("unique rejects second", func(t *testing.T) {
		svc, _, _ := newTestService(Options{UniquePerDate: true})
		if _, err := svc.Create(ctx, req("2025-10-15"), ""); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := svc.Create(ctx, req("2025-10-15T20:00:00Z"), ""); !errors.Is(err, models.ErrConflict) {
			t.Errorf("second Create error = %v, want ErrConflict", err)
		}
		if _, err := svc.Create(ctx, req("2025-10-16"), ""); err != nil {
			t.Errorf("Create on free day: %v", err)
		}
	})
}

func TestService_Availability(t *testing.T) {
	svc, st, _ := newTestService(Options{})
	ctx := context.Background()

	menu, err := svc.Create(ctx, &CreateMenuRequest{Date: "2025-10-15", ItemIDs: []string{"a"}, MaxOrders: intPtr(2)}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	for i := 0; i < 3; i++ {
		order := &models.Order{MenuID: menu.ID, CustomerName: "c", Status: models.StatusPending, Date: menu.Date}
		if err := st.CreateOrder(ctx, order); err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
	}

	got, err := svc.Availability(ctx, menu.ID)
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if got.MaxOrders != 2 || got.OrderCount != 3 || got.Remaining != 0 {
		t.Errorf("Availability = %+v", got)
	}
	if _, err := svc.Availability(ctx, "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Availability(missing) error = %v", err)
	}
}

func TestService_Calendar(t *testing.T) {
	svc, _, _ := newTestService(Options{})
	ctx := context.Background()

	for _, date := range []string{"2025-10-20", "2025-10-03", "2025-10-20T15:00:00Z", "2025-11-01", "2025-09-30"} {
		if _, err := svc.Create(ctx, &CreateMenuRequest{Date: date, ItemIDs: []string{"a"}}, ""); err != nil {
			t.Fatalf("Create(%s): %v", date, err)
		}
	}

	days, err := svc.Calendar(ctx, "2025-10")
	if err != nil {
		t.Fatalf("Calendar: %v", err)
	}
	if len(days) != 2 || days[0].Date != "2025-10-03" || days[1].Date != "2025-10-20" {
		t.Errorf("Calendar = %+v", days)
	}

	if _, err := svc.Calendar(ctx, "October"); !models.IsValidation(err) {
		t.Errorf("Calendar(bad) error = %v, want validation error", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc, _, _ := newTestService(Options{})
	ctx := context.Background()

	menu, err := svc.Create(ctx, &CreateMenuRequest{Date: "2025-10-15", ItemIDs: []string{"a"}}, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if deleted, err := svc.Delete(ctx, menu.ID, ""); err != nil || !deleted {
		t.Fatalf("Delete = %v, %v", deleted, err)
	}
	if deleted, err := svc.Delete(ctx, menu.ID, ""); err != nil || deleted {
		t.Errorf("second Delete = %v, %v; want false, nil", deleted, err)
	}
	if _, err := svc.Get(ctx, menu.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get after delete error = %v", err)
	}
}
