package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/models"
	"catering-platform/internal/store/memory"
)

func newTestService(t *testing.T, now time.Time) (*Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	log := logger.NewWithWriter("test", io.Discard, slog.LevelError)
	svc := NewService(st, st, st, log, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, st
}

func TestService_Stats(t *testing.T) {
	now := time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)
	svc, st := newTestService(t, now)
	ctx := context.Background()

	for _, name := range []string{"Salmon", "Salad"} {
		st.CreateItem(ctx, &models.MenuItem{Name: name, Price: models.MustMoney("10.00")})
	}
	for _, date := range []time.Time{
		now.AddDate(0, 0, -1),
		time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		now.AddDate(0, 1, 0),
	} {
		st.CreateMenu(ctx, &models.Menu{Date: date, ItemIDs: []string{"x"}, MaxOrders: 5})
	}
	for _, total := range []string{"49.98", "12.50"} {
		order := &models.Order{MenuID: "m", CustomerName: "Jane", Total: models.MustMoney(total), Date: now, Status: models.StatusPending}
		st.CreateOrder(ctx, order)
		if total == "12.50" {
			st.UpdateOrderStatus(ctx, order.ID, models.StatusCompleted, nil)
		}
	}

	stats, err := svc.Stats(ctx, "req")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalOrders != 2 || stats.TotalItems != 2 || stats.UpcomingMenus != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalRevenue.String() != "62.48" {
		t.Errorf("revenue = %s, want 62.48", stats.TotalRevenue)
	}
	want := map[models.OrderStatus]int{models.StatusPending: 1, models.StatusConfirmed: 0, models.StatusCompleted: 1}
	for status, n := range want {
		if stats.OrdersByStatus[status] != n {
			t.Errorf("ordersByStatus[%s] = %d, want %d", status, stats.OrdersByStatus[status], n)
		}
	}
}

type failingOrders struct{}

func (failingOrders) ListOrders(ctx context.Context) ([]models.Order, error) {
	return nil, models.WrapStorage("list orders", errors.New("connection refused"))
}

func TestHandler_GetStats(t *testing.T) {
	log := logger.NewWithWriter("test", io.Discard, slog.LevelError)
	st := memory.New()

	tests := []struct {
		name   string
		orders OrderLister
		want   int
	}{
		{"empty ledger", st, http.StatusOK},
		{"storage failure", failingOrders{}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			NewHandler(NewService(st, st, tt.orders, log, time.UTC), log).RegisterRoutes(mux)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want != http.StatusOK {
				return
			}
			var body map[string]interface{}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["totalOrders"] != float64(0) || body["totalRevenue"] != "0.00" {
				t.Errorf("body = %v", body)
			}
		})
	}
}
