package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catering-platform/internal/config"
	"catering-platform/internal/logger"
	"catering-platform/internal/messaging"
	"catering-platform/internal/store/memory"
)

func newTestServer(t *testing.T, ordering config.OrderingConfig) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{AllowedOrigins: []string{"*"}},
		Ordering: ordering,
	}
	log := logger.NewWithWriter("test", io.Discard, slog.LevelError)
	srv := httptest.NewServer(SetupRoutes(memory.New(), messaging.NopPublisher{}, cfg, time.UTC, log))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, method, url, body string, out interface{}) int {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestCateringFlow(t *testing.T) {
	srv := newTestServer(t, config.OrderingConfig{DefaultMaxOrders: 50})

	var item struct {
		ID    string `json:"id"`
		Price string `json:"price"`
	}
	if code := call(t, http.MethodPost, srv.URL+"/api/menu-items",
		`{"name":"Salmon","price":"24.99","description":"d","image":"x"}`, &item); code != http.StatusCreated {
		t.Fatalf("create item status = %d", code)
	}

	var menu struct {
		ID string `json:"id"`
	}
	if code := call(t, http.MethodPost, srv.URL+"/api/menus",
		`{"date":"2025-10-15","itemIds":["`+item.ID+`"],"maxOrders":10}`, &menu); code != http.StatusCreated {
		t.Fatalf("create menu status = %d", code)
	}

	var byDate struct {
		ID      string   `json:"id"`
		ItemIDs []string `json:"itemIds"`
	}
	if code := call(t, http.MethodGet, srv.URL+"/api/menus/by-date/2025-10-15", "", &byDate); code != http.StatusOK {
		t.Fatalf("by-date status = %d", code)
	}
	if byDate.ID != menu.ID || len(byDate.ItemIDs) != 1 || byDate.ItemIDs[0] != item.ID {
		t.Errorf("by-date = %+v, want menu %s with %s", byDate, menu.ID, item.ID)
	}

	var created map[string]interface{}
	code := call(t, http.MethodPost, srv.URL+"/api/orders", `{
		"menuId":"`+menu.ID+`",
		"customerName":"Jane",
		"items":[{"itemId":"`+item.ID+`","name":"Salmon","quantity":2,"price":24.99}],
		"total":49.98,
		"date":"2025-10-15"
	}`, &created)
	if code != http.StatusCreated {
		t.Fatalf("create order status = %d (%v)", code, created)
	}
	orderID := created["id"].(string)

	var read map[string]interface{}
	call(t, http.MethodGet, srv.URL+"/api/orders/"+orderID, "", &read)
	if read["status"] != "pending" || read["total"] != "49.98" {
		t.Errorf("order = %v, want pending with total 49.98", read)
	}

	if code := call(t, http.MethodPatch, srv.URL+"/api/orders/"+orderID+"/status", `{"status":"confirmed"}`, nil); code != http.StatusOK {
		t.Fatalf("update status = %d", code)
	}
	var confirmed map[string]interface{}
	call(t, http.MethodGet, srv.URL+"/api/orders/"+orderID, "", &confirmed)
	if confirmed["status"] != "confirmed" {
		t.Errorf("status = %v, want confirmed", confirmed["status"])
	}
	for _, field := range []string{"menuId", "customerName", "total", "date"} {
		if confirmed[field] != read[field] {
			t.Errorf("%s changed from %v to %v", field, read[field], confirmed[field])
		}
	}

	var missing map[string]interface{}
	if code := call(t, http.MethodGet, srv.URL+"/api/menus/by-date/2025-10-16", "", &missing); code != http.StatusNotFound {
		t.Errorf("by-date without menu status = %d, want 404", code)
	}
	if missing["error"] == nil || missing["request_id"] == "" {
		t.Errorf("error body = %v", missing)
	}

	var stats map[string]interface{}
	call(t, http.MethodGet, srv.URL+"/api/dashboard/stats", "", &stats)
	if stats["totalOrders"] != float64(1) || stats["totalRevenue"] != "49.98" || stats["totalItems"] != float64(1) {
		t.Errorf("stats = %v", stats)
	}
}

func TestCapacityEnforcedFromConfig(t *testing.T) {
	srv := newTestServer(t, config.OrderingConfig{EnforceCapacity: true, DefaultMaxOrders: 50})

	var menu struct {
		ID string `json:"id"`
	}
	call(t, http.MethodPost, srv.URL+"/api/menus", `{"date":"2025-10-15","itemIds":["a"],"maxOrders":1}`, &menu)

	body := `{"menuId":"` + menu.ID + `","customerName":"Jane","items":[{"itemId":"a","name":"A","quantity":1,"price":"5"}],"total":"5","date":"2025-10-15"}`
	if code := call(t, http.MethodPost, srv.URL+"/api/orders", body, nil); code != http.StatusCreated {
		t.Fatalf("first order status = %d", code)
	}
	if code := call(t, http.MethodPost, srv.URL+"/api/orders", body, nil); code != http.StatusConflict {
		t.Errorf("second order status = %d, want 409", code)
	}
}

func TestHealthAndCORS(t *testing.T) {
	srv := newTestServer(t, config.OrderingConfig{})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing CORS header")
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}
