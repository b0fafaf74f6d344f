package menu

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	svc, _, _ := newTestService(opts)
	mux := http.NewServeMux()
	NewHandler(svc, svc.logger).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandler_CreateAndLookupByDate(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Post(srv.URL+"/api/menus", "application/json",
		strings.NewReader(`{"date":"2025-10-15","itemIds":["salmon"],"maxOrders":10}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created struct {
		ID        string   `json:"id"`
		ItemIDs   []string `json:"itemIds"`
		MaxOrders int      `json:"maxOrders"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	resp, err = http.Get(srv.URL + "/api/menus/by-date/2025-10-15")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	var got struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&got)
	if resp.StatusCode != http.StatusOK || got.ID != created.ID {
		t.Errorf("by-date = %d %s, want 200 %s", resp.StatusCode, got.ID, created.ID)
	}

	resp, err = http.Get(srv.URL + "/api/menus/availability/" + created.ID)
	if err != nil {
		t.Fatalf("GET availability: %v", err)
	}
	defer resp.Body.Close()
	var availability struct {
		Remaining int `json:"remaining"`
	}
	json.NewDecoder(resp.Body).Decode(&availability)
	if resp.StatusCode != http.StatusOK || availability.Remaining != 10 {
		t.Errorf("availability = %d %+v", resp.StatusCode, availability)
	}
}

func TestHandler_Errors(t *testing.T) {
	srv := newTestServer(t, Options{UniquePerDate: true})

	post := func(body string) int {
		resp, err := http.Post(srv.URL+"/api/menus", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	get := func(path string) int {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	tests := []struct {
		name string
		got  func() int
		want int
	}{
		{"empty item ids", func() int { return post(`{"date":"2025-10-15","itemIds":[]}`) }, http.StatusBadRequest},
		{"zero capacity", func() int { return post(`{"date":"2025-10-15","itemIds":["a"],"maxOrders":0}`) }, http.StatusBadRequest},
		{"first publication", func() int { return post(`{"date":"2025-10-15","itemIds":["a"]}`) }, http.StatusCreated},
		{"duplicate date", func() int { return post(`{"date":"2025-10-15","itemIds":["b"]}`) }, http.StatusConflict},
		{"no menu on date", func() int { return get("/api/menus/by-date/2025-10-16") }, http.StatusNotFound},
		{"bad date", func() int { return get("/api/menus/by-date/someday") }, http.StatusBadRequest},
		{"unknown menu", func() int { return get("/api/menus/missing") }, http.StatusNotFound},
		{"bad month", func() int { return get("/api/menus/calendar/2025-13") }, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got(); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandler_DeleteMenu(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Post(srv.URL+"/api/menus", "application/json",
		strings.NewReader(`{"date":"2025-10-15","itemIds":["a"]}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	var created struct {
		ID string `json:"id"`
	}
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()

	for _, want := range []int{http.StatusNoContent, http.StatusNotFound} {
		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/menus/"+created.ID, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("DELETE: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("DELETE status = %d, want %d", resp.StatusCode, want)
		}
	}
}
