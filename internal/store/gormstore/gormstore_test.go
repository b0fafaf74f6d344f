package gormstore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"catering-platform/internal/logger"
	"catering-platform/internal/models"
	"catering-platform/internal/store"
	"catering-platform/internal/store/storetest"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	log := logger.NewWithWriter("test", io.Discard, slog.LevelError)
	s, err := Open(DialectSQLite, filepath.Join(t.TempDir(), "catering.db"), log)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newSQLiteStore(t)
	})
}

func TestOpen_UnknownDialect(t *testing.T) {
	log := logger.NewWithWriter("test", io.Discard, slog.LevelError)
	if _, err := Open("oracle", "", log); err == nil {
		t.Fatal("expected error for unsupported dialect")
	}
}

func TestGetMenuByDate_NonUTCBounds(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()
	loc := time.FixedZone("UTC+3", 3*60*60)

	menu := &models.Menu{
		Date:      time.Date(2025, 10, 15, 1, 0, 0, 0, loc),
		ItemIDs:   []string{"a"},
		MaxOrders: 5,
	}
	if err := s.CreateMenu(ctx, menu); err != nil {
		t.Fatalf("CreateMenu: %v", err)
	}

	from, to := models.DayBounds(time.Date(2025, 10, 15, 0, 0, 0, 0, loc), loc)
	got, err := s.GetMenuByDate(ctx, from, to)
	if err != nil {
		t.Fatalf("GetMenuByDate: %v", err)
	}
	if got.ID != menu.ID || !got.Date.Equal(menu.Date) {
		t.Errorf("GetMenuByDate = %+v, want %s", got, menu.ID)
	}
}
