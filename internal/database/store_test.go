package database

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"catering-platform/internal/logger"
	"catering-platform/internal/store"
	"catering-platform/internal/store/storetest"
)

// Integration tests against PostgreSQL. Skip unless CATERING_TEST_DATABASE_URL is set.
func TestStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	url := os.Getenv("CATERING_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("skipping postgres integration test: CATERING_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	log := logger.NewWithWriter("test", io.Discard, slog.LevelError)

	storetest.Run(t, func(t *testing.T) store.Store {
		db, err := New(ctx, url, log)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		t.Cleanup(func() { db.Close() })

		if err := db.RunMigrations(ctx); err != nil {
			t.Fatalf("migrations: %v", err)
		}
		if err := db.Exec(ctx, "TRUNCATE order_status_log, orders, menus, menu_items"); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		return db
	})
}

func TestGetMigrationFiles(t *testing.T) {
	files, err := getMigrationFiles()
	if err != nil {
		t.Fatalf("getMigrationFiles: %v", err)
	}
	if len(files) < 2 {
		t.Fatalf("expected embedded migrations, got %v", files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Errorf("migrations not sorted: %v", files)
		}
	}
}
