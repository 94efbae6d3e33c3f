package migrator

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"
)

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"postgres scheme",
			"postgres://user:pw@localhost:5432/db?sslmode=disable",
			"pgx5://user:pw@localhost:5432/db?sslmode=disable",
		},
		{
			"postgresql scheme",
			"postgresql://localhost/db",
			"pgx5://localhost/db",
		},
		{
			"already pgx5",
			"pgx5://localhost/db",
			"pgx5://localhost/db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := migrateURL(tt.in); got != tt.want {
				t.Errorf("migrateURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewWithFS_NilFS(t *testing.T) {
	if _, err := NewWithFS(nil); err == nil {
		t.Error("expected error for nil filesystem")
	}
}

func TestUp_EmptyURL(t *testing.T) {
	m, err := NewWithFS(fstest.MapFS{})
	if err != nil {
		t.Fatalf("NewWithFS() error = %v", err)
	}
	if err := m.Up(context.Background(), ""); err == nil {
		t.Error("expected error for empty database URL")
	}
}

// A postgres:// DSN must get past migrate's driver registry (the pgx/v5
// driver only registers the pgx5 scheme). The unreachable port makes the
// attempt fail at dial time, which proves driver resolution succeeded.
func TestUp_AcceptsPostgresScheme(t *testing.T) {
	fsys := fstest.MapFS{
		"000001_init.up.sql":   {Data: []byte("SELECT 1;")},
		"000001_init.down.sql": {Data: []byte("SELECT 1;")},
	}
	m, err := NewWithFS(fsys)
	if err != nil {
		t.Fatalf("NewWithFS() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = m.Up(ctx, "postgres://127.0.0.1:1/nowhere?sslmode=disable")
	if err == nil {
		t.Fatal("expected a connection error against an unreachable host")
	}
	if strings.Contains(err.Error(), "unknown driver") {
		t.Errorf("driver resolution failed for postgres scheme: %v", err)
	}
}
