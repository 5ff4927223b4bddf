package testing

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartArchivePG runs a disposable postgres with the archive schema
// applied and returns its connection string. Every db/migrations
// *.up.sql file is concatenated into a single init script, so the
// container comes up with the same tables a migrated deployment has.
// The container is terminated when the test finishes.
func StartArchivePG(ctx context.Context, tb testing.TB) string {
	tb.Helper()

	initScript, err := buildInitScript()
	if err != nil {
		tb.Fatalf("failed to assemble migration init script: %v", err)
	}

	ctr, err := postgres.Run(ctx,
		"postgres:17.5",
		postgres.WithDatabase("ioh_test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(initScript),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		tb.Fatalf("failed to start postgres container: %v", err)
	}

	tb.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			tb.Logf("failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tb.Fatalf("failed to get postgres connection string: %v", err)
	}

	return connStr
}

// buildInitScript concatenates the up migrations, in order, into a temp
// file the container can run at startup.
func buildInitScript() (string, error) {
	_, b, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(b), "../..", "db", "migrations")

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	var script strings.Builder
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return "", err
		}
		script.Write(content)
		script.WriteString(";\n")
	}

	tmp, err := os.CreateTemp("", "migrations-*.sql")
	if err != nil {
		return "", err
	}
	if _, err := tmp.WriteString(script.String()); err != nil {
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	return tmp.Name(), nil
}
