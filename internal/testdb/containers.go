// Package testdb starts throwaway redis and postgres containers for backend
// tests.
package testdb

import (
	"context"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RequireDocker skips the test when docker is unavailable or -short is set.
func RequireDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("Docker not available, skipping container test")
	}
}

// start launches req and registers termination with t.Cleanup. It returns the
// host and mapped port.
func start(t *testing.T, req testcontainers.ContainerRequest, port string) (string, string) {
	t.Helper()
	RequireDocker(t)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, port)
	require.NoError(t, err)
	return host, mapped.Port()
}

// StartRedis returns the address of a fresh redis server.
func StartRedis(t *testing.T) string {
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}, "6379")
	return fmt.Sprintf("%s:%s", host, port)
}

// StartPostgres returns a DSN for a fresh postgres database.
func StartPostgres(t *testing.T) string {
	host, port := start(t, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	}, "5432")
	return fmt.Sprintf("host=%s port=%s user=test password=test dbname=test sslmode=disable", host, port)
}
