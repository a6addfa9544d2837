//go:build database

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestPkgpulseWithMySQL tests the pkgpulse CLI with a MySQL backend.
func TestPkgpulseWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306:3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "pkgpulse",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(30 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/pkgpulse?parseTime=true", host, port.Port())

	// Set environment variables
	_ = os.Setenv("PKGPULSE_STORE_BACKEND", "mysql")
	_ = os.Setenv("PKGPULSE_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("PKGPULSE_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("PKGPULSE_STORE_DB_CONNECT") }()

	// Run pkgpulse store migrate
	err = runPkgpulseCommand(t, "store", "migrate")
	require.NoError(t, err)

	// Run pkgpulse store status
	err = runPkgpulseCommand(t, "store", "status")
	require.NoError(t, err)

	// Run pkgpulse store clear
	err = runPkgpulseCommand(t, "store", "clear")
	require.NoError(t, err)
}

// TestPkgpulseWithPostgres tests the pkgpulse CLI with a PostgreSQL backend.
func TestPkgpulseWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	pgC, err := tcpostgres.Run(ctx, "postgres:18-alpine",
		tcpostgres.WithDatabase("pkgpulse"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("secret123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	connStr, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Set environment variables
	_ = os.Setenv("PKGPULSE_STORE_BACKEND", "postgresql")
	_ = os.Setenv("PKGPULSE_STORE_DB_CONNECT", connStr)
	defer func() { _ = os.Unsetenv("PKGPULSE_STORE_BACKEND") }()
	defer func() { _ = os.Unsetenv("PKGPULSE_STORE_DB_CONNECT") }()

	// Run pkgpulse store migrate
	err = runPkgpulseCommand(t, "store", "migrate")
	require.NoError(t, err)

	// Run pkgpulse store status
	err = runPkgpulseCommand(t, "store", "status")
	require.NoError(t, err)

	// Run pkgpulse store clear
	err = runPkgpulseCommand(t, "store", "clear")
	require.NoError(t, err)
}
