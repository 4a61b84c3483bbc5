package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flexkonto/flexkonto/internal/config"
	"github.com/flexkonto/flexkonto/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	dbName     = "flexkonto"
	dbUser     = "test_flexkonto"
	dbPassword = "test_flexkonto"
	dbSchema   = "flexkonto"
)

func preparePostgresContainer(ctx context.Context) (container *postgres.PostgresContainer, err error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}

	// the docker provider panics instead of failing when no daemon is reachable
	defer func() {
		if r := recover(); r != nil {
			container, err = nil, fmt.Errorf("container runtime unavailable: %v", r)
		}
	}()

	return postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
}

// TestWithDB starts Postgres in a container and applies all migrations. The
// returned cleanup closes the pool and terminates the container. An error
// means no container runtime is available and database tests should skip.
func TestWithDB() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		return nil, func() {}, err
	}
	terminate := func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			log.Errorf("failed to terminate postgres container: %v", err)
		}
	}

	host, err := container.Host(ctx)
	if err != nil {
		terminate()
		return nil, func() {}, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		terminate()
		return nil, func() {}, err
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   dbUser,
		Pass:   dbPassword,
		Name:   dbName,
		Schema: dbSchema,
	}

	if err := database.Migrate(cfg); err != nil {
		terminate()
		return nil, func() {}, fmt.Errorf("failed to apply migrations: %w", err)
	}

	pool, err := database.Open(ctx, cfg)
	if err != nil {
		terminate()
		return nil, func() {}, err
	}

	return pool, func() {
		pool.Close()
		terminate()
	}, nil
}

// CreateUser inserts a bare user row so tables referencing users can be filled.
func CreateUser(ctx context.Context, pool *pgxpool.Pool, username string) (int, error) {
	var id int
	err := pool.QueryRow(ctx,
		`INSERT INTO users (uid, username, display_name) VALUES ($1, $1, $1) RETURNING id`,
		username,
	).Scan(&id)
	return id, err
}

// Truncate empties the given tables between tests.
func Truncate(ctx context.Context, pool *pgxpool.Pool, tables ...string) error {
	for _, table := range tables {
		if _, err := pool.Exec(ctx, "TRUNCATE TABLE "+table+" RESTART IDENTITY CASCADE"); err != nil {
			return err
		}
	}
	return nil
}

// findProjectRoot walks up to the directory holding go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
