// Package tests holds fixtures shared by the route and repository tests. Only _test.go files
// import it, which keeps testify and testcontainers out of the binaries.
package tests

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/mines/internal"
	"github.com/lk16/mines/internal/config"
	"github.com/lk16/mines/internal/game"
	"github.com/lk16/mines/internal/minesweeper"
	"github.com/lk16/mines/internal/services"
	"github.com/lk16/mines/internal/session"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	TestToken    = "test-token"
	TestUser     = "test-user"
	TestPassword = "test-password"
	TestLayout   = "*../.../..*"

	postgresUser     = "pg-test-user"
	postgresPassword = "pg-test-password"
	postgresDB       = "pg-test-db"
)

// TestConfig returns a server config for tests. StaticDir points at the static folder in the root
// of the repository, relative to a test in internal/tests/routes/<package>.
func TestConfig() *config.ServerConfig {
	return &config.ServerConfig{
		ServerHost:        "localhost",
		ServerPort:        "3000",
		BasicAuthUsername: TestUser,
		BasicAuthPassword: TestPassword,
		Token:             TestToken,
		Prefork:           false,
		StaticDir:         "../../../../static",
		SessionStore:      config.SessionStoreMemory,
		SessionTTL:        time.Hour,
	}
}

// LayoutFactory creates every board from the same layout, rows separated by '/'.
func LayoutFactory(t *testing.T, layout string) game.BoardFactory {
	t.Helper()

	return func(_, _, mines int) *minesweeper.Board {
		board, err := minesweeper.NewBoardFromLayout(strings.Split(layout, "/"), mines, minesweeper.WithSeed(1))
		require.NoError(t, err)
		return board
	}
}

// NewApp builds the app with in-memory sessions whose boards all use TestLayout. svc may be nil.
func NewApp(t *testing.T, svc *services.Services, recorder game.Recorder) *fiber.App {
	t.Helper()

	store := session.NewMemoryStore(time.Hour)
	games := game.NewService(store, recorder, game.WithBoardFactory(LayoutFactory(t, TestLayout)))

	return internal.BuildApp(TestConfig(), svc, games)
}

// StartServices starts Postgres and Redis containers and connects to them. The test is skipped
// in short mode or when containers cannot be started.
func StartServices(t *testing.T) *services.Services {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()

	postgres := startContainer(t, testcontainers.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	})

	redis := startContainer(t, testcontainers.ContainerRequest{
		Image:        "redis:7",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	})

	postgresEndpoint, err := postgres.Endpoint(ctx, "")
	require.NoError(t, err)

	redisEndpoint, err := redis.Endpoint(ctx, "")
	require.NoError(t, err)

	cfg := TestConfig()
	cfg.PostgresURL = fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresEndpoint, postgresDB)
	cfg.RedisURL = "redis://" + redisEndpoint

	svc, err := services.InitServices(cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, svc.Shutdown())
	})

	return svc
}

func startContainer(t *testing.T, req testcontainers.ContainerRequest) testcontainers.Container {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("cannot start %s container: %v", req.Image, err)
	}

	t.Cleanup(func() {
		require.NoError(t, container.Terminate(ctx))
	})

	return container
}
