package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/service"
	"github.com/Noxaewr/good-night-app/internal/storage"
)

// Wednesday, 2024-03-20 noon UTC. The previous calendar week runs
// Monday 2024-03-11 00:00:00 through Sunday 2024-03-17 23:59:59.999999999.
var testNow = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestRepos(t *testing.T) *storage.Repositories {
	t.Helper()
	dir := t.TempDir()
	logger := internal.NewZapLogger(zap.NewNop().Sugar())
	repos, err := storage.NewFileRepositories(
		filepath.Join(dir, "users.json"),
		filepath.Join(dir, "follows.json"),
		filepath.Join(dir, "sleep_records.json"),
		logger,
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Closer.Close() })
	return repos
}

func createTestUser(t *testing.T, repos *storage.Repositories, name string) *internal.User {
	t.Helper()
	user, err := service.CreateUser(context.Background(), repos.Users, &service.CreateUserRequest{Name: name}, testNow)
	require.NoError(t, err)
	return user
}
