package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/api"
	"github.com/Noxaewr/good-night-app/internal/config"
	"github.com/Noxaewr/good-night-app/internal/storage"
)

type app struct {
	logger internal.Logger
	clock  internal.Clock
	repos  *storage.Repositories
}

func (a *app) Logger() internal.Logger                  { return a.logger }
func (a *app) Clock() internal.Clock                    { return a.clock }
func (a *app) UserRepo() storage.UserRepository         { return a.repos.Users }
func (a *app) FollowRepo() storage.FollowRepository     { return a.repos.Follows }
func (a *app) SleepRepo() storage.SleepRecordRepository { return a.repos.SleepRecords }

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var repos *storage.Repositories
	switch cfg.DBType {
	case "postgres":
		repos, err = storage.NewPostgresRepositories(cfg.DBDSN, logger)
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.FileSleep), 0o755); err != nil {
			logger.Fatalf("failed to create data dir: %v", err)
		}
		repos, err = storage.NewFileRepositories(cfg.FileUsers, cfg.FileFollows, cfg.FileSleep, logger)
	}
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}
	defer func() {
		if err := repos.Closer.Close(); err != nil {
			logger.Errorf("failed to close storage: %v", err)
		}
	}()

	a := &app{logger: logger, clock: internal.RealClock(), repos: repos}
	r := api.NewRouter(a)

	logger.Infof("listening on %s (storage=%s)", cfg.ListenAddr, cfg.DBType)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
