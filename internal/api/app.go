package api

import (
	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/storage"
)

type App interface {
	Logger() internal.Logger
	Clock() internal.Clock
	UserRepo() storage.UserRepository
	FollowRepo() storage.FollowRepository
	SleepRepo() storage.SleepRecordRepository
}
