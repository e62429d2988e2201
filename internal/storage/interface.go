package storage

import (
	"context"
	"errors"
	"time"

	"github.com/Noxaewr/good-night-app/internal"
)

// Sentinel errors shared by all backends. Services translate these into the
// API-level error taxonomy.
var (
	ErrNotFound        = errors.New("storage: not found")
	ErrDuplicateFollow = errors.New("storage: follow relationship already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *internal.User) error
	GetUser(ctx context.Context, id string) (*internal.User, error)
	ListUsers(ctx context.Context) ([]internal.User, error)
}

// FollowRepository maintains the directed follow graph. CreateFollow must
// enforce uniqueness of the (follower_id, followed_user_id) pair itself and
// return ErrDuplicateFollow on a second insert; callers may pre-check but the
// store is the source of truth under concurrency.
type FollowRepository interface {
	CreateFollow(ctx context.Context, edge *internal.FollowEdge) error
	// DeleteFollow removes the edge for the exact ordered pair and returns it,
	// or ErrNotFound if no such edge exists.
	DeleteFollow(ctx context.Context, followerID, followedUserID string) (*internal.FollowEdge, error)
	GetFollow(ctx context.Context, followerID, followedUserID string) (*internal.FollowEdge, error)
	// ListFollowing and ListFollowers return users ordered by when the edge was
	// created, oldest first, so pagination is stable.
	ListFollowing(ctx context.Context, userID string) ([]internal.User, error)
	ListFollowers(ctx context.Context, userID string) ([]internal.User, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
}

type SleepRecordRepository interface {
	SaveSleepRecord(ctx context.Context, record *internal.SleepRecord) error
	// ListSleepRecords returns a user's records ordered by created_at descending.
	ListSleepRecords(ctx context.Context, userID string) ([]internal.SleepRecord, error)
	// ListSleepRecordsInWindow returns records owned by any of userIDs whose
	// bedtime falls in [from, to], ordered by duration_minutes descending with
	// created_at then id as tie-breaks.
	ListSleepRecordsInWindow(ctx context.Context, userIDs []string, from, to time.Time) ([]internal.SleepRecord, error)
}
