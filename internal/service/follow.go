package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/storage"
)

type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FollowSummary struct {
	Message        string    `json:"message"`
	Follower       UserRef   `json:"follower"`
	FollowedUser   UserRef   `json:"followed_user"`
	FollowingCount int       `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
}

type UnfollowSummary struct {
	Message        string  `json:"message"`
	Follower       UserRef `json:"follower"`
	UnfollowedUser UserRef `json:"unfollowed_user"`
	FollowingCount int     `json:"following_count"`
}

// Follow creates a directed edge from follower to target. The existence
// pre-check is an optimization only: the repository's uniqueness guarantee
// decides concurrent duplicates.
func Follow(ctx context.Context, followRepo storage.FollowRepository, follower, target *internal.User, now time.Time) (*FollowSummary, error) {
	if follower.ID == target.ID {
		return nil, internal.NewUnprocessable(internal.CodeSelfFollow, "You cannot follow yourself")
	}

	if _, err := followRepo.GetFollow(ctx, follower.ID, target.ID); err == nil {
		return nil, internal.NewUnprocessable(internal.CodeDuplicateFollow, "Already following this user")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	edge := &internal.FollowEdge{
		ID:             uuid.NewString(),
		FollowerID:     follower.ID,
		FollowedUserID: target.ID,
		CreatedAt:      now,
	}
	if err := followRepo.CreateFollow(ctx, edge); err != nil {
		if errors.Is(err, storage.ErrDuplicateFollow) {
			// Lost the race against a concurrent follow for the same pair
			return nil, internal.NewUnprocessable(internal.CodeDuplicateFollow, "Already following this user")
		}
		return nil, err
	}

	count, err := followRepo.CountFollowing(ctx, follower.ID)
	if err != nil {
		return nil, err
	}
	return &FollowSummary{
		Message:        fmt.Sprintf("Successfully followed %s", target.Name),
		Follower:       UserRef{ID: follower.ID, Name: follower.Name},
		FollowedUser:   UserRef{ID: target.ID, Name: target.Name},
		FollowingCount: count,
		CreatedAt:      edge.CreatedAt,
	}, nil
}

// Unfollow removes the edge for the exact ordered pair. Unfollowing someone
// never followed is rejected, not treated as a no-op.
func Unfollow(ctx context.Context, followRepo storage.FollowRepository, follower, target *internal.User) (*UnfollowSummary, error) {
	if _, err := followRepo.DeleteFollow(ctx, follower.ID, target.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, internal.NewUnprocessable(internal.CodeNotFollowing, "You are not following this user")
		}
		return nil, err
	}

	count, err := followRepo.CountFollowing(ctx, follower.ID)
	if err != nil {
		return nil, err
	}
	return &UnfollowSummary{
		Message:        fmt.Sprintf("Successfully unfollowed %s", target.Name),
		Follower:       UserRef{ID: follower.ID, Name: follower.Name},
		UnfollowedUser: UserRef{ID: target.ID, Name: target.Name},
		FollowingCount: count,
	}, nil
}
