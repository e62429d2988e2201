package internal

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FollowEdge is a directed follow relationship: the follower follows the
// followed user. The ordered pair (FollowerID, FollowedUserID) is unique.
type FollowEdge struct {
	ID             string    `json:"id"`
	FollowerID     string    `json:"follower_id"`
	FollowedUserID string    `json:"followed_user_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type SleepRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Bedtime         time.Time `json:"bedtime"`
	WakeTime        time.Time `json:"wake_time"`
	DurationMinutes int       `json:"duration_minutes"` // derived from bedtime/wake_time, never client-supplied
	CreatedAt       time.Time `json:"created_at"`
}
