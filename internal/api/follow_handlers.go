package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/pagination"
	"github.com/Noxaewr/good-night-app/internal/service"
	"github.com/Noxaewr/good-night-app/internal/storage"
)

type followTargetRequest struct {
	TargetUserID string `json:"target_user_id"`
}

// resolveFollowPair loads the path user and the body's target user; both must
// exist. Writes the error response itself when either is missing.
func resolveFollowPair(c *gin.Context, app App) (*internal.User, *internal.User) {
	user := resolveUser(c, app, "id")
	if user == nil {
		return nil, nil
	}
	var req followTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleBadRequest(c, app.Logger(), err, "Invalid JSON")
		return nil, nil
	}
	target, err := service.GetUser(c.Request.Context(), app.UserRepo(), req.TargetUserID)
	if err != nil {
		HandleError(c, app.Logger(), err)
		return nil, nil
	}
	return user, target
}

func PostFollow(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, target := resolveFollowPair(c, app)
		if user == nil || target == nil {
			return
		}

		summary, err := service.Follow(c.Request.Context(), app.FollowRepo(), user, target, app.Clock()())
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusCreated, summary, nil)
	}
}

func DeleteUnfollow(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, target := resolveFollowPair(c, app)
		if user == nil || target == nil {
			return
		}

		summary, err := service.Unfollow(c.Request.Context(), app.FollowRepo(), user, target)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, summary, nil)
	}
}

func listRelatedUsers(app App, list func(c *gin.Context, userID string) ([]internal.User, error),
	count func(c *gin.Context, repo storage.FollowRepository, userID string) (int, error), countKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c, app, "id")
		if user == nil {
			return
		}

		users, err := list(c, user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}

		params := pagination.ParseParams(c.Query("page"), c.Query("per_page"))
		page, pageMeta := pagination.Paginate(users, params)

		views := make([]userView, 0, len(page))
		for _, u := range page {
			views = append(views, newUserView(u))
		}

		total, err := count(c, app.FollowRepo(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		meta := map[string]any{
			"user_id":    user.ID,
			"user_name":  user.Name,
			countKey:     total,
			"pagination": pageMeta,
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, views, meta)
	}
}

func GetFollowing(app App) gin.HandlerFunc {
	return listRelatedUsers(app,
		func(c *gin.Context, userID string) ([]internal.User, error) {
			return app.FollowRepo().ListFollowing(c.Request.Context(), userID)
		},
		func(c *gin.Context, repo storage.FollowRepository, userID string) (int, error) {
			return repo.CountFollowing(c.Request.Context(), userID)
		},
		"following_count")
}

func GetFollowers(app App) gin.HandlerFunc {
	return listRelatedUsers(app,
		func(c *gin.Context, userID string) ([]internal.User, error) {
			return app.FollowRepo().ListFollowers(c.Request.Context(), userID)
		},
		func(c *gin.Context, repo storage.FollowRepository, userID string) (int, error) {
			return repo.CountFollowers(c.Request.Context(), userID)
		},
		"followers_count")
}
