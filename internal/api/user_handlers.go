package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/pagination"
	"github.com/Noxaewr/good-night-app/internal/service"
)

type userView struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	FollowingCount *int      `json:"following_count,omitempty"`
	FollowersCount *int      `json:"followers_count,omitempty"`
}

func newUserView(u internal.User) userView {
	return userView{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}

func (app *handlerApp) userViewWithCounts(c *gin.Context, u internal.User) (userView, error) {
	view := newUserView(u)
	following, err := app.FollowRepo().CountFollowing(c.Request.Context(), u.ID)
	if err != nil {
		return view, err
	}
	followers, err := app.FollowRepo().CountFollowers(c.Request.Context(), u.ID)
	if err != nil {
		return view, err
	}
	view.FollowingCount = &following
	view.FollowersCount = &followers
	return view, nil
}

// handlerApp lets view helpers hang off the injected App.
type handlerApp struct{ App }

func PostUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBadRequest(c, app.Logger(), err, "Invalid JSON")
			return
		}

		user, err := service.CreateUser(c.Request.Context(), app.UserRepo(), &req, app.Clock()())
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusCreated, newUserView(*user), nil)
	}
}

func GetUsers(app App) gin.HandlerFunc {
	ha := &handlerApp{app}
	return func(c *gin.Context) {
		users, err := app.UserRepo().ListUsers(c.Request.Context())
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}

		params := pagination.ParseParams(c.Query("page"), c.Query("per_page"))
		page, meta := pagination.Paginate(users, params)

		views := make([]userView, 0, len(page))
		for _, u := range page {
			view, err := ha.userViewWithCounts(c, u)
			if err != nil {
				HandleError(c, app.Logger(), err)
				return
			}
			views = append(views, view)
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, views, map[string]any{"pagination": meta})
	}
}

func GetUserByID(app App) gin.HandlerFunc {
	ha := &handlerApp{app}
	return func(c *gin.Context) {
		user := resolveUser(c, app, "id")
		if user == nil {
			return
		}
		view, err := ha.userViewWithCounts(c, *user)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, view, nil)
	}
}
