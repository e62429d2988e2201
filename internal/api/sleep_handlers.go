package api

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Noxaewr/good-night-app/internal"
	"github.com/Noxaewr/good-night-app/internal/pagination"
	"github.com/Noxaewr/good-night-app/internal/service"
)

type sleepRecordView struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	UserName        string    `json:"user_name"`
	Bedtime         time.Time `json:"bedtime"`
	WakeTime        time.Time `json:"wake_time"`
	DurationMinutes int       `json:"duration_minutes"`
	DurationHours   float64   `json:"duration_hours"`
	CreatedAt       time.Time `json:"created_at"`
}

func newSleepRecordView(r internal.SleepRecord, userName string) sleepRecordView {
	return sleepRecordView{
		ID:              r.ID,
		UserID:          r.UserID,
		UserName:        userName,
		Bedtime:         r.Bedtime,
		WakeTime:        r.WakeTime,
		DurationMinutes: r.DurationMinutes,
		DurationHours:   math.Round(float64(r.DurationMinutes)/60*100) / 100,
		CreatedAt:       r.CreatedAt,
	}
}

func PostSleepRecord(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c, app, "id")
		if user == nil {
			return
		}

		var req service.SleepRecordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleBadRequest(c, app.Logger(), err, "Invalid JSON")
			return
		}

		record, err := service.CreateSleepRecord(c.Request.Context(), app.SleepRepo(), user, &req, app.Clock()())
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}
		HandleSuccess(c, app.Logger(), http.StatusCreated, newSleepRecordView(*record, user.Name), nil)
	}
}

func GetSleepRecords(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c, app, "id")
		if user == nil {
			return
		}

		records, err := app.SleepRepo().ListSleepRecords(c.Request.Context(), user.ID)
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}

		params := pagination.ParseParams(c.Query("page"), c.Query("per_page"))
		page, pageMeta := pagination.Paginate(records, params)

		views := make([]sleepRecordView, 0, len(page))
		for _, r := range page {
			views = append(views, newSleepRecordView(r, user.Name))
		}
		meta := map[string]any{
			"user_id":    user.ID,
			"user_name":  user.Name,
			"pagination": pageMeta,
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, views, meta)
	}
}

// GetFollowingSleepRecords serves the previous-week aggregate across all
// followed users, ordered by duration.
func GetFollowingSleepRecords(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := resolveUser(c, app, "id")
		if user == nil {
			return
		}

		records, following, err := service.AggregateFollowedPreviousWeek(
			c.Request.Context(), app.FollowRepo(), app.SleepRepo(), user, app.Clock()())
		if err != nil {
			HandleError(c, app.Logger(), err)
			return
		}

		names := make(map[string]string, len(following))
		for _, u := range following {
			names[u.ID] = u.Name
		}

		params := pagination.ParseParams(c.Query("page"), c.Query("per_page"))
		page, pageMeta := pagination.Paginate(records, params)

		views := make([]sleepRecordView, 0, len(page))
		for _, r := range page {
			views = append(views, newSleepRecordView(r, names[r.UserID]))
		}
		meta := map[string]any{
			"user_id":         user.ID,
			"user_name":       user.Name,
			"following_count": len(following),
			"pagination":      pageMeta,
		}
		HandleSuccess(c, app.Logger(), http.StatusOK, views, meta)
	}
}
