package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the v1 REST surface.
func NewRouter(app App) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	r.GET("/up", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.POST("/users", PostUser(app))
		v1.GET("/users", GetUsers(app))
		v1.GET("/users/:id", GetUserByID(app))

		v1.POST("/users/:id/follow", PostFollow(app))
		v1.DELETE("/users/:id/unfollow", DeleteUnfollow(app))
		v1.GET("/users/:id/following", GetFollowing(app))
		v1.GET("/users/:id/followers", GetFollowers(app))

		v1.POST("/users/:id/sleep_records", PostSleepRecord(app))
		v1.GET("/users/:id/sleep_records", GetSleepRecords(app))
		v1.GET("/users/:id/following_sleep_records", GetFollowingSleepRecords(app))
	}

	return r
}
