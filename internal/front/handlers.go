package front

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/log"
)

// respondError passes 4xx answers of the course API through and reports
// anything else as a bad gateway.
func respondError(c *gin.Context, err error) {
	status, msg := http.StatusBadGateway, "course service unavailable"
	var se *StatusError
	if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
		status, msg = se.Code, http.StatusText(se.Code)
	}
	log.Logger.Warn("downstream request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))

	if c.Query("format") == "json" {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.HTML(status, "error.html", gin.H{"error": msg})
}

func handleCourse(c *gin.Context) {
	course, err := downstream.Course(c.Request.Context(), c.GetHeader("Authorization"), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondInFormat(c, buildCoursePage(course, c.Query("tab"), time.Now()), "course.html")
}

func handleTeamPM(c *gin.Context) {
	ctx := c.Request.Context()
	authz := c.GetHeader("Authorization")

	course, err := downstream.Course(ctx, authz, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	team, teamSet, ok := findTeam(course, c.Param("teamId"))
	if !ok {
		respondError(c, &StatusError{Method: http.MethodGet, URL: c.Request.URL.Path, Code: http.StatusNotFound})
		return
	}

	var board *entity.JiraBoard
	if team.Board != "" {
		board, err = downstream.JiraBoard(ctx, authz, team.Board)
		if err != nil {
			respondError(c, err)
			return
		}
	}

	respondInFormat(c, buildTeamPM(course, team, teamSet, board, config.HoursPerStoryPoint), "team_pm.html")
}
