package mcourse

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/authmw"
	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/errs"
	"multi-git-dashboard/internal/log"
)

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// respondError writes the status matching err. Unexpected failures are
// logged and answered with fallback so internals never reach the client.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, errs.ErrMissingAuthorization), errs.IsBadRequest(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Logger.Error(fallback,
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("requestID", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		log.Logger.Debug("failed to bind input", zap.String("route", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return false
	}
	return true
}

func requireAccount(c *gin.Context, fallback string) (string, bool) {
	id, ok := authmw.AccountID(c)
	if !ok {
		respondError(c, errs.ErrMissingAuthorization, fallback)
	}
	return id, ok
}

func (h *Handler) createCourse(c *gin.Context) {
	accountID, ok := requireAccount(c, "Failed to create course")
	if !ok {
		return
	}
	var req CourseRequest
	if !bindJSON(c, &req) {
		return
	}

	id, err := h.svc.CreateCourse(c.Request.Context(), req, accountID)
	if err != nil {
		respondError(c, err, "Failed to create course")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Course created successfully", "_id": id})
}

func (h *Handler) getCourses(c *gin.Context) {
	accountID, ok := requireAccount(c, "Failed to fetch courses")
	if !ok {
		return
	}
	courses, err := h.svc.GetCoursesForUser(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err, "Failed to fetch courses")
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *Handler) getCourse(c *gin.Context) {
	accountID, ok := requireAccount(c, "Failed to fetch course")
	if !ok {
		return
	}
	course, err := h.svc.GetCourseByID(c.Request.Context(), c.Param("id"), accountID)
	if err != nil {
		respondError(c, err, "Failed to fetch course")
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *Handler) updateCourse(c *gin.Context) {
	var req CourseUpdate
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.UpdateCourseByID(c.Request.Context(), c.Param("id"), req); err != nil {
		respondError(c, err, "Failed to update course")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course updated successfully"})
}

func (h *Handler) deleteCourse(c *gin.Context) {
	if err := h.svc.DeleteCourseByID(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete course")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}

func (h *Handler) getCourseCode(c *gin.Context) {
	code, err := h.svc.GetCourseCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch course code")
		return
	}
	c.JSON(http.StatusOK, code)
}

type rosterAdder func(ctx context.Context, courseID string, records []PersonRecord) (*RosterReport, error)

func (h *Handler) addPeople(add rosterAdder, success, fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RosterRequest
		if !bindJSON(c, &req) {
			return
		}
		report, err := add(c.Request.Context(), c.Param("id"), req.Items)
		if err != nil {
			respondError(c, err, fallback)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": success, "added": report.Added, "skipped": report.Skipped})
	}
}

type rosterRemover func(ctx context.Context, courseID, userID string) error

func (h *Handler) removePerson(remove rosterRemover, success, fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := remove(c.Request.Context(), c.Param("id"), c.Param("userId")); err != nil {
			respondError(c, err, fallback)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": success})
	}
}

func (h *Handler) getPeople(c *gin.Context) {
	people, err := h.svc.SearchPeople(c.Request.Context(), c.Param("id"), c.Query("q"))
	if err != nil {
		respondError(c, err, "Failed to get people")
		return
	}
	c.JSON(http.StatusOK, people)
}

func (h *Handler) getTeachingTeam(c *gin.Context) {
	team, err := h.svc.GetTeachingTeam(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get Teaching Team")
		return
	}
	c.JSON(http.StatusOK, team)
}

func (h *Handler) getTeamSets(c *gin.Context) {
	sets, err := h.svc.GetTeamSets(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch team sets")
		return
	}
	c.JSON(http.StatusOK, sets)
}

func (h *Handler) getTeamSetNames(c *gin.Context) {
	names, err := h.svc.GetTeamSetNames(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch team set names")
		return
	}
	c.JSON(http.StatusOK, names)
}

func (h *Handler) createTeamSet(c *gin.Context) {
	var req TeamSetRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.svc.CreateTeamSet(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err, "Failed to create team set")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Team set created successfully", "_id": id})
}

type teamPlacer func(ctx context.Context, courseID string, records []TeamPlacement) error

func (h *Handler) placeInTeams(place teamPlacer, success, fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TeamPlacementRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := place(c.Request.Context(), c.Param("id"), req.Items); err != nil {
			respondError(c, err, fallback)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": success})
	}
}

func (h *Handler) addMilestone(c *gin.Context) {
	var req MilestoneRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.AddMilestone(c.Request.Context(), c.Param("id"), req); err != nil {
		respondError(c, err, "Failed to add milestone")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Milestone added successfully"})
}

func (h *Handler) addSprint(c *gin.Context) {
	var req SprintRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.AddSprint(c.Request.Context(), c.Param("id"), req); err != nil {
		respondError(c, err, "Failed to add sprint")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Sprint added successfully"})
}

func (h *Handler) getAssessments(c *gin.Context) {
	assessments, err := h.svc.GetAssessments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch assessments")
		return
	}
	c.JSON(http.StatusOK, assessments)
}

func (h *Handler) addAssessments(c *gin.Context) {
	var req AssessmentRequest
	if !bindJSON(c, &req) {
		return
	}
	ids, err := h.svc.AddAssessments(c.Request.Context(), c.Param("id"), req.Items)
	if err != nil {
		respondError(c, err, "Failed to add assessments")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Assessments added successfully", "_ids": ids})
}

func (h *Handler) getAssessment(c *gin.Context) {
	a, err := h.svc.GetAssessmentByID(c.Request.Context(), c.Param("assessmentId"))
	if err != nil {
		respondError(c, err, "Failed to retrieve assessment")
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) uploadResults(c *gin.Context) {
	var req ResultsRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.UploadAssessmentResults(c.Request.Context(), c.Param("assessmentId"), req.Items); err != nil {
		respondError(c, err, "Failed to upload results")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Results uploaded successfully"})
}

func (h *Handler) updateResultMarker(c *gin.Context) {
	var req MarkerRequest
	if !bindJSON(c, &req) {
		return
	}
	err := h.svc.UpdateResultMarker(c.Request.Context(), c.Param("assessmentId"), c.Param("resultId"), req.MarkerID)
	if err != nil {
		respondError(c, err, "Failed to update marker")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marker updated successfully"})
}

func (h *Handler) getPendingAccounts(c *gin.Context) {
	accounts, err := h.svc.GetPendingAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch pending accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *Handler) approveAccounts(c *gin.Context) {
	var req ApproveRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.svc.ApproveAccounts(c.Request.Context(), req.IDs); err != nil {
		respondError(c, err, "Failed to approve accounts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Accounts approved successfully"})
}

func (h *Handler) getJiraBoard(c *gin.Context) {
	board, err := h.svc.GetJiraBoard(c.Request.Context(), c.Param("boardId"))
	if err != nil {
		respondError(c, err, "Failed to fetch Jira board")
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *Handler) upsertJiraBoard(c *gin.Context) {
	var board entity.JiraBoard
	if !bindJSON(c, &board) {
		return
	}
	id, err := h.svc.UpsertJiraBoard(c.Request.Context(), c.Param("teamId"), &board)
	if err != nil {
		respondError(c, err, "Failed to save Jira board")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Jira board saved successfully", "_id": id})
}
