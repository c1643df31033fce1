package mcourse

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/store"
)

type CourseRequest struct {
	Name           string            `json:"name" binding:"required,notblank"`
	Code           string            `json:"code" binding:"required,notblank"`
	Semester       string            `json:"semester" binding:"required,notblank"`
	CourseType     entity.CourseType `json:"courseType" binding:"omitempty,oneof=Normal GitHubOrg"`
	GitHubOrgName  string            `json:"gitHubOrgName"`
	RepoNameFilter string            `json:"repoNameFilter"`
}

type CourseUpdate struct {
	Name           *string            `json:"name" binding:"omitempty,notblank"`
	Code           *string            `json:"code" binding:"omitempty,notblank"`
	Semester       *string            `json:"semester" binding:"omitempty,notblank"`
	CourseType     *entity.CourseType `json:"courseType" binding:"omitempty,oneof=Normal GitHubOrg"`
	GitHubOrgName  *string            `json:"gitHubOrgName"`
	RepoNameFilter *string            `json:"repoNameFilter"`
}

func (u CourseUpdate) patch() store.CoursePatch {
	return store.CoursePatch(u)
}

// PersonRecord is one row of a roster import.
type PersonRecord struct {
	Identifier string `json:"identifier"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	GitHandle  string `json:"gitHandle"`
}

type RosterRequest struct {
	Items []PersonRecord `json:"items" binding:"required"`
}

// RosterReport lists the identifiers a roster import added and the ones it
// left alone because they conflict with an existing user. Records without an
// identifier are skipped as "row N", counting from one.
type RosterReport struct {
	Added   []string `json:"added"`
	Skipped []string `json:"skipped"`
}

type TeamSetRequest struct {
	Name string `json:"name" binding:"required,notblank"`
}

// TeamPlacement puts the user with Identifier into team TeamNumber of the
// team-set named TeamSet.
type TeamPlacement struct {
	Identifier string `json:"identifier" binding:"required"`
	TeamSet    string `json:"teamSet" binding:"required"`
	TeamNumber int    `json:"teamNumber" binding:"required,min=1"`
}

type TeamPlacementRequest struct {
	Items []TeamPlacement `json:"items" binding:"required,dive"`
}

type MilestoneRequest struct {
	Number      int       `json:"number"`
	Dateline    time.Time `json:"dateline" binding:"required"`
	Description string    `json:"description"`
}

type SprintRequest struct {
	Number      int       `json:"number"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	Description string    `json:"description"`
}

type AssessmentRecord struct {
	AssessmentType string `json:"assessmentType" binding:"required,notblank"`
	MarkType       string `json:"markType" binding:"required,notblank"`
	Frequency      string `json:"frequency"`
	Granularity    string `json:"granularity" binding:"required,oneof=team individual"`
	TeamSetName    string `json:"teamSetName" binding:"required,notblank"`
	FormLink       string `json:"formLink"`
}

type AssessmentRequest struct {
	Items []AssessmentRecord `json:"items" binding:"required,dive"`
}

type ResultItem struct {
	StudentID string  `json:"studentId" binding:"required"`
	Mark      float64 `json:"mark"`
}

type ResultsRequest struct {
	Items []ResultItem `json:"items" binding:"required,dive"`
}

type MarkerRequest struct {
	MarkerID string `json:"markerId" binding:"required"`
}

type ApproveRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// People is a course roster expanded to user documents.
type People struct {
	Faculty  []entity.User `json:"faculty"`
	TAs      []entity.User `json:"TAs"`
	Students []entity.User `json:"students"`
}

type TeamView struct {
	ID       primitive.ObjectID  `json:"_id"`
	Number   int                 `json:"number"`
	TeamSet  primitive.ObjectID  `json:"teamSet"`
	Members  []entity.User       `json:"members"`
	TA       *entity.User        `json:"TA"`
	TeamData *entity.TeamData    `json:"teamData"`
	Board    *primitive.ObjectID `json:"board,omitempty"`
}

type TeamSetView struct {
	ID     primitive.ObjectID `json:"_id"`
	Name   string             `json:"name"`
	Course primitive.ObjectID `json:"course"`
	Teams  []TeamView         `json:"teams"`
}

type ResultView struct {
	ID     primitive.ObjectID `json:"_id"`
	Team   *TeamView          `json:"team"`
	Marker *entity.User       `json:"marker"`
	Marks  []entity.Mark      `json:"marks"`
}

// AssessmentView replaces the team-set reference with the team-set itself
// and expands the team and marker of each result.
type AssessmentView struct {
	entity.Assessment
	TeamSet *entity.TeamSet `json:"teamSet"`
	Results []ResultView    `json:"results"`
}

// CourseView is a course with every reference replaced by its document.
type CourseView struct {
	entity.Course
	Faculty     []entity.User    `json:"faculty"`
	TAs         []entity.User    `json:"TAs"`
	Students    []entity.User    `json:"students"`
	TeamSets    []TeamSetView    `json:"teamSets"`
	Assessments []AssessmentView `json:"assessments"`
}

type AccountView struct {
	ID         primitive.ObjectID `json:"_id"`
	Email      string             `json:"email"`
	Role       entity.Role        `json:"role"`
	IsApproved bool               `json:"isApproved"`
	User       *entity.User       `json:"user"`
}
