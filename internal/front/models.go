package front

import (
	"time"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/jira"
)

// Course mirrors the expanded course returned by GET /api/courses/:id.
type Course struct {
	ID             string             `json:"_id"`
	Name           string             `json:"name"`
	Code           string             `json:"code"`
	Semester       string             `json:"semester"`
	CourseType     string             `json:"courseType"`
	GitHubOrgName  string             `json:"gitHubOrgName"`
	RepoNameFilter string             `json:"repoNameFilter"`
	Faculty        []entity.User      `json:"faculty"`
	TAs            []entity.User      `json:"TAs"`
	Students       []entity.User      `json:"students"`
	TeamSets       []TeamSet          `json:"teamSets"`
	Assessments    []Assessment       `json:"assessments"`
	Milestones     []entity.Milestone `json:"milestones"`
	Sprints        []entity.Sprint    `json:"sprints"`
}

type TeamSet struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Teams []Team `json:"teams"`
}

type Team struct {
	ID       string           `json:"_id"`
	Number   int              `json:"number"`
	Members  []entity.User    `json:"members"`
	TA       *entity.User     `json:"TA"`
	TeamData *entity.TeamData `json:"teamData"`
	Board    string           `json:"board,omitempty"`
}

type Assessment struct {
	ID             string             `json:"_id"`
	AssessmentType string             `json:"assessmentType"`
	MarkType       string             `json:"markType"`
	Frequency      string             `json:"frequency"`
	Granularity    string             `json:"granularity"`
	FormLink       string             `json:"formLink"`
	TeamSet        *AssessmentTeamSet `json:"teamSet"`
	Results        []AssessmentResult `json:"results"`
}

type AssessmentTeamSet struct {
	Name string `json:"name"`
}

type AssessmentResult struct {
	ID     string        `json:"_id"`
	Marker *entity.User  `json:"marker"`
	Marks  []entity.Mark `json:"marks"`
}

type Tab struct {
	ID    string
	Label string
	Count int
}

// TeamRowVM is one team on the course page with a link to its project
// management card.
type TeamRowVM struct {
	TeamSet string
	Team    Team
	PMLink  string
}

type AssessmentRowVM struct {
	Assessment Assessment
	TeamSet    string
	Results    int
	Marked     int
}

type CoursePageVM struct {
	Title  string
	Active string
	Tabs   []Tab
	Course Course

	Staff       []entity.User
	Teams       []TeamRowVM
	Assessments []AssessmentRowVM

	NextMilestone *entity.Milestone
	Now           time.Time
}

type AssigneeRowVM struct {
	jira.AssigneeStats
	OnTarget bool
	BarPct   float64
}

type SprintTableVM struct {
	EndDate time.Time
	Rows    []AssigneeRowVM
}

type VelocityBarVM struct {
	jira.SprintSummary
	CommittedPct float64
	CompletedPct float64
}

type TeamPMVM struct {
	Title      string
	CourseID   string
	CourseName string
	TeamSet    string
	Team       Team

	HoursPerStoryPoint float64
	HasBoard           bool
	BoardName          string

	Sprints      []SprintTableVM
	Velocity     jira.VelocityReport
	VelocityBars []VelocityBarVM
	Columns      []jira.BoardColumn
}
