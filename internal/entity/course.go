package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseType string

const (
	CourseNormal    CourseType = "Normal"
	CourseGitHubOrg CourseType = "GitHubOrg"
)

type Course struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name           string               `bson:"name" json:"name"`
	Code           string               `bson:"code" json:"code"`
	Semester       string               `bson:"semester" json:"semester"`
	CourseType     CourseType           `bson:"courseType" json:"courseType"`
	GitHubOrgName  string               `bson:"gitHubOrgName,omitempty" json:"gitHubOrgName,omitempty"`
	RepoNameFilter string               `bson:"repoNameFilter,omitempty" json:"repoNameFilter,omitempty"`
	Faculty        []primitive.ObjectID `bson:"faculty" json:"faculty"`
	TAs            []primitive.ObjectID `bson:"TAs" json:"TAs"`
	Students       []primitive.ObjectID `bson:"students" json:"students"`
	TeamSets       []primitive.ObjectID `bson:"teamSets" json:"teamSets"`
	Assessments    []primitive.ObjectID `bson:"assessments" json:"assessments"`
	Milestones     []Milestone          `bson:"milestones" json:"milestones"`
	Sprints        []Sprint             `bson:"sprints" json:"sprints"`
}

type Milestone struct {
	Number      int       `bson:"number" json:"number"`
	Dateline    time.Time `bson:"dateline" json:"dateline"`
	Description string    `bson:"description" json:"description"`
}

type Sprint struct {
	Number      int       `bson:"number" json:"number"`
	StartDate   time.Time `bson:"startDate" json:"startDate"`
	EndDate     time.Time `bson:"endDate" json:"endDate"`
	Description string    `bson:"description" json:"description"`
}

// People returns the slice holding the roster for role, or nil for roles
// that have no roster on a course.
func (c *Course) People(role Role) *[]primitive.ObjectID {
	switch role {
	case RoleStudent:
		return &c.Students
	case RoleTA:
		return &c.TAs
	case RoleFaculty:
		return &c.Faculty
	}
	return nil
}
