package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
)

// Interface is the document access used by the course service. Lookups of a
// single document return an error matching ErrNoDocument when it is absent;
// multi-id lookups silently drop ids that do not resolve.
type Interface interface {
	GetAccount(ctx context.Context, id primitive.ObjectID) (*entity.Account, error)
	GetAccountByUser(ctx context.Context, userID primitive.ObjectID) (*entity.Account, error)
	GetAccounts(ctx context.Context, ids []primitive.ObjectID) ([]entity.Account, error)
	CreateAccount(ctx context.Context, account *entity.Account) error
	UpdateAccount(ctx context.Context, account *entity.Account) error
	ListPendingAccounts(ctx context.Context) ([]entity.Account, error)

	GetUser(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	GetUsers(ctx context.Context, ids []primitive.ObjectID) ([]entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) error
	UpdateUser(ctx context.Context, user *entity.User) error
	PullEnrolledCourse(ctx context.Context, courseID primitive.ObjectID) error

	CreateCourse(ctx context.Context, course *entity.Course) error
	GetCourse(ctx context.Context, id primitive.ObjectID) (*entity.Course, error)
	UpdateCourse(ctx context.Context, course *entity.Course) error
	PatchCourse(ctx context.Context, id primitive.ObjectID, patch CoursePatch) error
	DeleteCourse(ctx context.Context, id primitive.ObjectID) (*entity.Course, error)
	ListCoursesForUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Course, error)

	CreateTeamSet(ctx context.Context, teamSet *entity.TeamSet) error
	GetTeamSets(ctx context.Context, ids []primitive.ObjectID) ([]entity.TeamSet, error)
	UpdateTeamSet(ctx context.Context, teamSet *entity.TeamSet) error
	DeleteTeamSets(ctx context.Context, ids []primitive.ObjectID) error

	CreateTeam(ctx context.Context, team *entity.Team) error
	GetTeam(ctx context.Context, id primitive.ObjectID) (*entity.Team, error)
	GetTeams(ctx context.Context, ids []primitive.ObjectID) ([]entity.Team, error)
	UpdateTeam(ctx context.Context, team *entity.Team) error
	DeleteTeamsInTeamSets(ctx context.Context, teamSetIDs []primitive.ObjectID) error
	GetTeamData(ctx context.Context, ids []primitive.ObjectID) ([]entity.TeamData, error)

	CreateAssessment(ctx context.Context, assessment *entity.Assessment) error
	GetAssessment(ctx context.Context, id primitive.ObjectID) (*entity.Assessment, error)
	GetAssessments(ctx context.Context, ids []primitive.ObjectID) ([]entity.Assessment, error)
	UpdateAssessment(ctx context.Context, assessment *entity.Assessment) error
	SetResultMarker(ctx context.Context, assessmentID, resultID, markerID primitive.ObjectID) error

	GetJiraBoard(ctx context.Context, id primitive.ObjectID) (*entity.JiraBoard, error)
	UpsertJiraBoard(ctx context.Context, board *entity.JiraBoard) error
}

// CoursePatch carries the course fields that may be updated in place. Nil
// fields are left untouched.
type CoursePatch struct {
	Name           *string            `bson:"name,omitempty"`
	Code           *string            `bson:"code,omitempty"`
	Semester       *string            `bson:"semester,omitempty"`
	CourseType     *entity.CourseType `bson:"courseType,omitempty"`
	GitHubOrgName  *string            `bson:"gitHubOrgName,omitempty"`
	RepoNameFilter *string            `bson:"repoNameFilter,omitempty"`
}

func (p CoursePatch) Empty() bool {
	return p.Name == nil && p.Code == nil && p.Semester == nil &&
		p.CourseType == nil && p.GitHubOrgName == nil && p.RepoNameFilter == nil
}

// Apply copies the set fields onto c.
func (p CoursePatch) Apply(c *entity.Course) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Code != nil {
		c.Code = *p.Code
	}
	if p.Semester != nil {
		c.Semester = *p.Semester
	}
	if p.CourseType != nil {
		c.CourseType = *p.CourseType
	}
	if p.GitHubOrgName != nil {
		c.GitHubOrgName = *p.GitHubOrgName
	}
	if p.RepoNameFilter != nil {
		c.RepoNameFilter = *p.RepoNameFilter
	}
}

// OrderByIDs reorders docs to follow ids, dropping docs whose id is not listed.
func OrderByIDs[T any](ids []primitive.ObjectID, docs []T, id func(*T) primitive.ObjectID) []T {
	byID := make(map[primitive.ObjectID]T, len(docs))
	for i := range docs {
		byID[id(&docs[i])] = docs[i]
	}

	out := make([]T, 0, len(ids))
	for _, v := range ids {
		if d, ok := byID[v]; ok {
			out = append(out, d)
		}
	}
	return out
}
