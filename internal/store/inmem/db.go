// Package inmem keeps every collection in process memory. It backs the
// memory driver and the service tests.
package inmem

import (
	"slices"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/store"
)

type Store struct {
	mutex       sync.RWMutex
	accounts    map[primitive.ObjectID]*entity.Account
	users       map[primitive.ObjectID]*entity.User
	courses     map[primitive.ObjectID]*entity.Course
	teamSets    map[primitive.ObjectID]*entity.TeamSet
	teams       map[primitive.ObjectID]*entity.Team
	teamDatas   map[primitive.ObjectID]*entity.TeamData
	assessments map[primitive.ObjectID]*entity.Assessment
	jiraBoards  map[primitive.ObjectID]*entity.JiraBoard
}

var _ store.Interface = (*Store)(nil)

func New() *Store {
	return &Store{
		accounts:    make(map[primitive.ObjectID]*entity.Account),
		users:       make(map[primitive.ObjectID]*entity.User),
		courses:     make(map[primitive.ObjectID]*entity.Course),
		teamSets:    make(map[primitive.ObjectID]*entity.TeamSet),
		teams:       make(map[primitive.ObjectID]*entity.Team),
		teamDatas:   make(map[primitive.ObjectID]*entity.TeamData),
		assessments: make(map[primitive.ObjectID]*entity.Assessment),
		jiraBoards:  make(map[primitive.ObjectID]*entity.JiraBoard),
	}
}

func ensureID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

func lookup[T any](table map[primitive.ObjectID]*T, id primitive.ObjectID, clone func(T) T) (*T, error) {
	doc, ok := table[id]
	if !ok {
		return nil, store.ErrNoDocument
	}
	c := clone(*doc)
	return &c, nil
}

func lookupMany[T any](table map[primitive.ObjectID]*T, ids []primitive.ObjectID, clone func(T) T) []T {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if doc, ok := table[id]; ok {
			out = append(out, clone(*doc))
		}
	}
	return out
}

func replace[T any](table map[primitive.ObjectID]*T, id primitive.ObjectID, doc T, clone func(T) T) error {
	if _, ok := table[id]; !ok {
		return store.ErrNoDocument
	}
	c := clone(doc)
	table[id] = &c
	return nil
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	if ids == nil {
		return []primitive.ObjectID{}
	}
	return slices.Clone(ids)
}

func cloneIDPtr(id *primitive.ObjectID) *primitive.ObjectID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneAccount(a entity.Account) entity.Account { return a }

func cloneUser(u entity.User) entity.User {
	u.EnrolledCourses = cloneIDs(u.EnrolledCourses)
	return u
}

func cloneCourse(c entity.Course) entity.Course {
	c.Faculty = cloneIDs(c.Faculty)
	c.TAs = cloneIDs(c.TAs)
	c.Students = cloneIDs(c.Students)
	c.TeamSets = cloneIDs(c.TeamSets)
	c.Assessments = cloneIDs(c.Assessments)
	c.Milestones = slices.Clone(c.Milestones)
	c.Sprints = slices.Clone(c.Sprints)
	return c
}

func cloneTeamSet(t entity.TeamSet) entity.TeamSet {
	t.Teams = cloneIDs(t.Teams)
	return t
}

func cloneTeam(t entity.Team) entity.Team {
	t.Members = cloneIDs(t.Members)
	t.TA = cloneIDPtr(t.TA)
	t.TeamData = cloneIDPtr(t.TeamData)
	t.Board = cloneIDPtr(t.Board)
	return t
}

func cloneTeamData(d entity.TeamData) entity.TeamData { return d }

func cloneAssessment(a entity.Assessment) entity.Assessment {
	results := make([]entity.Result, len(a.Results))
	for i, r := range a.Results {
		r.Team = cloneIDPtr(r.Team)
		r.Marker = cloneIDPtr(r.Marker)
		r.Marks = slices.Clone(r.Marks)
		results[i] = r
	}
	a.Results = results
	return a
}

func cloneJiraBoard(b entity.JiraBoard) entity.JiraBoard {
	b.Course = cloneIDPtr(b.Course)
	b.Columns = slices.Clone(b.Columns)
	sprints := make([]entity.JiraSprint, len(b.JiraSprints))
	for i, s := range b.JiraSprints {
		s.JiraIssues = slices.Clone(s.JiraIssues)
		sprints[i] = s
	}
	b.JiraSprints = sprints
	return b
}

// PutTeamData seeds repository statistics, which this service never writes
// through the store interface.
func (s *Store) PutTeamData(data *entity.TeamData) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ensureID(&data.ID)
	c := cloneTeamData(*data)
	s.teamDatas[data.ID] = &c
}
