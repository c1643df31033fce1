package mcourse

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/authmw"
	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/errs"
	"multi-git-dashboard/internal/events"
	"multi-git-dashboard/internal/store"
)

// Service implements the course aggregate on top of a document store.
type Service struct {
	store       store.Interface
	events      events.Publisher
	provisioner authmw.Provisioner
}

func NewService(st store.Interface, pub events.Publisher, prov authmw.Provisioner) *Service {
	if pub == nil {
		pub = events.Noop{}
	}
	if prov == nil {
		prov = authmw.NoopProvisioner{}
	}
	return &Service{store: st, events: pub, provisioner: prov}
}

// parseID turns a hex id into an ObjectID. A malformed id cannot name an
// existing document, so it is reported as notFound.
func parseID(hex, notFound string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errs.NotFound("%s", notFound)
	}
	return id, nil
}

// lookupErr maps a missing document to a NotFoundError with msg and wraps
// every other failure with op.
func lookupErr(err error, msg, op string) error {
	if errors.Is(err, store.ErrNoDocument) {
		return errs.NotFound("%s", msg)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) loadAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	if accountID == "" {
		return nil, errs.ErrMissingAuthorization
	}
	id, err := parseID(accountID, "Account not found")
	if err != nil {
		return nil, err
	}
	account, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Account not found", "loading account")
	}
	return account, nil
}

func (s *Service) loadCourse(ctx context.Context, courseID string) (*entity.Course, error) {
	id, err := parseID(courseID, "Course not found")
	if err != nil {
		return nil, err
	}
	course, err := s.store.GetCourse(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Course not found", "loading course")
	}
	return course, nil
}

func nameLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

func sortByName(users []entity.User) {
	sort.SliceStable(users, func(i, j int) bool { return nameLess(users[i].Name, users[j].Name) })
}

func (s *Service) usersByName(ctx context.Context, ids []primitive.ObjectID) ([]entity.User, error) {
	users, err := s.store.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	sortByName(users)
	return users, nil
}

func (s *Service) usersByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]entity.User, error) {
	users, err := s.store.GetUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	out := make(map[primitive.ObjectID]entity.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func userRef(users map[primitive.ObjectID]entity.User, id *primitive.ObjectID) *entity.User {
	if id == nil {
		return nil
	}
	if u, ok := users[*id]; ok {
		return &u
	}
	return nil
}

func teamView(t entity.Team, users map[primitive.ObjectID]entity.User, data map[primitive.ObjectID]entity.TeamData) TeamView {
	v := TeamView{
		ID:      t.ID,
		Number:  t.Number,
		TeamSet: t.TeamSet,
		Members: make([]entity.User, 0, len(t.Members)),
		TA:      userRef(users, t.TA),
		Board:   t.Board,
	}
	for _, id := range t.Members {
		if u, ok := users[id]; ok {
			v.Members = append(v.Members, u)
		}
	}
	if t.TeamData != nil {
		if d, ok := data[*t.TeamData]; ok {
			v.TeamData = &d
		}
	}
	return v
}

// expandTeamSets loads every team of sets with members, TA and repository
// data, ordering teams by number.
func (s *Service) expandTeamSets(ctx context.Context, sets []entity.TeamSet) ([]TeamSetView, error) {
	var teamIDs []primitive.ObjectID
	for _, ts := range sets {
		teamIDs = append(teamIDs, ts.Teams...)
	}
	teams, err := s.store.GetTeams(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}

	var userIDs, dataIDs []primitive.ObjectID
	byID := make(map[primitive.ObjectID]entity.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
		userIDs = append(userIDs, t.Members...)
		if t.TA != nil {
			userIDs = append(userIDs, *t.TA)
		}
		if t.TeamData != nil {
			dataIDs = append(dataIDs, *t.TeamData)
		}
	}

	users, err := s.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	teamData, err := s.store.GetTeamData(ctx, dataIDs)
	if err != nil {
		return nil, fmt.Errorf("loading team data: %w", err)
	}
	data := make(map[primitive.ObjectID]entity.TeamData, len(teamData))
	for _, d := range teamData {
		data[d.ID] = d
	}

	views := make([]TeamSetView, 0, len(sets))
	for _, ts := range sets {
		v := TeamSetView{ID: ts.ID, Name: ts.Name, Course: ts.Course, Teams: make([]TeamView, 0, len(ts.Teams))}
		for _, id := range ts.Teams {
			if t, ok := byID[id]; ok {
				v.Teams = append(v.Teams, teamView(t, users, data))
			}
		}
		sortTeams(v.Teams)
		views = append(views, v)
	}
	return views, nil
}

func sortTeams(teams []TeamView) {
	sort.SliceStable(teams, func(i, j int) bool { return teams[i].Number < teams[j].Number })
}

// expandAssessments resolves the team-set of every assessment and the team
// and marker of every result.
func (s *Service) expandAssessments(ctx context.Context, assessments []entity.Assessment) ([]AssessmentView, error) {
	var setIDs, teamIDs []primitive.ObjectID
	for _, a := range assessments {
		setIDs = append(setIDs, a.TeamSet)
		for _, r := range a.Results {
			if r.Team != nil {
				teamIDs = append(teamIDs, *r.Team)
			}
		}
	}

	sets, err := s.store.GetTeamSets(ctx, setIDs)
	if err != nil {
		return nil, fmt.Errorf("loading team sets: %w", err)
	}
	setsByID := make(map[primitive.ObjectID]entity.TeamSet, len(sets))
	for _, ts := range sets {
		setsByID[ts.ID] = ts
	}

	teams, err := s.store.GetTeams(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}
	teamsByID := make(map[primitive.ObjectID]entity.Team, len(teams))
	var userIDs []primitive.ObjectID
	for _, t := range teams {
		teamsByID[t.ID] = t
		userIDs = append(userIDs, t.Members...)
		if t.TA != nil {
			userIDs = append(userIDs, *t.TA)
		}
	}
	for _, a := range assessments {
		for _, r := range a.Results {
			if r.Marker != nil {
				userIDs = append(userIDs, *r.Marker)
			}
		}
	}
	users, err := s.usersByID(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]AssessmentView, 0, len(assessments))
	for _, a := range assessments {
		v := AssessmentView{Assessment: a, Results: make([]ResultView, 0, len(a.Results))}
		if ts, ok := setsByID[a.TeamSet]; ok {
			v.TeamSet = &ts
		}
		for _, r := range a.Results {
			rv := ResultView{ID: r.ID, Marker: userRef(users, r.Marker), Marks: r.Marks}
			if r.Team != nil {
				if t, ok := teamsByID[*r.Team]; ok {
					tv := teamView(t, users, nil)
					rv.Team = &tv
				}
			}
			v.Results = append(v.Results, rv)
		}
		views = append(views, v)
	}
	return views, nil
}
