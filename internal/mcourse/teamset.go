package mcourse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/errs"
	"multi-git-dashboard/internal/store"
)

func (s *Service) GetTeamSets(ctx context.Context, courseID string) ([]TeamSetView, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	sets, err := s.store.GetTeamSets(ctx, course.TeamSets)
	if err != nil {
		return nil, fmt.Errorf("loading team sets: %w", err)
	}
	return s.expandTeamSets(ctx, sets)
}

func (s *Service) GetTeamSetNames(ctx context.Context, courseID string) ([]string, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	sets, err := s.store.GetTeamSets(ctx, course.TeamSets)
	if err != nil {
		return nil, fmt.Errorf("loading team sets: %w", err)
	}

	names := make([]string, len(sets))
	for i, ts := range sets {
		names[i] = ts.Name
	}
	return names, nil
}

func (s *Service) CreateTeamSet(ctx context.Context, courseID, name string) (primitive.ObjectID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return primitive.NilObjectID, errs.BadRequest("Team set name is required")
	}
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	sets, err := s.store.GetTeamSets(ctx, course.TeamSets)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("loading team sets: %w", err)
	}
	for _, ts := range sets {
		if ts.Name == name {
			return primitive.NilObjectID, errs.BadRequest("Team set %s already exists", name)
		}
	}

	ts := &entity.TeamSet{Name: name, Course: course.ID, Teams: []primitive.ObjectID{}}
	if err := s.store.CreateTeamSet(ctx, ts); err != nil {
		return primitive.NilObjectID, fmt.Errorf("creating team set: %w", err)
	}
	course.TeamSets = entity.AppendID(course.TeamSets, ts.ID)
	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return primitive.NilObjectID, fmt.Errorf("linking team set: %w", err)
	}
	return ts.ID, nil
}

func (s *Service) AddStudentsToTeams(ctx context.Context, courseID string, records []TeamPlacement) error {
	return s.placeInTeams(ctx, courseID, entity.RoleStudent, records)
}

func (s *Service) AddTAsToTeams(ctx context.Context, courseID string, records []TeamPlacement) error {
	return s.placeInTeams(ctx, courseID, entity.RoleTA, records)
}

func invalidPerson(role entity.Role) error {
	if role == entity.RoleTA {
		return errs.BadRequest("Invalid TA")
	}
	return errs.BadRequest("Invalid Student")
}

type placement struct {
	user   primitive.ObjectID
	set    *teamSetTeams
	number int
}

// teamSetTeams caches a team-set with its loaded teams while placements are
// applied.
type teamSetTeams struct {
	set   *entity.TeamSet
	teams []*entity.Team
	dirty bool
}

func (t *teamSetTeams) team(number int) *entity.Team {
	for _, team := range t.teams {
		if team.Number == number {
			return team
		}
	}
	return nil
}

// placeInTeams validates every record before writing anything. Students are
// members of at most one team per team-set; a TA is set as the team's TA.
func (s *Service) placeInTeams(ctx context.Context, courseID string, role entity.Role, records []TeamPlacement) error {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return err
	}
	sets, err := s.teamSetsByName(ctx, course)
	if err != nil {
		return err
	}
	roster := *course.People(role)

	placements := make([]placement, 0, len(records))
	for _, rec := range records {
		user, err := s.store.GetUserByIdentifier(ctx, strings.TrimSpace(rec.Identifier))
		if errors.Is(err, store.ErrNoDocument) {
			return invalidPerson(role)
		}
		if err != nil {
			return fmt.Errorf("loading user %s: %w", rec.Identifier, err)
		}
		if !entity.ContainsID(roster, user.ID) || !user.IsEnrolled(course.ID) {
			return invalidPerson(role)
		}
		set, ok := sets[rec.TeamSet]
		if !ok {
			return errs.NotFound("TeamSet not found")
		}
		if rec.TeamNumber <= 0 {
			return errs.BadRequest("Team number must be positive")
		}
		placements = append(placements, placement{user: user.ID, set: set, number: rec.TeamNumber})
	}

	changed := make(map[primitive.ObjectID]*entity.Team)
	for _, p := range placements {
		team := p.set.team(p.number)
		if team == nil {
			team = &entity.Team{Number: p.number, TeamSet: p.set.set.ID, Members: []primitive.ObjectID{}}
			if err := s.store.CreateTeam(ctx, team); err != nil {
				return fmt.Errorf("creating team %d: %w", p.number, err)
			}
			p.set.teams = append(p.set.teams, team)
			p.set.set.Teams = entity.AppendID(p.set.set.Teams, team.ID)
			p.set.dirty = true
		}

		if role == entity.RoleTA {
			ta := p.user
			team.TA = &ta
			changed[team.ID] = team
			continue
		}

		for _, other := range p.set.teams {
			if other != team && entity.ContainsID(other.Members, p.user) {
				other.Members = entity.RemoveID(other.Members, p.user)
				changed[other.ID] = other
			}
		}
		team.Members = entity.AppendID(team.Members, p.user)
		changed[team.ID] = team
	}

	for _, team := range changed {
		if err := s.store.UpdateTeam(ctx, team); err != nil {
			return fmt.Errorf("saving team %d: %w", team.Number, err)
		}
	}
	for _, set := range sets {
		if !set.dirty {
			continue
		}
		if err := s.store.UpdateTeamSet(ctx, set.set); err != nil {
			return fmt.Errorf("saving team set %s: %w", set.set.Name, err)
		}
	}
	return nil
}

func (s *Service) teamSetsByName(ctx context.Context, course *entity.Course) (map[string]*teamSetTeams, error) {
	sets, err := s.store.GetTeamSets(ctx, course.TeamSets)
	if err != nil {
		return nil, fmt.Errorf("loading team sets: %w", err)
	}

	out := make(map[string]*teamSetTeams, len(sets))
	for i := range sets {
		teams, err := s.store.GetTeams(ctx, sets[i].Teams)
		if err != nil {
			return nil, fmt.Errorf("loading teams of %s: %w", sets[i].Name, err)
		}
		entry := &teamSetTeams{set: &sets[i], teams: make([]*entity.Team, len(teams))}
		for j := range teams {
			entry.teams[j] = &teams[j]
		}
		out[sets[i].Name] = entry
	}
	return out, nil
}
