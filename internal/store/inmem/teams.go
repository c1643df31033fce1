package inmem

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
)

func (s *Store) CreateTeamSet(_ context.Context, teamSet *entity.TeamSet) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ensureID(&teamSet.ID)
	c := cloneTeamSet(*teamSet)
	s.teamSets[teamSet.ID] = &c
	return nil
}

func (s *Store) GetTeamSets(_ context.Context, ids []primitive.ObjectID) ([]entity.TeamSet, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookupMany(s.teamSets, ids, cloneTeamSet), nil
}

func (s *Store) UpdateTeamSet(_ context.Context, teamSet *entity.TeamSet) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return replace(s.teamSets, teamSet.ID, *teamSet, cloneTeamSet)
}

func (s *Store) DeleteTeamSets(_ context.Context, ids []primitive.ObjectID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, id := range ids {
		delete(s.teamSets, id)
	}
	return nil
}

func (s *Store) CreateTeam(_ context.Context, team *entity.Team) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ensureID(&team.ID)
	c := cloneTeam(*team)
	s.teams[team.ID] = &c
	return nil
}

func (s *Store) GetTeam(_ context.Context, id primitive.ObjectID) (*entity.Team, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookup(s.teams, id, cloneTeam)
}

func (s *Store) GetTeams(_ context.Context, ids []primitive.ObjectID) ([]entity.Team, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookupMany(s.teams, ids, cloneTeam), nil
}

func (s *Store) UpdateTeam(_ context.Context, team *entity.Team) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return replace(s.teams, team.ID, *team, cloneTeam)
}

func (s *Store) DeleteTeamsInTeamSets(_ context.Context, teamSetIDs []primitive.ObjectID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, t := range s.teams {
		if entity.ContainsID(teamSetIDs, t.TeamSet) {
			delete(s.teams, id)
		}
	}
	return nil
}

func (s *Store) GetTeamData(_ context.Context, ids []primitive.ObjectID) ([]entity.TeamData, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookupMany(s.teamDatas, ids, cloneTeamData), nil
}
