package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
)

func (s *Store) CreateTeamSet(ctx context.Context, teamSet *entity.TeamSet) error {
	if teamSet.ID.IsZero() {
		teamSet.ID = primitive.NewObjectID()
	}
	if teamSet.Teams == nil {
		teamSet.Teams = []primitive.ObjectID{}
	}
	if _, err := s.Collections.TeamSets.InsertOne(ctx, teamSet); err != nil {
		return fmt.Errorf("inserting team set: %w", err)
	}
	return nil
}

func (s *Store) GetTeamSets(ctx context.Context, ids []primitive.ObjectID) ([]entity.TeamSet, error) {
	if len(ids) == 0 {
		return []entity.TeamSet{}, nil
	}
	sets, err := findAll[entity.TeamSet](ctx, s.Collections.TeamSets, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return OrderByIDs(ids, sets, func(t *entity.TeamSet) primitive.ObjectID { return t.ID }), nil
}

func (s *Store) UpdateTeamSet(ctx context.Context, teamSet *entity.TeamSet) error {
	return replaceByID(ctx, s.Collections.TeamSets, teamSet.ID, teamSet)
}

func (s *Store) DeleteTeamSets(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.Collections.TeamSets.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("deleting team sets: %w", err)
	}
	return nil
}

func (s *Store) CreateTeam(ctx context.Context, team *entity.Team) error {
	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}
	if team.Members == nil {
		team.Members = []primitive.ObjectID{}
	}
	if _, err := s.Collections.Teams.InsertOne(ctx, team); err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}
	return nil
}

func (s *Store) GetTeam(ctx context.Context, id primitive.ObjectID) (*entity.Team, error) {
	var team entity.Team
	if err := findOne(ctx, s.Collections.Teams, bson.M{"_id": id}, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *Store) GetTeams(ctx context.Context, ids []primitive.ObjectID) ([]entity.Team, error) {
	if len(ids) == 0 {
		return []entity.Team{}, nil
	}
	teams, err := findAll[entity.Team](ctx, s.Collections.Teams, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return OrderByIDs(ids, teams, func(t *entity.Team) primitive.ObjectID { return t.ID }), nil
}

func (s *Store) UpdateTeam(ctx context.Context, team *entity.Team) error {
	return replaceByID(ctx, s.Collections.Teams, team.ID, team)
}

func (s *Store) DeleteTeamsInTeamSets(ctx context.Context, teamSetIDs []primitive.ObjectID) error {
	if len(teamSetIDs) == 0 {
		return nil
	}
	if _, err := s.Collections.Teams.DeleteMany(ctx, bson.M{"teamSet": bson.M{"$in": teamSetIDs}}); err != nil {
		return fmt.Errorf("deleting teams: %w", err)
	}
	return nil
}

func (s *Store) GetTeamData(ctx context.Context, ids []primitive.ObjectID) ([]entity.TeamData, error) {
	if len(ids) == 0 {
		return []entity.TeamData{}, nil
	}
	data, err := findAll[entity.TeamData](ctx, s.Collections.TeamDatas, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return OrderByIDs(ids, data, func(d *entity.TeamData) primitive.ObjectID { return d.ID }), nil
}
