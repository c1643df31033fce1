package mcourse

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/errs"
)

func (s *Service) GetJiraBoard(ctx context.Context, boardID string) (*entity.JiraBoard, error) {
	id, err := parseID(boardID, "Jira board not found")
	if err != nil {
		return nil, err
	}
	board, err := s.store.GetJiraBoard(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Jira board not found", "loading jira board")
	}
	return board, nil
}

// UpsertJiraBoard stores a board synced from Jira, keyed by its Jira id, and
// links it to the team and the team's course.
func (s *Service) UpsertJiraBoard(ctx context.Context, teamID string, board *entity.JiraBoard) (primitive.ObjectID, error) {
	if board.JiraID <= 0 {
		return primitive.NilObjectID, errs.BadRequest("Jira board id is required")
	}
	id, err := parseID(teamID, "Team not found")
	if err != nil {
		return primitive.NilObjectID, err
	}
	team, err := s.store.GetTeam(ctx, id)
	if err != nil {
		return primitive.NilObjectID, lookupErr(err, "Team not found", "loading team")
	}

	sets, err := s.store.GetTeamSets(ctx, []primitive.ObjectID{team.TeamSet})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("loading team set: %w", err)
	}
	if len(sets) == 1 {
		course := sets[0].Course
		board.Course = &course
	}

	board.ID = primitive.NilObjectID
	if err := s.store.UpsertJiraBoard(ctx, board); err != nil {
		return primitive.NilObjectID, fmt.Errorf("saving jira board: %w", err)
	}

	boardID := board.ID
	team.Board = &boardID
	if err := s.store.UpdateTeam(ctx, team); err != nil {
		return primitive.NilObjectID, lookupErr(err, "Team not found", "linking jira board")
	}
	return board.ID, nil
}
