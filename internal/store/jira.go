package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"multi-git-dashboard/internal/entity"
)

func (s *Store) GetJiraBoard(ctx context.Context, id primitive.ObjectID) (*entity.JiraBoard, error) {
	var board entity.JiraBoard
	if err := findOne(ctx, s.Collections.JiraBoards, bson.M{"_id": id}, &board); err != nil {
		return nil, err
	}
	return &board, nil
}

// UpsertJiraBoard replaces the board with the same Jira id, inserting it when
// none exists. board.ID is set to the stored document's id.
func (s *Store) UpsertJiraBoard(ctx context.Context, board *entity.JiraBoard) error {
	var existing entity.JiraBoard
	err := findOne(ctx, s.Collections.JiraBoards, bson.M{"jiraId": board.JiraID}, &existing)
	switch {
	case err == nil:
		board.ID = existing.ID
	case errors.Is(err, ErrNoDocument):
		if board.ID.IsZero() {
			board.ID = primitive.NewObjectID()
		}
	default:
		return err
	}

	_, err = s.Collections.JiraBoards.ReplaceOne(ctx,
		bson.M{"_id": board.ID},
		board,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upserting jira board: %w", err)
	}
	return nil
}
