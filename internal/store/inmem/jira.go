package inmem

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
)

func (s *Store) GetJiraBoard(_ context.Context, id primitive.ObjectID) (*entity.JiraBoard, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookup(s.jiraBoards, id, cloneJiraBoard)
}

func (s *Store) UpsertJiraBoard(_ context.Context, board *entity.JiraBoard) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, b := range s.jiraBoards {
		if b.JiraID == board.JiraID {
			board.ID = id
			break
		}
	}
	ensureID(&board.ID)
	c := cloneJiraBoard(*board)
	s.jiraBoards[board.ID] = &c
	return nil
}
