package inmem

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/store"
)

func (s *Store) CreateAssessment(_ context.Context, assessment *entity.Assessment) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ensureID(&assessment.ID)
	c := cloneAssessment(*assessment)
	s.assessments[assessment.ID] = &c
	return nil
}

func (s *Store) GetAssessment(_ context.Context, id primitive.ObjectID) (*entity.Assessment, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookup(s.assessments, id, cloneAssessment)
}

func (s *Store) GetAssessments(_ context.Context, ids []primitive.ObjectID) ([]entity.Assessment, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookupMany(s.assessments, ids, cloneAssessment), nil
}

func (s *Store) UpdateAssessment(_ context.Context, assessment *entity.Assessment) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return replace(s.assessments, assessment.ID, *assessment, cloneAssessment)
}

func (s *Store) SetResultMarker(_ context.Context, assessmentID, resultID, markerID primitive.ObjectID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	a, ok := s.assessments[assessmentID]
	if !ok {
		return store.ErrNoDocument
	}
	r := a.Result(resultID)
	if r == nil {
		return store.ErrNoDocument
	}
	r.Marker = &markerID
	return nil
}
