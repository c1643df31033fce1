package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
)

func (s *Store) CreateAssessment(ctx context.Context, assessment *entity.Assessment) error {
	if assessment.ID.IsZero() {
		assessment.ID = primitive.NewObjectID()
	}
	if assessment.Results == nil {
		assessment.Results = []entity.Result{}
	}
	if _, err := s.Collections.Assessments.InsertOne(ctx, assessment); err != nil {
		return fmt.Errorf("inserting assessment: %w", err)
	}
	return nil
}

func (s *Store) GetAssessment(ctx context.Context, id primitive.ObjectID) (*entity.Assessment, error) {
	var assessment entity.Assessment
	if err := findOne(ctx, s.Collections.Assessments, bson.M{"_id": id}, &assessment); err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (s *Store) GetAssessments(ctx context.Context, ids []primitive.ObjectID) ([]entity.Assessment, error) {
	if len(ids) == 0 {
		return []entity.Assessment{}, nil
	}
	assessments, err := findAll[entity.Assessment](ctx, s.Collections.Assessments, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return OrderByIDs(ids, assessments, func(a *entity.Assessment) primitive.ObjectID { return a.ID }), nil
}

func (s *Store) UpdateAssessment(ctx context.Context, assessment *entity.Assessment) error {
	return replaceByID(ctx, s.Collections.Assessments, assessment.ID, assessment)
}

// SetResultMarker points a single embedded result at a new marker.
func (s *Store) SetResultMarker(ctx context.Context, assessmentID, resultID, markerID primitive.ObjectID) error {
	res, err := s.Collections.Assessments.UpdateOne(ctx,
		bson.M{"_id": assessmentID, "results._id": resultID},
		bson.M{"$set": bson.M{"results.$.marker": markerID}},
	)
	if err != nil {
		return fmt.Errorf("updating result marker: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}
