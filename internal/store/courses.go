package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"multi-git-dashboard/internal/entity"
)

func (s *Store) CreateCourse(ctx context.Context, course *entity.Course) error {
	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}
	if _, err := s.Collections.Courses.InsertOne(ctx, course); err != nil {
		return fmt.Errorf("inserting course: %w", err)
	}
	return nil
}

func (s *Store) GetCourse(ctx context.Context, id primitive.ObjectID) (*entity.Course, error) {
	var course entity.Course
	if err := findOne(ctx, s.Collections.Courses, bson.M{"_id": id}, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *Store) UpdateCourse(ctx context.Context, course *entity.Course) error {
	return replaceByID(ctx, s.Collections.Courses, course.ID, course)
}

func (s *Store) PatchCourse(ctx context.Context, id primitive.ObjectID, patch CoursePatch) error {
	res, err := s.Collections.Courses.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch})
	if err != nil {
		return fmt.Errorf("updating course: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoDocument
	}
	return nil
}

// DeleteCourse removes the course and returns the document as it was.
func (s *Store) DeleteCourse(ctx context.Context, id primitive.ObjectID) (*entity.Course, error) {
	var course entity.Course
	err := s.Collections.Courses.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("deleting course: %w", err)
	}
	return &course, nil
}

// ListCoursesForUser returns the courses where userID is a student, TA or
// faculty member.
func (s *Store) ListCoursesForUser(ctx context.Context, userID primitive.ObjectID) ([]entity.Course, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"students": userID},
		bson.M{"TAs": userID},
		bson.M{"faculty": userID},
	}}
	return findAll[entity.Course](ctx, s.Collections.Courses, filter)
}
