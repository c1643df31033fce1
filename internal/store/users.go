package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
)

func (s *Store) GetUser(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	var user entity.User
	if err := findOne(ctx, s.Collections.Users, bson.M{"_id": id}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	var user entity.User
	if err := findOne(ctx, s.Collections.Users, bson.M{"identifier": identifier}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUsers(ctx context.Context, ids []primitive.ObjectID) ([]entity.User, error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}
	users, err := findAll[entity.User](ctx, s.Collections.Users, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	return OrderByIDs(ids, users, func(u *entity.User) primitive.ObjectID { return u.ID }), nil
}

func (s *Store) CreateUser(ctx context.Context, user *entity.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.EnrolledCourses == nil {
		user.EnrolledCourses = []primitive.ObjectID{}
	}
	if _, err := s.Collections.Users.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, user *entity.User) error {
	return replaceByID(ctx, s.Collections.Users, user.ID, user)
}

// PullEnrolledCourse removes courseID from every user's enrolled courses.
func (s *Store) PullEnrolledCourse(ctx context.Context, courseID primitive.ObjectID) error {
	_, err := s.Collections.Users.UpdateMany(ctx,
		bson.M{"enrolledCourses": courseID},
		bson.M{"$pull": bson.M{"enrolledCourses": courseID}},
	)
	if err != nil {
		return fmt.Errorf("pulling enrolled course: %w", err)
	}
	return nil
}
