package inmem

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/store"
)

func (s *Store) GetUser(_ context.Context, id primitive.ObjectID) (*entity.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookup(s.users, id, cloneUser)
}

func (s *Store) GetUserByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, u := range s.users {
		if u.Identifier == identifier {
			c := cloneUser(*u)
			return &c, nil
		}
	}
	return nil, store.ErrNoDocument
}

func (s *Store) GetUsers(_ context.Context, ids []primitive.ObjectID) ([]entity.User, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookupMany(s.users, ids, cloneUser), nil
}

func (s *Store) CreateUser(_ context.Context, user *entity.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, u := range s.users {
		if u.Identifier == user.Identifier {
			return fmt.Errorf("inserting user: duplicate identifier %q", user.Identifier)
		}
	}

	ensureID(&user.ID)
	if user.EnrolledCourses == nil {
		user.EnrolledCourses = []primitive.ObjectID{}
	}
	c := cloneUser(*user)
	s.users[user.ID] = &c
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user *entity.User) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return replace(s.users, user.ID, *user, cloneUser)
}

func (s *Store) PullEnrolledCourse(_ context.Context, courseID primitive.ObjectID) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, u := range s.users {
		u.EnrolledCourses = entity.RemoveID(u.EnrolledCourses, courseID)
	}
	return nil
}
