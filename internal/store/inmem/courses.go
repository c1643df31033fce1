package inmem

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/store"
)

func (s *Store) CreateCourse(_ context.Context, course *entity.Course) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	ensureID(&course.ID)
	c := cloneCourse(*course)
	s.courses[course.ID] = &c
	return nil
}

func (s *Store) GetCourse(_ context.Context, id primitive.ObjectID) (*entity.Course, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return lookup(s.courses, id, cloneCourse)
}

func (s *Store) UpdateCourse(_ context.Context, course *entity.Course) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return replace(s.courses, course.ID, *course, cloneCourse)
}

func (s *Store) PatchCourse(_ context.Context, id primitive.ObjectID, patch store.CoursePatch) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	c, ok := s.courses[id]
	if !ok {
		return store.ErrNoDocument
	}
	patch.Apply(c)
	return nil
}

func (s *Store) DeleteCourse(_ context.Context, id primitive.ObjectID) (*entity.Course, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, store.ErrNoDocument
	}
	delete(s.courses, id)
	return c, nil
}

func (s *Store) ListCoursesForUser(_ context.Context, userID primitive.ObjectID) ([]entity.Course, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	out := make([]entity.Course, 0)
	for _, c := range s.courses {
		if entity.ContainsID(c.Students, userID) ||
			entity.ContainsID(c.TAs, userID) ||
			entity.ContainsID(c.Faculty, userID) {
			out = append(out, cloneCourse(*c))
		}
	}
	// ids grow with creation time
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}
