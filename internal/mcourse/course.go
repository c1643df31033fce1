package mcourse

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/errs"
	"multi-git-dashboard/internal/events"
	"multi-git-dashboard/internal/log"
)

// CreateCourse stores a new course with the caller as its first faculty
// member.
func (s *Service) CreateCourse(ctx context.Context, req CourseRequest, accountID string) (primitive.ObjectID, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	user, err := s.store.GetUser(ctx, account.User)
	if err != nil {
		return primitive.NilObjectID, lookupErr(err, "User not found", "loading user")
	}

	courseType := req.CourseType
	if courseType == "" {
		courseType = entity.CourseNormal
	}

	course := &entity.Course{
		Name:           req.Name,
		Code:           req.Code,
		Semester:       req.Semester,
		CourseType:     courseType,
		GitHubOrgName:  req.GitHubOrgName,
		RepoNameFilter: req.RepoNameFilter,
		Faculty:        []primitive.ObjectID{user.ID},
		TAs:            []primitive.ObjectID{},
		Students:       []primitive.ObjectID{},
		TeamSets:       []primitive.ObjectID{},
		Assessments:    []primitive.ObjectID{},
		Milestones:     []entity.Milestone{},
		Sprints:        []entity.Sprint{},
	}
	if err := s.store.CreateCourse(ctx, course); err != nil {
		return primitive.NilObjectID, fmt.Errorf("creating course: %w", err)
	}

	user.EnrolledCourses = entity.AppendID(user.EnrolledCourses, course.ID)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return primitive.NilObjectID, fmt.Errorf("enrolling creator: %w", err)
	}

	log.Logger.Info("course created",
		zap.String("courseID", course.ID.Hex()),
		zap.String("code", course.Code),
		zap.String("accountID", accountID),
	)
	return course.ID, nil
}

func (s *Service) GetCoursesForUser(ctx context.Context, accountID string) ([]entity.Course, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	courses, err := s.store.ListCoursesForUser(ctx, account.User)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return courses, nil
}

// GetCourseByID returns the fully expanded course. Teaching assistants only
// see the teams they are assigned to.
func (s *Service) GetCourseByID(ctx context.Context, courseID, accountID string) (*CourseView, error) {
	account, err := s.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	view := &CourseView{Course: *course}
	if view.Faculty, err = s.usersByName(ctx, course.Faculty); err != nil {
		return nil, err
	}
	if view.TAs, err = s.usersByName(ctx, course.TAs); err != nil {
		return nil, err
	}
	if view.Students, err = s.usersByName(ctx, course.Students); err != nil {
		return nil, err
	}

	sets, err := s.store.GetTeamSets(ctx, course.TeamSets)
	if err != nil {
		return nil, fmt.Errorf("loading team sets: %w", err)
	}
	if view.TeamSets, err = s.expandTeamSets(ctx, sets); err != nil {
		return nil, err
	}
	if account.Role == entity.RoleTA {
		for i := range view.TeamSets {
			view.TeamSets[i].Teams = teamsWithTA(view.TeamSets[i].Teams, account.User)
		}
	}

	assessments, err := s.store.GetAssessments(ctx, course.Assessments)
	if err != nil {
		return nil, fmt.Errorf("loading assessments: %w", err)
	}
	if view.Assessments, err = s.expandAssessments(ctx, assessments); err != nil {
		return nil, err
	}

	sortTimeline(&view.Course)
	return view, nil
}

func teamsWithTA(teams []TeamView, ta primitive.ObjectID) []TeamView {
	out := make([]TeamView, 0, len(teams))
	for _, t := range teams {
		if t.TA != nil && t.TA.ID == ta {
			out = append(out, t)
		}
	}
	return out
}

func sortTimeline(c *entity.Course) {
	sort.SliceStable(c.Milestones, func(i, j int) bool { return c.Milestones[i].Number < c.Milestones[j].Number })
	sort.SliceStable(c.Sprints, func(i, j int) bool { return c.Sprints[i].Number < c.Sprints[j].Number })
}

func (s *Service) UpdateCourseByID(ctx context.Context, courseID string, update CourseUpdate) error {
	patch := update.patch()
	if patch.Empty() {
		return errs.BadRequest("No fields to update")
	}
	id, err := parseID(courseID, "Course not found")
	if err != nil {
		return err
	}
	if err := s.store.PatchCourse(ctx, id, patch); err != nil {
		return lookupErr(err, "Course not found", "updating course")
	}
	return nil
}

// DeleteCourseByID removes the course, its team-sets and their teams, and
// unenrolls every user from it.
func (s *Service) DeleteCourseByID(ctx context.Context, courseID string) error {
	id, err := parseID(courseID, "Course not found")
	if err != nil {
		return err
	}
	course, err := s.store.DeleteCourse(ctx, id)
	if err != nil {
		return lookupErr(err, "Course not found", "deleting course")
	}

	if err := s.store.DeleteTeamsInTeamSets(ctx, course.TeamSets); err != nil {
		return fmt.Errorf("deleting teams of course %s: %w", courseID, err)
	}
	if err := s.store.DeleteTeamSets(ctx, course.TeamSets); err != nil {
		return fmt.Errorf("deleting team sets of course %s: %w", courseID, err)
	}
	if err := s.store.PullEnrolledCourse(ctx, id); err != nil {
		return fmt.Errorf("unenrolling users from course %s: %w", courseID, err)
	}

	events.Emit(ctx, s.events, &events.Event{Type: events.CourseDeleted, CourseID: id})
	log.Logger.Info("course deleted", zap.String("courseID", courseID), zap.Int("teamSets", len(course.TeamSets)))
	return nil
}

func (s *Service) GetCourseCode(ctx context.Context, courseID string) (string, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return "", err
	}
	return course.Code, nil
}

func (s *Service) AddMilestone(ctx context.Context, courseID string, req MilestoneRequest) error {
	if req.Number <= 0 {
		return errs.BadRequest("Milestone number must be positive")
	}
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return err
	}

	course.Milestones = append(course.Milestones, entity.Milestone{
		Number:      req.Number,
		Dateline:    req.Dateline,
		Description: req.Description,
	})
	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return fmt.Errorf("adding milestone: %w", err)
	}
	return nil
}

func (s *Service) AddSprint(ctx context.Context, courseID string, req SprintRequest) error {
	if req.Number <= 0 {
		return errs.BadRequest("Sprint number must be positive")
	}
	if req.EndDate.Before(req.StartDate) {
		return errs.BadRequest("Sprint cannot end before it starts")
	}
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return err
	}

	course.Sprints = append(course.Sprints, entity.Sprint{
		Number:      req.Number,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
	})
	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return fmt.Errorf("adding sprint: %w", err)
	}
	return nil
}
