package mcourse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/events"
	"multi-git-dashboard/internal/log"
	"multi-git-dashboard/internal/store"
)

func (s *Service) AddStudentsToCourse(ctx context.Context, courseID string, records []PersonRecord) (*RosterReport, error) {
	return s.addPeople(ctx, courseID, entity.RoleStudent, records)
}

func (s *Service) AddTAsToCourse(ctx context.Context, courseID string, records []PersonRecord) (*RosterReport, error) {
	return s.addPeople(ctx, courseID, entity.RoleTA, records)
}

func (s *Service) AddFacultyToCourse(ctx context.Context, courseID string, records []PersonRecord) (*RosterReport, error) {
	return s.addPeople(ctx, courseID, entity.RoleFaculty, records)
}

// addPeople enrolls each record under role. Unknown identifiers get a new
// user and an unapproved account. Known identifiers are only enrolled when
// their account has the same role, name and email; otherwise they are
// reported as skipped and left untouched.
func (s *Service) addPeople(ctx context.Context, courseID string, role entity.Role, records []PersonRecord) (*RosterReport, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	report := &RosterReport{Added: []string{}, Skipped: []string{}}
	var added []primitive.ObjectID

	for i, rec := range records {
		identifier := strings.TrimSpace(rec.Identifier)
		if identifier == "" {
			report.Skipped = append(report.Skipped, fmt.Sprintf("row %d", i+1))
			continue
		}

		user, err := s.store.GetUserByIdentifier(ctx, identifier)
		switch {
		case errors.Is(err, store.ErrNoDocument):
			user, err = s.createPerson(ctx, identifier, role, rec, course.ID)
			if err != nil {
				return nil, err
			}
		case err != nil:
			return nil, fmt.Errorf("loading user %s: %w", identifier, err)
		default:
			ok, err := s.matchesAccount(ctx, user, role, rec)
			if err != nil {
				return nil, err
			}
			if !ok {
				log.Logger.Debug("roster record skipped",
					zap.String("courseID", courseID),
					zap.String("identifier", identifier),
					zap.String("role", string(role)),
				)
				report.Skipped = append(report.Skipped, identifier)
				continue
			}
			if rec.GitHandle != "" {
				user.GitHandle = rec.GitHandle
			}
			user.EnrolledCourses = entity.AppendID(user.EnrolledCourses, course.ID)
			if err := s.store.UpdateUser(ctx, user); err != nil {
				return nil, fmt.Errorf("updating user %s: %w", identifier, err)
			}
		}

		people := course.People(role)
		*people = entity.AppendID(*people, user.ID)
		report.Added = append(report.Added, identifier)
		added = append(added, user.ID)
	}

	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("saving roster: %w", err)
	}

	if len(added) > 0 {
		events.Emit(ctx, s.events, &events.Event{
			Type:     events.RosterUpdated,
			CourseID: course.ID,
			Role:     role,
			Users:    added,
		})
	}
	return report, nil
}

// createPerson stores a new user enrolled in courseID together with an
// unapproved account, and mirrors the account into the identity provider.
func (s *Service) createPerson(ctx context.Context, identifier string, role entity.Role, rec PersonRecord, courseID primitive.ObjectID) (*entity.User, error) {
	user := &entity.User{
		Identifier:      identifier,
		Name:            rec.Name,
		GitHandle:       rec.GitHandle,
		EnrolledCourses: []primitive.ObjectID{courseID},
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user %s: %w", identifier, err)
	}

	account := &entity.Account{
		Email:      rec.Email,
		Role:       role,
		IsApproved: false,
		User:       user.ID,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("creating account for %s: %w", identifier, err)
	}

	kcID, err := s.provisioner.ProvisionAccount(ctx, account, user)
	if err != nil {
		log.Logger.Warn("identity provisioning failed", zap.String("identifier", identifier), zap.Error(err))
		return user, nil
	}
	if kcID != "" {
		account.KeycloakID = kcID
		if err := s.store.UpdateAccount(ctx, account); err != nil {
			return nil, fmt.Errorf("linking account for %s: %w", identifier, err)
		}
	}
	return user, nil
}

func (s *Service) matchesAccount(ctx context.Context, user *entity.User, role entity.Role, rec PersonRecord) (bool, error) {
	account, err := s.store.GetAccountByUser(ctx, user.ID)
	if errors.Is(err, store.ErrNoDocument) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading account of %s: %w", user.Identifier, err)
	}
	return account.Role == role && rec.Name == user.Name && rec.Email == account.Email, nil
}

func (s *Service) RemoveStudentFromCourse(ctx context.Context, courseID, userID string) error {
	return s.removePerson(ctx, courseID, userID, entity.RoleStudent, "Student not found")
}

func (s *Service) RemoveTAFromCourse(ctx context.Context, courseID, userID string) error {
	return s.removePerson(ctx, courseID, userID, entity.RoleTA, "TA not found")
}

func (s *Service) RemoveFacultyFromCourse(ctx context.Context, courseID, userID string) error {
	return s.removePerson(ctx, courseID, userID, entity.RoleFaculty, "Faculty Member not found")
}

func (s *Service) removePerson(ctx context.Context, courseID, userID string, role entity.Role, notFound string) error {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return err
	}
	id, err := parseID(userID, notFound)
	if err != nil {
		return err
	}
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return lookupErr(err, notFound, "loading user")
	}

	people := course.People(role)
	*people = entity.RemoveID(*people, user.ID)
	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return fmt.Errorf("saving roster: %w", err)
	}

	user.EnrolledCourses = entity.RemoveID(user.EnrolledCourses, course.ID)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("unenrolling user: %w", err)
	}

	events.Emit(ctx, s.events, &events.Event{
		Type:     events.RosterUpdated,
		CourseID: course.ID,
		Role:     role,
		Users:    []primitive.ObjectID{user.ID},
	})
	return nil
}

func (s *Service) GetPeople(ctx context.Context, courseID string) (*People, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	people := &People{}
	if people.Faculty, err = s.usersByName(ctx, course.Faculty); err != nil {
		return nil, err
	}
	if people.TAs, err = s.usersByName(ctx, course.TAs); err != nil {
		return nil, err
	}
	if people.Students, err = s.usersByName(ctx, course.Students); err != nil {
		return nil, err
	}
	return people, nil
}

// GetTeachingTeam lists the faculty followed by the TAs, each group sorted by
// name.
func (s *Service) GetTeachingTeam(ctx context.Context, courseID string) ([]entity.User, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	faculty, err := s.usersByName(ctx, course.Faculty)
	if err != nil {
		return nil, err
	}
	tas, err := s.usersByName(ctx, course.TAs)
	if err != nil {
		return nil, err
	}
	return append(faculty, tas...), nil
}

// SearchPeople narrows the roster to users whose name or identifier
// fuzzily matches query, ignoring case and diacritics.
func (s *Service) SearchPeople(ctx context.Context, courseID, query string) (*People, error) {
	people, err := s.GetPeople(ctx, courseID)
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return people, nil
	}

	people.Faculty = matchPeople(query, people.Faculty)
	people.TAs = matchPeople(query, people.TAs)
	people.Students = matchPeople(query, people.Students)
	return people, nil
}

func matchPeople(query string, users []entity.User) []entity.User {
	out := make([]entity.User, 0, len(users))
	for _, u := range users {
		if fuzzy.MatchNormalizedFold(query, u.Name) || fuzzy.MatchFold(query, u.Identifier) {
			out = append(out, u)
		}
	}
	return out
}
