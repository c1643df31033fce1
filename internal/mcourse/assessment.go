package mcourse

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/errs"
	"multi-git-dashboard/internal/log"
)

func (s *Service) GetAssessments(ctx context.Context, courseID string) ([]AssessmentView, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	assessments, err := s.store.GetAssessments(ctx, course.Assessments)
	if err != nil {
		return nil, fmt.Errorf("loading assessments: %w", err)
	}
	return s.expandAssessments(ctx, assessments)
}

// AddAssessments creates one assessment per record with a result for every
// team, or for every student when the granularity is individual. Marks start
// at zero and each result is marked by its team's TA.
func (s *Service) AddAssessments(ctx context.Context, courseID string, records []AssessmentRecord) ([]primitive.ObjectID, error) {
	course, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	sets, err := s.teamSetsByName(ctx, course)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		if _, ok := sets[rec.TeamSetName]; !ok {
			return nil, errs.NotFound("TeamSet not found")
		}
		if rec.Granularity != entity.GranularityTeam && rec.Granularity != entity.GranularityIndividual {
			return nil, errs.BadRequest("Invalid granularity %s", rec.Granularity)
		}
	}

	var memberIDs []primitive.ObjectID
	for _, set := range sets {
		for _, t := range set.teams {
			memberIDs = append(memberIDs, t.Members...)
		}
	}
	users, err := s.usersByID(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(records))
	for _, rec := range records {
		set := sets[rec.TeamSetName]
		assessment := &entity.Assessment{
			Course:         course.ID,
			AssessmentType: rec.AssessmentType,
			MarkType:       rec.MarkType,
			Frequency:      rec.Frequency,
			Granularity:    rec.Granularity,
			TeamSet:        set.set.ID,
			FormLink:       rec.FormLink,
			Results:        seedResults(set.teams, rec.Granularity, users),
		}
		if err := s.store.CreateAssessment(ctx, assessment); err != nil {
			return nil, fmt.Errorf("creating assessment: %w", err)
		}
		course.Assessments = entity.AppendID(course.Assessments, assessment.ID)
		ids = append(ids, assessment.ID)
	}

	if err := s.store.UpdateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("linking assessments: %w", err)
	}
	return ids, nil
}

func seedResults(teams []*entity.Team, granularity string, users map[primitive.ObjectID]entity.User) []entity.Result {
	ordered := make([]*entity.Team, len(teams))
	copy(ordered, teams)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Number < ordered[j].Number })

	results := make([]entity.Result, 0, len(ordered))
	for _, t := range ordered {
		marks := make([]entity.Mark, 0, len(t.Members))
		for _, id := range t.Members {
			if u, ok := users[id]; ok {
				marks = append(marks, entity.Mark{User: u.Identifier, Name: u.Name})
			}
		}

		teamID := t.ID
		if granularity == entity.GranularityTeam {
			results = append(results, entity.Result{
				ID:     primitive.NewObjectID(),
				Team:   &teamID,
				Marker: t.TA,
				Marks:  marks,
			})
			continue
		}
		for _, m := range marks {
			results = append(results, entity.Result{
				ID:     primitive.NewObjectID(),
				Team:   &teamID,
				Marker: t.TA,
				Marks:  []entity.Mark{m},
			})
		}
	}
	return results
}

func (s *Service) loadAssessment(ctx context.Context, assessmentID string) (*entity.Assessment, error) {
	id, err := parseID(assessmentID, "Assessment not found")
	if err != nil {
		return nil, err
	}
	a, err := s.store.GetAssessment(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "Assessment not found", "loading assessment")
	}
	return a, nil
}

func (s *Service) GetAssessmentByID(ctx context.Context, assessmentID string) (*AssessmentView, error) {
	a, err := s.loadAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	views, err := s.expandAssessments(ctx, []entity.Assessment{*a})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// UploadAssessmentResults sets the mark of every listed student wherever they
// appear in the assessment's results. Unknown students are ignored.
func (s *Service) UploadAssessmentResults(ctx context.Context, assessmentID string, items []ResultItem) error {
	a, err := s.loadAssessment(ctx, assessmentID)
	if err != nil {
		return err
	}

	marks := make(map[string]float64, len(items))
	for _, item := range items {
		marks[item.StudentID] = item.Mark
	}

	updated := 0
	for i := range a.Results {
		for j := range a.Results[i].Marks {
			if m, ok := marks[a.Results[i].Marks[j].User]; ok {
				a.Results[i].Marks[j].Mark = m
				updated++
			}
		}
	}

	if err := s.store.UpdateAssessment(ctx, a); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}
	log.Logger.Debug("assessment results uploaded",
		zap.String("assessmentID", assessmentID),
		zap.Int("items", len(items)),
		zap.Int("marksUpdated", updated),
	)
	return nil
}

func (s *Service) UpdateResultMarker(ctx context.Context, assessmentID, resultID, markerID string) error {
	a, err := s.loadAssessment(ctx, assessmentID)
	if err != nil {
		return err
	}
	rid, err := parseID(resultID, "Result not found")
	if err != nil {
		return err
	}
	if a.Result(rid) == nil {
		return errs.NotFound("Result not found")
	}
	mid, err := primitive.ObjectIDFromHex(markerID)
	if err != nil {
		return errs.BadRequest("Invalid marker id")
	}

	if err := s.store.SetResultMarker(ctx, a.ID, rid, mid); err != nil {
		return lookupErr(err, "Result not found", "updating marker")
	}
	return nil
}
