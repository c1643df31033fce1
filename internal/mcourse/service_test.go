package mcourse

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/errs"
	"multi-git-dashboard/internal/events"
	"multi-git-dashboard/internal/store"
	"multi-git-dashboard/internal/store/inmem"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e *events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, *e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type recordingProvisioner struct {
	provisioned []string
	enabled     []string
}

func (p *recordingProvisioner) ProvisionAccount(_ context.Context, _ *entity.Account, user *entity.User) (string, error) {
	p.provisioned = append(p.provisioned, user.Identifier)
	return "kc-" + user.Identifier, nil
}

func (p *recordingProvisioner) EnableAccount(_ context.Context, id string) error {
	p.enabled = append(p.enabled, id)
	return nil
}

type fixture struct {
	ctx  context.Context
	st   *inmem.Store
	svc  *Service
	pub  *recordingPublisher
	prov *recordingProvisioner
}

func newFixture() *fixture {
	f := &fixture{
		ctx:  context.Background(),
		st:   inmem.New(),
		pub:  &recordingPublisher{},
		prov: &recordingProvisioner{},
	}
	f.svc = NewService(f.st, f.pub, f.prov)
	return f
}

func (f *fixture) person(t *testing.T, identifier, name, email string, role entity.Role) (*entity.Account, *entity.User) {
	t.Helper()
	u := &entity.User{Identifier: identifier, Name: name}
	require.NoError(t, f.st.CreateUser(f.ctx, u))
	a := &entity.Account{Email: email, Role: role, IsApproved: true, User: u.ID}
	require.NoError(t, f.st.CreateAccount(f.ctx, a))
	return a, u
}

// course creates a course owned by a fresh faculty member.
func (f *fixture) course(t *testing.T) (string, *entity.Account) {
	t.Helper()
	acc, _ := f.person(t, "F1", "Faye", "faye@uni.edu", entity.RoleFaculty)
	id, err := f.svc.CreateCourse(f.ctx, CourseRequest{
		Name:     "Software Engineering",
		Code:     "CS3203",
		Semester: "AY24/25 S1",
	}, acc.ID.Hex())
	require.NoError(t, err)
	return id.Hex(), acc
}

func (f *fixture) user(t *testing.T, identifier string) *entity.User {
	t.Helper()
	u, err := f.st.GetUserByIdentifier(f.ctx, identifier)
	require.NoError(t, err)
	return u
}

func (f *fixture) load(t *testing.T, courseID string) *entity.Course {
	t.Helper()
	c, err := f.svc.loadCourse(f.ctx, courseID)
	require.NoError(t, err)
	return c
}

func TestCreateCourseEnrollsCreatorAsFaculty(t *testing.T) {
	f := newFixture()
	courseID, acc := f.course(t)

	c := f.load(t, courseID)
	assert.Equal(t, []primitive.ObjectID{acc.User}, c.Faculty)
	assert.Equal(t, entity.CourseNormal, c.CourseType)
	assert.True(t, f.user(t, "F1").IsEnrolled(c.ID))

	courses, err := f.svc.GetCoursesForUser(f.ctx, acc.ID.Hex())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "CS3203", courses[0].Code)
}

func TestCreateCourseRequiresAccount(t *testing.T) {
	f := newFixture()
	req := CourseRequest{Name: "n", Code: "c", Semester: "s"}

	_, err := f.svc.CreateCourse(f.ctx, req, "")
	assert.ErrorIs(t, err, errs.ErrMissingAuthorization)

	_, err = f.svc.CreateCourse(f.ctx, req, primitive.NewObjectID().Hex())
	assert.True(t, errs.IsNotFound(err))
	assert.EqualError(t, err, "Account not found")
}

func TestGetCourseByIDNotFound(t *testing.T) {
	f := newFixture()
	acc, _ := f.person(t, "F1", "Faye", "faye@uni.edu", entity.RoleFaculty)

	for _, id := range []string{primitive.NewObjectID().Hex(), "not-an-id"} {
		_, err := f.svc.GetCourseByID(f.ctx, id, acc.ID.Hex())
		assert.True(t, errs.IsNotFound(err), id)
		assert.EqualError(t, err, "Course not found")
	}
}

func TestLookupMessagesAreLiteral(t *testing.T) {
	_, err := parseID("not-an-id", "100% of ids malformed")
	assert.True(t, errs.IsNotFound(err))
	assert.EqualError(t, err, "100% of ids malformed")

	err = lookupErr(store.ErrNoDocument, "Team 5% not found", "loading team")
	assert.True(t, errs.IsNotFound(err))
	assert.EqualError(t, err, "Team 5% not found")
}

func TestAddStudentsSkipsConflictingRecords(t *testing.T) {
	f := newFixture()
	courseID, _ := f.course(t)
	_, ta := f.person(t, "T1", "Tim", "tim@uni.edu", entity.RoleTA)

	report, err := f.svc.AddStudentsToCourse(f.ctx, courseID, []PersonRecord{
		{Identifier: "S1", Name: "Sam", Email: "sam@uni.edu", GitHandle: "samgit"},
		{Identifier: "T1", Name: "Tim", Email: "tim@uni.edu"},
		{Identifier: "  ", Name: "blank"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"S1"}, report.Added)
	assert.Equal(t, []string{"T1", "row 3"}, report.Skipped)

	c := f.load(t, courseID)
	sam := f.user(t, "S1")
	assert.Equal(t, []primitive.ObjectID{sam.ID}, c.Students)
	assert.True(t, sam.IsEnrolled(c.ID))
	assert.Equal(t, "samgit", sam.GitHandle)

	untouched := f.user(t, "T1")
	assert.Equal(t, ta.Name, untouched.Name)
	assert.Empty(t, untouched.EnrolledCourses)

	acc, err := f.st.GetAccountByUser(f.ctx, sam.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, acc.Role)
	assert.False(t, acc.IsApproved)
	assert.Equal(t, "kc-S1", acc.KeycloakID)
	assert.Equal(t, []string{"S1"}, f.prov.provisioned)
	assert.Equal(t, []events.Type{events.RosterUpdated}, f.pub.types())
}

func TestAddStudentsEnrollsMatchingUser(t *testing.T) {
	f := newFixture()
	courseID, _ := f.course(t)
	_, sam := f.person(t, "S1", "Sam", "sam@uni.edu", entity.RoleStudent)

	report, err := f.svc.AddStudentsToCourse(f.ctx, courseID, []PersonRecord{
		{Identifier: "S1", Name: "Sam", Email: "sam@uni.edu", GitHandle: "newhandle"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"S1"}, report.Added)
	assert.Empty(t, report.Skipped)

	updated := f.user(t, "S1")
	assert.Equal(t, sam.ID, updated.ID)
	assert.Equal(t, "newhandle", updated.GitHandle)
	assert.Empty(t, f.prov.provisioned)
}

func TestAddPeopleUnknownCourse(t *testing.T) {
	f := newFixture()
	_, err := f.svc.AddTAsToCourse(f.ctx, primitive.NewObjectID().Hex(), nil)
	assert.EqualError(t, err, "Course not found")
}

func TestRemovePerson(t *testing.T) {
	f := newFixture()
	courseID, _ := f.course(t)
	_, err := f.svc.AddStudentsToCourse(f.ctx, courseID, []PersonRecord{{Identifier: "S1", Name: "Sam"}})
	require.NoError(t, err)
	sam := f.user(t, "S1")

	require.NoError(t, f.svc.RemoveStudentFromCourse(f.ctx, courseID, sam.ID.Hex()))
	assert.Empty(t, f.load(t, courseID).Students)
	assert.Empty(t, f.user(t, "S1").EnrolledCourses)

	err = f.svc.RemoveTAFromCourse(f.ctx, courseID, primitive.NewObjectID().Hex())
	assert.EqualError(t, err, "TA not found")
	err = f.svc.RemoveFacultyFromCourse(f.ctx, courseID, "bogus")
	assert.EqualError(t, err, "Faculty Member not found")
}

func TestPeopleSortedByName(t *testing.T) {
	f := newFixture()
	courseID, _ := f.course(t)
	_, err := f.svc.AddStudentsToCourse(f.ctx, courseID, []PersonRecord{
		{Identifier: "S1", Name: "carol"},
		{Identifier: "S2", Name: "Alice"},
		{Identifier: "S3", Name: "bob"},
	})
	require.NoError(t, err)
	_, err = f.svc.AddTAsToCourse(f.ctx, courseID, []PersonRecord{{Identifier: "T1", Name: "Zed"}, {Identifier: "T2", Name: "amy"}})
	require.NoError(t, err)

	people, err := f.svc.GetPeople(f.ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "bob", "carol"}, names(people.Students))
	assert.Equal(t, []string{"amy", "Zed"}, names(people.TAs))

	team, err := f.svc.GetTeachingTeam(f.ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Faye", "amy", "Zed"}, names(team))
}

func TestSearchPeople(t *testing.T) {
	f := newFixture()
	courseID, _ := f.course(t)
	_, err := f.svc.AddStudentsToCourse(f.ctx, courseID, []PersonRecord{
		{Identifier: "A0001", Name: "José Alvarez"},
		{Identifier: "A0002", Name: "Mary Chen"},
	})
	require.NoError(t, err)

	people, err := f.svc.SearchPeople(f.ctx, courseID, "jose")
	require.NoError(t, err)
	assert.Equal(t, []string{"José Alvarez"}, names(people.Students))
	assert.Empty(t, people.Faculty)

	people, err = f.svc.SearchPeople(f.ctx, courseID, "a0002")
	require.NoError(t, err)
	assert.Equal(t, []string{"Mary Chen"}, names(people.Students))

	people, err = f.svc.SearchPeople(f.ctx, courseID, "")
	require.NoError(t, err)
	assert.Len(t, people.Students, 2)
	assert.Len(t, people.Faculty, 1)
}

func names(users []entity.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name
	}
	return out
}

func TestUpdateCourse(t *testing.T) {
	f := newFixture()
	courseID, _ := f.course(t)

	err := f.svc.UpdateCourseByID(f.ctx, courseID, CourseUpdate{})
	assert.True(t, errs.IsBadRequest(err))

	name := "Software Engineering II"
	require.NoError(t, f.svc.UpdateCourseByID(f.ctx, courseID, CourseUpdate{Name: &name}))
	c := f.load(t, courseID)
	assert.Equal(t, name, c.Name)
	assert.Equal(t, "CS3203", c.Code)

	err = f.svc.UpdateCourseByID(f.ctx, primitive.NewObjectID().Hex(), CourseUpdate{Name: &name})
	assert.EqualError(t, err, "Course not found")
}

func TestTimelineIsOrderedByNumber(t *testing.T) {
	f := newFixture()
	courseID, acc := f.course(t)
	start := time.Date(2024, 8, 12, 0, 0, 0, 0, time.UTC)

	for _, n := range []int{3, 1, 2} {
		require.NoError(t, f.svc.AddMilestone(f.ctx, courseID, MilestoneRequest{Number: n, Dateline: start}))
		require.NoError(t, f.svc.AddSprint(f.ctx, courseID, SprintRequest{
			Number:    n,
			StartDate: start,
			EndDate:   start.Add(14 * 24 * time.Hour),
		}))
	}

	view, err := f.svc.GetCourseByID(f.ctx, courseID, acc.ID.Hex())
	require.NoError(t, err)
	var milestones, sprints []int
	for _, m := range view.Milestones {
		milestones = append(milestones, m.Number)
	}
	for _, s := range view.Sprints {
		sprints = append(sprints, s.Number)
	}
	assert.Equal(t, []int{1, 2, 3}, milestones)
	assert.Equal(t, []int{1, 2, 3}, sprints)
}

func TestTimelineValidation(t *testing.T) {
	f := newFixture()
	courseID, _ := f.course(t)
	now := time.Now()

	err := f.svc.AddMilestone(f.ctx, courseID, MilestoneRequest{Number: 0, Dateline: now})
	assert.True(t, errs.IsBadRequest(err))

	err = f.svc.AddSprint(f.ctx, courseID, SprintRequest{Number: 1, StartDate: now, EndDate: now.Add(-time.Hour)})
	assert.EqualError(t, err, "Sprint cannot end before it starts")

	err = f.svc.AddSprint(f.ctx, primitive.NewObjectID().Hex(), SprintRequest{Number: 1, StartDate: now, EndDate: now})
	assert.EqualError(t, err, "Course not found")
}

// staffedCourse has two team-sets, two TAs and four students placed in two
// teams of "Project".
func staffedCourse(t *testing.T, f *fixture) (courseID string) {
	t.Helper()
	courseID, _ = f.course(t)

	_, err := f.svc.AddTAsToCourse(f.ctx, courseID, []PersonRecord{
		{Identifier: "T1", Name: "Tim", Email: "tim@uni.edu"},
		{Identifier: "T2", Name: "Tara", Email: "tara@uni.edu"},
	})
	require.NoError(t, err)
	_, err = f.svc.AddStudentsToCourse(f.ctx, courseID, []PersonRecord{
		{Identifier: "S1", Name: "Sam"},
		{Identifier: "S2", Name: "Sue"},
		{Identifier: "S3", Name: "Raj"},
		{Identifier: "S4", Name: "Ana"},
	})
	require.NoError(t, err)

	for _, name := range []string{"Project", "Labs"} {
		_, err = f.svc.CreateTeamSet(f.ctx, courseID, name)
		require.NoError(t, err)
	}

	require.NoError(t, f.svc.AddStudentsToTeams(f.ctx, courseID, []TeamPlacement{
		{Identifier: "S1", TeamSet: "Project", TeamNumber: 2},
		{Identifier: "S2", TeamSet: "Project", TeamNumber: 2},
		{Identifier: "S3", TeamSet: "Project", TeamNumber: 1},
		{Identifier: "S4", TeamSet: "Project", TeamNumber: 1},
	}))
	require.NoError(t, f.svc.AddTAsToTeams(f.ctx, courseID, []TeamPlacement{
		{Identifier: "T1", TeamSet: "Project", TeamNumber: 1},
		{Identifier: "T2", TeamSet: "Project", TeamNumber: 2},
	}))
	return courseID
}

func projectTeams(t *testing.T, sets []TeamSetView) []TeamView {
	t.Helper()
	for _, ts := range sets {
		if ts.Name == "Project" {
			return ts.Teams
		}
	}
	t.Fatal("Project team set missing")
	return nil
}

func TestTeamSets(t *testing.T) {
	f := newFixture()
	courseID := staffedCourse(t, f)

	setNames, err := f.svc.GetTeamSetNames(f.ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Project", "Labs"}, setNames)

	_, err = f.svc.CreateTeamSet(f.ctx, courseID, "Project")
	assert.EqualError(t, err, "Team set Project already exists")
	_, err = f.svc.CreateTeamSet(f.ctx, courseID, " ")
	assert.True(t, errs.IsBadRequest(err))

	sets, err := f.svc.GetTeamSets(f.ctx, courseID)
	require.NoError(t, err)
	teams := projectTeams(t, sets)
	require.Len(t, teams, 2)
	assert.Equal(t, 1, teams[0].Number)
	assert.ElementsMatch(t, []string{"Raj", "Ana"}, names(teams[0].Members))
	require.NotNil(t, teams[0].TA)
	assert.Equal(t, "Tim", teams[0].TA.Name)
	assert.Equal(t, 2, teams[1].Number)
}

func TestPlacingStudentMovesThemWithinTeamSet(t *testing.T) {
	f := newFixture()
	courseID := staffedCourse(t, f)

	require.NoError(t, f.svc.AddStudentsToTeams(f.ctx, courseID, []TeamPlacement{
		{Identifier: "S1", TeamSet: "Project", TeamNumber: 1},
		{Identifier: "S1", TeamSet: "Labs", TeamNumber: 3},
	}))

	sets, err := f.svc.GetTeamSets(f.ctx, courseID)
	require.NoError(t, err)
	teams := projectTeams(t, sets)
	assert.ElementsMatch(t, []string{"Raj", "Ana", "Sam"}, names(teams[0].Members))
	assert.Equal(t, []string{"Sue"}, names(teams[1].Members))

	for _, ts := range sets {
		if ts.Name == "Labs" {
			require.Len(t, ts.Teams, 1)
			assert.Equal(t, 3, ts.Teams[0].Number)
		}
	}
}

func TestPlacementValidatesBeforeWriting(t *testing.T) {
	f := newFixture()
	courseID := staffedCourse(t, f)
	f.person(t, "X1", "Outsider", "x@uni.edu", entity.RoleStudent)

	err := f.svc.AddStudentsToTeams(f.ctx, courseID, []TeamPlacement{
		{Identifier: "S1", TeamSet: "Project", TeamNumber: 5},
		{Identifier: "X1", TeamSet: "Project", TeamNumber: 1},
	})
	assert.EqualError(t, err, "Invalid Student")

	err = f.svc.AddTAsToTeams(f.ctx, courseID, []TeamPlacement{
		{Identifier: "S1", TeamSet: "Project", TeamNumber: 1},
	})
	assert.EqualError(t, err, "Invalid TA")

	err = f.svc.AddStudentsToTeams(f.ctx, courseID, []TeamPlacement{
		{Identifier: "S1", TeamSet: "Missing", TeamNumber: 1},
	})
	assert.True(t, errs.IsNotFound(err))
	assert.EqualError(t, err, "TeamSet not found")

	sets, err := f.svc.GetTeamSets(f.ctx, courseID)
	require.NoError(t, err)
	assert.Len(t, projectTeams(t, sets), 2)
}

func TestTAOnlySeesOwnTeams(t *testing.T) {
	f := newFixture()
	courseID := staffedCourse(t, f)

	tim, err := f.st.GetAccountByUser(f.ctx, f.user(t, "T1").ID)
	require.NoError(t, err)
	view, err := f.svc.GetCourseByID(f.ctx, courseID, tim.ID.Hex())
	require.NoError(t, err)
	teams := projectTeams(t, view.TeamSets)
	require.Len(t, teams, 1)
	assert.Equal(t, "Tim", teams[0].TA.Name)

	faculty, err := f.st.GetAccountByUser(f.ctx, f.user(t, "F1").ID)
	require.NoError(t, err)
	view, err = f.svc.GetCourseByID(f.ctx, courseID, faculty.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, projectTeams(t, view.TeamSets), 2)
	assert.Equal(t, []string{"Ana", "Raj", "Sam", "Sue"}, names(view.Students))
}

func TestDeleteCourseCascades(t *testing.T) {
	f := newFixture()
	courseID := staffedCourse(t, f)
	c := f.load(t, courseID)

	sets, err := f.st.GetTeamSets(f.ctx, c.TeamSets)
	require.NoError(t, err)
	var teamIDs []primitive.ObjectID
	for _, ts := range sets {
		teamIDs = append(teamIDs, ts.Teams...)
	}
	require.NotEmpty(t, teamIDs)

	require.NoError(t, f.svc.DeleteCourseByID(f.ctx, courseID))

	sets, err = f.st.GetTeamSets(f.ctx, c.TeamSets)
	require.NoError(t, err)
	assert.Empty(t, sets)
	teams, err := f.st.GetTeams(f.ctx, teamIDs)
	require.NoError(t, err)
	assert.Empty(t, teams)
	for _, identifier := range []string{"F1", "T1", "T2", "S1", "S2", "S3", "S4"} {
		assert.False(t, f.user(t, identifier).IsEnrolled(c.ID), identifier)
	}
	assert.Contains(t, f.pub.types(), events.CourseDeleted)

	err = f.svc.DeleteCourseByID(f.ctx, courseID)
	assert.EqualError(t, err, "Course not found")
}

func TestAssessments(t *testing.T) {
	f := newFixture()
	courseID := staffedCourse(t, f)

	ids, err := f.svc.AddAssessments(f.ctx, courseID, []AssessmentRecord{
		{AssessmentType: "Demo", MarkType: "Percentage", Granularity: entity.GranularityTeam, TeamSetName: "Project"},
		{AssessmentType: "Quiz", MarkType: "Points", Granularity: entity.GranularityIndividual, TeamSetName: "Project"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)

	demo, err := f.svc.GetAssessmentByID(f.ctx, ids[0].Hex())
	require.NoError(t, err)
	require.Len(t, demo.Results, 2)
	assert.Equal(t, "Project", demo.TeamSet.Name)
	assert.Equal(t, 1, demo.Results[0].Team.Number)
	assert.Equal(t, "Tim", demo.Results[0].Marker.Name)
	assert.Len(t, demo.Results[0].Marks, 2)

	quiz, err := f.svc.GetAssessmentByID(f.ctx, ids[1].Hex())
	require.NoError(t, err)
	assert.Len(t, quiz.Results, 4)
	for _, r := range quiz.Results {
		assert.Len(t, r.Marks, 1)
	}

	all, err := f.svc.GetAssessments(f.ctx, courseID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.svc.AddAssessments(f.ctx, courseID, []AssessmentRecord{
		{AssessmentType: "x", MarkType: "y", Granularity: entity.GranularityTeam, TeamSetName: "Nope"},
	})
	assert.EqualError(t, err, "TeamSet not found")
}

func TestUploadResultsAndMarker(t *testing.T) {
	f := newFixture()
	courseID := staffedCourse(t, f)
	ids, err := f.svc.AddAssessments(f.ctx, courseID, []AssessmentRecord{
		{AssessmentType: "Demo", MarkType: "Percentage", Granularity: entity.GranularityTeam, TeamSetName: "Project"},
	})
	require.NoError(t, err)
	aid := ids[0].Hex()

	require.NoError(t, f.svc.UploadAssessmentResults(f.ctx, aid, []ResultItem{
		{StudentID: "S1", Mark: 88},
		{StudentID: "nobody", Mark: 10},
	}))
	a, err := f.svc.loadAssessment(f.ctx, aid)
	require.NoError(t, err)
	var got float64
	for _, r := range a.Results {
		for _, m := range r.Marks {
			if m.User == "S1" {
				got = m.Mark
			}
		}
	}
	assert.Equal(t, 88.0, got)

	tara := f.user(t, "T2")
	rid := a.Results[0].ID.Hex()
	require.NoError(t, f.svc.UpdateResultMarker(f.ctx, aid, rid, tara.ID.Hex()))
	view, err := f.svc.GetAssessmentByID(f.ctx, aid)
	require.NoError(t, err)
	assert.Equal(t, "Tara", view.Results[0].Marker.Name)

	err = f.svc.UpdateResultMarker(f.ctx, aid, primitive.NewObjectID().Hex(), tara.ID.Hex())
	assert.EqualError(t, err, "Result not found")
	err = f.svc.UpdateResultMarker(f.ctx, aid, rid, "bogus")
	assert.True(t, errs.IsBadRequest(err))
	err = f.svc.UploadAssessmentResults(f.ctx, primitive.NewObjectID().Hex(), nil)
	assert.EqualError(t, err, "Assessment not found")
}

func TestApproveAccounts(t *testing.T) {
	f := newFixture()
	courseID, _ := f.course(t)
	_, err := f.svc.AddStudentsToCourse(f.ctx, courseID, []PersonRecord{{Identifier: "S1", Name: "Sam", Email: "sam@uni.edu"}})
	require.NoError(t, err)

	pending, err := f.svc.GetPendingAccounts(f.ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Sam", pending[0].User.Name)

	err = f.svc.ApproveAccounts(f.ctx, []string{"bogus"})
	assert.True(t, errs.IsBadRequest(err))
	err = f.svc.ApproveAccounts(f.ctx, []string{pending[0].ID.Hex(), primitive.NewObjectID().Hex()})
	assert.EqualError(t, err, "Account not found")

	require.NoError(t, f.svc.ApproveAccounts(f.ctx, []string{pending[0].ID.Hex()}))
	pending, err = f.svc.GetPendingAccounts(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.Equal(t, []string{"kc-S1"}, f.prov.enabled)
}

func TestUpsertJiraBoard(t *testing.T) {
	f := newFixture()
	courseID := staffedCourse(t, f)
	sets, err := f.svc.GetTeamSets(f.ctx, courseID)
	require.NoError(t, err)
	team := projectTeams(t, sets)[0]

	board := &entity.JiraBoard{JiraID: 42, Name: "PROJ board"}
	id, err := f.svc.UpsertJiraBoard(f.ctx, team.ID.Hex(), board)
	require.NoError(t, err)

	again, err := f.svc.UpsertJiraBoard(f.ctx, team.ID.Hex(), &entity.JiraBoard{JiraID: 42, Name: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	got, err := f.svc.GetJiraBoard(f.ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name)
	require.NotNil(t, got.Course)
	assert.Equal(t, courseID, got.Course.Hex())

	linked, err := f.st.GetTeam(f.ctx, team.ID)
	require.NoError(t, err)
	require.NotNil(t, linked.Board)
	assert.Equal(t, id, *linked.Board)

	_, err = f.svc.UpsertJiraBoard(f.ctx, team.ID.Hex(), &entity.JiraBoard{})
	assert.True(t, errs.IsBadRequest(err))
	_, err = f.svc.UpsertJiraBoard(f.ctx, primitive.NewObjectID().Hex(), &entity.JiraBoard{JiraID: 7})
	assert.EqualError(t, err, "Team not found")
	_, err = f.svc.GetJiraBoard(f.ctx, primitive.NewObjectID().Hex())
	assert.EqualError(t, err, "Jira board not found")
}

func TestGetCourseCode(t *testing.T) {
	f := newFixture()
	courseID, _ := f.course(t)

	code, err := f.svc.GetCourseCode(f.ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, "CS3203", code)
}
