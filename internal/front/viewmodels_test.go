package front

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/jira"
)

func sampleCourse() *Course {
	day := func(d int) time.Time { return time.Date(2024, 9, d, 0, 0, 0, 0, time.UTC) }
	return &Course{
		ID:       "c1",
		Name:     "Software Engineering",
		Code:     "CS3203",
		Faculty:  []entity.User{{Name: "Faye"}},
		TAs:      []entity.User{{Name: "Tim"}},
		Students: []entity.User{{Name: "Ana"}, {Name: "Sam"}},
		TeamSets: []TeamSet{{ID: "ts1", Name: "Project", Teams: []Team{
			{ID: "t1", Number: 1, Members: []entity.User{{Name: "Ana"}}, Board: "b1"},
			{ID: "t2", Number: 2, Members: []entity.User{{Name: "Sam"}}},
		}}},
		Milestones: []entity.Milestone{
			{Number: 1, Dateline: day(1)},
			{Number: 2, Dateline: day(20)},
			{Number: 3, Dateline: day(10)},
		},
	}
}

func TestBuildCoursePage(t *testing.T) {
	now := time.Date(2024, 9, 5, 0, 0, 0, 0, time.UTC)
	vm := buildCoursePage(sampleCourse(), "teams", now)

	assert.Equal(t, "teams", vm.Active)
	assert.Equal(t, "CS3203 Software Engineering", vm.Title)
	assert.Equal(t, []string{"Faye", "Tim"}, []string{vm.Staff[0].Name, vm.Staff[1].Name})
	require.Len(t, vm.Teams, 2)
	assert.Equal(t, "/courses/c1/teams/t2/pm", vm.Teams[1].PMLink)
	require.NotNil(t, vm.NextMilestone)
	assert.Equal(t, 3, vm.NextMilestone.Number)

	counts := map[string]int{}
	for _, tab := range vm.Tabs {
		counts[tab.ID] = tab.Count
	}
	assert.Equal(t, 2, counts["students"])
	assert.Equal(t, 2, counts["teams"])
	assert.Equal(t, "Overview", vm.Tabs[0].Label)

	assert.Equal(t, defaultTab, buildCoursePage(sampleCourse(), "bogus", now).Active)
}

func TestBuildCoursePageCountsMarkedResults(t *testing.T) {
	c := sampleCourse()
	c.Assessments = []Assessment{{
		AssessmentType: "Demo",
		TeamSet:        &AssessmentTeamSet{Name: "Project"},
		Results: []AssessmentResult{
			{Marks: []entity.Mark{{User: "A1", Mark: 0}, {User: "A2", Mark: 70}}},
			{Marks: []entity.Mark{{User: "A3"}}},
		},
	}}

	vm := buildCoursePage(c, "assessments", time.Now())
	require.Len(t, vm.Assessments, 1)
	assert.Equal(t, "Project", vm.Assessments[0].TeamSet)
	assert.Equal(t, 2, vm.Assessments[0].Results)
	assert.Equal(t, 1, vm.Assessments[0].Marked)
}

func points(v float64) *float64 { return &v }

func sampleBoard() *entity.JiraBoard {
	issue := func(assignee, status string, sp float64, done bool) entity.JiraIssue {
		i := entity.JiraIssue{Key: assignee + "-" + status, StoryPoints: points(sp)}
		i.Fields.Status = &entity.JiraNamed{Name: status}
		if assignee != "" {
			i.Fields.Assignee = &entity.JiraUser{DisplayName: assignee}
		}
		if done {
			i.Fields.Resolution = &entity.JiraNamed{Name: jira.ResolutionDone}
		}
		return i
	}
	return &entity.JiraBoard{
		Name:    "PROJ board",
		Columns: []entity.JiraColumn{{Name: "To Do"}, {Name: "Done"}},
		JiraSprints: []entity.JiraSprint{
			{State: entity.SprintClosed, EndDate: time.Date(2024, 9, 14, 0, 0, 0, 0, time.UTC), JiraIssues: []entity.JiraIssue{
				issue("Ana", "Done", 2, true),
				issue("Sam", "Done", 6, true),
			}},
			{State: entity.SprintActive, EndDate: time.Date(2024, 9, 28, 0, 0, 0, 0, time.UTC), JiraIssues: []entity.JiraIssue{
				issue("Ana", "to do", 3, false),
				issue("", "done", 1, true),
			}},
			{State: entity.SprintFuture, EndDate: time.Date(2024, 10, 12, 0, 0, 0, 0, time.UTC)},
		},
	}
}

func TestBuildTeamPM(t *testing.T) {
	c := sampleCourse()
	team, set, ok := findTeam(c, "t1")
	require.True(t, ok)
	assert.Equal(t, "Project", set)

	vm := buildTeamPM(c, team, set, sampleBoard(), 0)
	assert.True(t, vm.HasBoard)
	assert.Equal(t, float64(jira.DefaultHoursPerStoryPoint), vm.HoursPerStoryPoint)

	require.Len(t, vm.Sprints, 2)
	newest := vm.Sprints[0]
	assert.Equal(t, 28, newest.EndDate.Day())
	last := newest.Rows[len(newest.Rows)-1]
	assert.Equal(t, jira.Total, last.Assignee)
	assert.Equal(t, 100.0, last.BarPct)

	closed := vm.Sprints[1]
	for _, r := range closed.Rows {
		if r.Assignee == "Sam" {
			assert.False(t, r.OnTarget, "6 points per issue exceeds 16/4")
		}
		if r.Assignee == "Ana" {
			assert.True(t, r.OnTarget)
		}
	}

	require.Len(t, vm.VelocityBars, 2)
	assert.Equal(t, 100.0, vm.VelocityBars[0].CommittedPct)
	assert.Equal(t, 100.0, vm.VelocityBars[0].CompletedPct)
	assert.Equal(t, 50.0, vm.VelocityBars[1].CommittedPct)
	assert.Equal(t, 4.5, vm.Velocity.StoryPointsVelocity)

	require.Len(t, vm.Columns, 2)
	assert.Len(t, vm.Columns[0].Issues, 1)
	assert.Len(t, vm.Columns[1].Issues, 1)

	_, _, ok = findTeam(c, "missing")
	assert.False(t, ok)
}

func TestBuildTeamPMWithoutBoard(t *testing.T) {
	c := sampleCourse()
	team, set, _ := findTeam(c, "t2")

	vm := buildTeamPM(c, team, set, nil, 8)
	assert.False(t, vm.HasBoard)
	assert.Equal(t, 8.0, vm.HoursPerStoryPoint)
	assert.Empty(t, vm.Sprints)
}
