package front

import (
	"fmt"
	"strings"
	"time"

	"multi-git-dashboard/internal/entity"
	"multi-git-dashboard/internal/jira"
	"multi-git-dashboard/internal/utils"
)

const defaultTab = "overview"

var tabOrder = []string{"overview", "students", "staff", "teams", "timeline", "sprints", "assessments"}

func tabLabel(id string) string {
	if id == "" {
		return ""
	}
	return strings.ToUpper(id[:1]) + id[1:]
}

func buildTabs(c *Course) []Tab {
	counts := map[string]int{
		"students":    len(c.Students),
		"staff":       len(c.Faculty) + len(c.TAs),
		"timeline":    len(c.Milestones),
		"sprints":     len(c.Sprints),
		"assessments": len(c.Assessments),
	}
	for _, ts := range c.TeamSets {
		counts["teams"] += len(ts.Teams)
	}

	return utils.Map(tabOrder, func(id string) Tab {
		return Tab{ID: id, Label: tabLabel(id), Count: counts[id]}
	})
}

func validTab(tab string) string {
	for _, id := range tabOrder {
		if id == tab {
			return tab
		}
	}
	return defaultTab
}

func pmLink(courseID, teamID string) string {
	return fmt.Sprintf("/courses/%s/teams/%s/pm", courseID, teamID)
}

// nextMilestone returns the milestone with the earliest dateline after now.
func nextMilestone(milestones []entity.Milestone, now time.Time) *entity.Milestone {
	var next *entity.Milestone
	for i := range milestones {
		m := &milestones[i]
		if m.Dateline.After(now) && (next == nil || m.Dateline.Before(next.Dateline)) {
			next = m
		}
	}
	return next
}

func buildCoursePage(c *Course, tab string, now time.Time) CoursePageVM {
	vm := CoursePageVM{
		Title:         fmt.Sprintf("%s %s", c.Code, c.Name),
		Active:        validTab(tab),
		Tabs:          buildTabs(c),
		Course:        *c,
		Staff:         append(append([]entity.User{}, c.Faculty...), c.TAs...),
		NextMilestone: nextMilestone(c.Milestones, now),
		Now:           now,
	}

	for _, ts := range c.TeamSets {
		for _, t := range ts.Teams {
			vm.Teams = append(vm.Teams, TeamRowVM{TeamSet: ts.Name, Team: t, PMLink: pmLink(c.ID, t.ID)})
		}
	}

	vm.Assessments = utils.Map(c.Assessments, func(a Assessment) AssessmentRowVM {
		row := AssessmentRowVM{Assessment: a, Results: len(a.Results)}
		if a.TeamSet != nil {
			row.TeamSet = a.TeamSet.Name
		}
		for _, r := range a.Results {
			for _, m := range r.Marks {
				if m.Mark != 0 {
					row.Marked++
					break
				}
			}
		}
		return row
	})
	return vm
}

// findTeam returns the team with id and the name of its team-set.
func findTeam(c *Course, id string) (*Team, string, bool) {
	for _, ts := range c.TeamSets {
		for i := range ts.Teams {
			if ts.Teams[i].ID == id {
				return &ts.Teams[i], ts.Name, true
			}
		}
	}
	return nil, "", false
}

func sprintTables(sprints []entity.JiraSprint, hours float64) []SprintTableVM {
	return utils.Map(jira.AssigneeStatsBySprint(sprints), func(s jira.SprintStats) SprintTableVM {
		var total float64
		if n := len(s.Rows); n > 0 {
			total = s.Rows[n-1].StoryPoints
		}
		return SprintTableVM{
			EndDate: s.EndDate,
			Rows: utils.Map(s.Rows, func(r jira.AssigneeStats) AssigneeRowVM {
				return AssigneeRowVM{AssigneeStats: r, OnTarget: r.OnTarget(hours), BarPct: utils.Percent(r.StoryPoints, total)}
			}),
		}
	})
}

func velocityBars(report jira.VelocityReport) []VelocityBarVM {
	peak := utils.Reduce(report.Sprints, 0.0, func(acc float64, s jira.SprintSummary) float64 {
		return max(acc, s.StoryPointsCommitment, s.StoryPointsCompleted)
	})
	return utils.Map(report.Sprints, func(s jira.SprintSummary) VelocityBarVM {
		return VelocityBarVM{
			SprintSummary: s,
			CommittedPct:  utils.Percent(s.StoryPointsCommitment, peak),
			CompletedPct:  utils.Percent(s.StoryPointsCompleted, peak),
		}
	})
}

// buildTeamPM derives the project management card of one team. board may be
// nil when the team has no Jira board yet.
func buildTeamPM(c *Course, team *Team, teamSet string, board *entity.JiraBoard, hours float64) TeamPMVM {
	if hours <= 0 {
		hours = jira.DefaultHoursPerStoryPoint
	}
	vm := TeamPMVM{
		Title:              fmt.Sprintf("%s Team %d", c.Code, team.Number),
		CourseID:           c.ID,
		CourseName:         c.Name,
		TeamSet:            teamSet,
		Team:               *team,
		HoursPerStoryPoint: hours,
	}
	if board == nil {
		return vm
	}

	vm.HasBoard = true
	vm.BoardName = board.Name
	vm.Sprints = sprintTables(board.JiraSprints, hours)
	vm.Velocity = jira.Velocity(board.JiraSprints)
	vm.VelocityBars = velocityBars(vm.Velocity)
	vm.Columns = jira.ActiveSprintBoard(board)
	return vm
}
