// Package jira derives the project-management views shown for a team's
// Jira board: per-assignee sprint statistics, velocity and the active
// sprint board.
package jira

import (
	"sort"
	"strings"
	"time"

	"multi-git-dashboard/internal/entity"
)

const (
	Unassigned     = "Unassigned"
	Total          = "Total"
	ResolutionDone = "Done"

	DefaultHoursPerStoryPoint = 4
	hoursPerIssueTarget       = 16
)

type AssigneeStats struct {
	Assignee            string  `json:"assignee"`
	Issues              int     `json:"issues"`
	StoryPoints         float64 `json:"storyPoints"`
	StoryPointsPerIssue float64 `json:"storyPointsPerIssue"`
}

// OnTarget reports whether the average issue stays within the sixteen hour
// budget given the hours one story point takes.
func (s AssigneeStats) OnTarget(hoursPerStoryPoint float64) bool {
	if hoursPerStoryPoint <= 0 {
		hoursPerStoryPoint = DefaultHoursPerStoryPoint
	}
	return s.StoryPointsPerIssue <= hoursPerIssueTarget/hoursPerStoryPoint
}

type SprintStats struct {
	EndDate time.Time       `json:"endDate"`
	Rows    []AssigneeStats `json:"rows"`
}

func storyPoints(issue *entity.JiraIssue) float64 {
	if issue.StoryPoints == nil {
		return 0
	}
	return *issue.StoryPoints
}

func assigneeName(issue *entity.JiraIssue) string {
	if a := issue.Fields.Assignee; a != nil {
		return a.DisplayName
	}
	return Unassigned
}

func started(sprints []entity.JiraSprint) []entity.JiraSprint {
	out := make([]entity.JiraSprint, 0, len(sprints))
	for _, s := range sprints {
		if s.State != entity.SprintFuture {
			out = append(out, s)
		}
	}
	return out
}

// AssigneeStatsBySprint tabulates issues and story points per assignee for
// every sprint that is not in the future, newest sprint first. Sprints that
// share an end date collapse into the later one.
func AssigneeStatsBySprint(sprints []entity.JiraSprint) []SprintStats {
	byEnd := make(map[time.Time][]AssigneeStats)

	for _, sprint := range started(sprints) {
		stats := make(map[string]*AssigneeStats)
		total := AssigneeStats{Assignee: Total}

		for i := range sprint.JiraIssues {
			issue := &sprint.JiraIssues[i]
			name := assigneeName(issue)
			s, ok := stats[name]
			if !ok {
				s = &AssigneeStats{Assignee: name}
				stats[name] = s
			}
			s.Issues++
			s.StoryPoints += storyPoints(issue)

			total.Issues++
			total.StoryPoints += storyPoints(issue)
		}

		rows := make([]AssigneeStats, 0, len(stats)+1)
		for _, s := range stats {
			rows = append(rows, *s)
		}
		rows = append(rows, total)
		sort.Slice(rows, func(i, j int) bool { return assigneeLess(rows[i].Assignee, rows[j].Assignee) })

		for i := range rows {
			if rows[i].Issues > 0 {
				rows[i].StoryPointsPerIssue = rows[i].StoryPoints / float64(rows[i].Issues)
			}
		}

		byEnd[sprint.EndDate.UTC()] = rows
	}

	out := make([]SprintStats, 0, len(byEnd))
	for end, rows := range byEnd {
		out = append(out, SprintStats{EndDate: end, Rows: rows})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.After(out[j].EndDate) })
	return out
}

// assigneeLess orders named assignees alphabetically, then Unassigned,
// then Total.
func assigneeLess(a, b string) bool {
	ra, rb := tailRank(a), tailRank(b)
	if ra != rb {
		return ra < rb
	}
	if ra != 0 {
		return false
	}
	return NameLess(a, b)
}

func tailRank(name string) int {
	switch name {
	case Unassigned:
		return 1
	case Total:
		return 2
	}
	return 0
}

// NameLess compares names case-insensitively, breaking ties on the raw
// string so the order is total.
func NameLess(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return la < lb
	}
	return a < b
}

type SprintSummary struct {
	EndDate               time.Time `json:"endDate"`
	StoryPointsCommitment float64   `json:"storyPointsCommitment"`
	IssuesCommitment      int       `json:"issuesCommitment"`
	StoryPointsCompleted  float64   `json:"storyPointsCompleted"`
	IssuesCompleted       int       `json:"issuesCompleted"`
}

type VelocityReport struct {
	Sprints             []SprintSummary `json:"sprints"`
	StoryPointsVelocity float64         `json:"storyPointsVelocity"`
	IssuesVelocity      float64         `json:"issuesVelocity"`
}

// Velocity summarises commitment against completion for every sprint that is
// not in the future, oldest first. An issue counts as completed when its
// resolution is Done.
func Velocity(sprints []entity.JiraSprint) VelocityReport {
	report := VelocityReport{Sprints: make([]SprintSummary, 0, len(sprints))}

	for _, sprint := range started(sprints) {
		summary := SprintSummary{EndDate: sprint.EndDate}
		for i := range sprint.JiraIssues {
			issue := &sprint.JiraIssues[i]
			summary.IssuesCommitment++
			summary.StoryPointsCommitment += storyPoints(issue)

			if r := issue.Fields.Resolution; r != nil && r.Name == ResolutionDone {
				summary.IssuesCompleted++
				summary.StoryPointsCompleted += storyPoints(issue)
			}
		}
		report.Sprints = append(report.Sprints, summary)
	}

	sort.SliceStable(report.Sprints, func(i, j int) bool {
		return report.Sprints[i].EndDate.Before(report.Sprints[j].EndDate)
	})

	if n := len(report.Sprints); n > 0 {
		var points float64
		var issues int
		for _, s := range report.Sprints {
			points += s.StoryPointsCompleted
			issues += s.IssuesCompleted
		}
		report.StoryPointsVelocity = points / float64(n)
		report.IssuesVelocity = float64(issues) / float64(n)
	}
	return report
}

type BoardColumn struct {
	Name   string             `json:"name"`
	Issues []entity.JiraIssue `json:"issues"`
}

func ActiveSprint(sprints []entity.JiraSprint) *entity.JiraSprint {
	for i := range sprints {
		if sprints[i].State == entity.SprintActive {
			return &sprints[i]
		}
	}
	return nil
}

// ActiveSprintBoard places the active sprint's issues into the board's
// columns by case-insensitive status name. Issues whose status matches no
// column are left out. It returns nil when no sprint is active.
func ActiveSprintBoard(board *entity.JiraBoard) []BoardColumn {
	if board == nil {
		return nil
	}
	sprint := ActiveSprint(board.JiraSprints)
	if sprint == nil {
		return nil
	}

	columns := make([]BoardColumn, len(board.Columns))
	for i, col := range board.Columns {
		columns[i] = BoardColumn{Name: col.Name, Issues: []entity.JiraIssue{}}
	}

	for _, issue := range sprint.JiraIssues {
		if issue.Fields.Status == nil {
			continue
		}
		for i := range columns {
			if strings.EqualFold(issue.Fields.Status.Name, columns[i].Name) {
				columns[i].Issues = append(columns[i].Issues, issue)
			}
		}
	}
	return columns
}
