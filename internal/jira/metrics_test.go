package jira

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"multi-git-dashboard/internal/entity"
)

func points(v float64) *float64 { return &v }

func issue(assignee string, sp *float64, status, resolution string) entity.JiraIssue {
	i := entity.JiraIssue{StoryPoints: sp}
	if assignee != "" {
		i.Fields.Assignee = &entity.JiraUser{DisplayName: assignee}
	}
	if status != "" {
		i.Fields.Status = &entity.JiraNamed{Name: status}
	}
	if resolution != "" {
		i.Fields.Resolution = &entity.JiraNamed{Name: resolution}
	}
	return i
}

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func assignees(rows []AssigneeStats) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Assignee
	}
	return out
}

var _ = Describe("Jira metrics", func() {
	var sprints []entity.JiraSprint

	BeforeEach(func() {
		sprints = []entity.JiraSprint{
			{
				Name:    "Sprint 1",
				State:   entity.SprintClosed,
				EndDate: day(7),
				JiraIssues: []entity.JiraIssue{
					issue("bob", points(3), "Done", "Done"),
					issue("Alice", points(5), "Done", "Done"),
					issue("", points(2), "To Do", ""),
				},
			},
			{
				Name:    "Sprint 2",
				State:   entity.SprintActive,
				EndDate: day(14),
				JiraIssues: []entity.JiraIssue{
					issue("Alice", points(8), "In Progress", ""),
					issue("Alice", nil, "done", "Done"),
					issue("Carol", points(1), "Blocked", ""),
				},
			},
			{
				Name:    "Sprint 3",
				State:   entity.SprintFuture,
				EndDate: day(21),
				JiraIssues: []entity.JiraIssue{
					issue("Alice", points(13), "To Do", ""),
				},
			},
		}
	})

	Describe("AssigneeStatsBySprint", func() {
		It("skips future sprints and orders tables newest first", func() {
			tables := AssigneeStatsBySprint(sprints)

			Expect(tables).To(HaveLen(2))
			Expect(tables[0].EndDate).To(Equal(day(14)))
			Expect(tables[1].EndDate).To(Equal(day(7)))
		})

		It("sorts assignees by name with Unassigned then Total last", func() {
			rows := AssigneeStatsBySprint(sprints)[1].Rows

			Expect(assignees(rows)).To(Equal([]string{"Alice", "bob", Unassigned, Total}))
		})

		It("totals issues and story points", func() {
			rows := AssigneeStatsBySprint(sprints)[0].Rows
			total := rows[len(rows)-1]

			Expect(total.Assignee).To(Equal(Total))
			Expect(total.Issues).To(Equal(3))
			Expect(total.StoryPoints).To(BeNumerically("==", 9))
			Expect(total.StoryPointsPerIssue).To(BeNumerically("==", 3))
		})

		It("counts missing story points as zero", func() {
			alice := AssigneeStatsBySprint(sprints)[0].Rows[0]

			Expect(alice.Assignee).To(Equal("Alice"))
			Expect(alice.Issues).To(Equal(2))
			Expect(alice.StoryPoints).To(BeNumerically("==", 8))
			Expect(alice.StoryPointsPerIssue).To(BeNumerically("==", 4))
		})

		It("returns no tables when every sprint is in the future", func() {
			Expect(AssigneeStatsBySprint(sprints[2:])).To(BeEmpty())
		})
	})

	Describe("OnTarget", func() {
		It("compares against sixteen hours per issue", func() {
			Expect(AssigneeStats{StoryPointsPerIssue: 4}.OnTarget(4)).To(BeTrue())
			Expect(AssigneeStats{StoryPointsPerIssue: 4.5}.OnTarget(4)).To(BeFalse())
			Expect(AssigneeStats{StoryPointsPerIssue: 8}.OnTarget(2)).To(BeTrue())
		})

		It("falls back to the default estimate", func() {
			Expect(AssigneeStats{StoryPointsPerIssue: 4}.OnTarget(0)).To(BeTrue())
			Expect(AssigneeStats{StoryPointsPerIssue: 5}.OnTarget(0)).To(BeFalse())
		})
	})

	Describe("Velocity", func() {
		It("summarises started sprints oldest first", func() {
			report := Velocity([]entity.JiraSprint{sprints[1], sprints[2], sprints[0]})

			Expect(report.Sprints).To(HaveLen(2))
			Expect(report.Sprints[0].EndDate).To(Equal(day(7)))
			Expect(report.Sprints[0].IssuesCommitment).To(Equal(3))
			Expect(report.Sprints[0].StoryPointsCommitment).To(BeNumerically("==", 10))
			Expect(report.Sprints[0].IssuesCompleted).To(Equal(2))
			Expect(report.Sprints[0].StoryPointsCompleted).To(BeNumerically("==", 8))
			Expect(report.Sprints[1].IssuesCompleted).To(Equal(1))
			Expect(report.Sprints[1].StoryPointsCompleted).To(BeNumerically("==", 0))
		})

		It("averages completed work across sprints", func() {
			report := Velocity(sprints)

			Expect(report.StoryPointsVelocity).To(BeNumerically("==", 4))
			Expect(report.IssuesVelocity).To(BeNumerically("==", 1.5))
		})

		It("is zero without started sprints", func() {
			report := Velocity(nil)

			Expect(report.Sprints).To(BeEmpty())
			Expect(report.StoryPointsVelocity).To(BeZero())
			Expect(report.IssuesVelocity).To(BeZero())
		})
	})

	Describe("ActiveSprintBoard", func() {
		var board *entity.JiraBoard

		BeforeEach(func() {
			board = &entity.JiraBoard{
				Columns: []entity.JiraColumn{
					{Name: "To Do"},
					{Name: "In Progress"},
					{Name: "Done"},
				},
				JiraSprints: sprints,
			}
		})

		It("groups active issues by case-insensitive status", func() {
			columns := ActiveSprintBoard(board)

			Expect(columns).To(HaveLen(3))
			Expect(columns[0].Issues).To(BeEmpty())
			Expect(columns[1].Issues).To(HaveLen(1))
			Expect(columns[2].Issues).To(HaveLen(1))
			Expect(columns[2].Issues[0].Fields.Status.Name).To(Equal("done"))
		})

		It("is nil without an active sprint", func() {
			board.JiraSprints = sprints[:1]
			Expect(ActiveSprintBoard(board)).To(BeNil())
			Expect(ActiveSprintBoard(nil)).To(BeNil())
		})
	})

	Describe("NameLess", func() {
		It("ignores case", func() {
			Expect(NameLess("alice", "Bob")).To(BeTrue())
			Expect(NameLess("Bob", "alice")).To(BeFalse())
		})
	})
})
