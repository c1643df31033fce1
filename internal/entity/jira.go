package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	SprintActive = "active"
	SprintClosed = "closed"
	SprintFuture = "future"
)

type JiraBoard struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	JiraID       int64               `bson:"jiraId" json:"jiraId"`
	Name         string              `bson:"name" json:"name"`
	Type         string              `bson:"type" json:"type"`
	JiraLocation JiraLocation        `bson:"jiraLocation" json:"jiraLocation"`
	Columns      []JiraColumn        `bson:"columns" json:"columns"`
	JiraSprints  []JiraSprint        `bson:"jiraSprints" json:"jiraSprints"`
	Course       *primitive.ObjectID `bson:"course,omitempty" json:"course,omitempty"`
}

type JiraLocation struct {
	ProjectID   int64  `bson:"projectId" json:"projectId"`
	ProjectName string `bson:"projectName" json:"projectName"`
	ProjectKey  string `bson:"projectKey" json:"projectKey"`
}

type JiraColumn struct {
	Name string `bson:"name" json:"name"`
}

type JiraSprint struct {
	JiraID     int64       `bson:"jiraId" json:"jiraId"`
	Name       string      `bson:"name" json:"name"`
	State      string      `bson:"state" json:"state"`
	StartDate  time.Time   `bson:"startDate" json:"startDate"`
	EndDate    time.Time   `bson:"endDate" json:"endDate"`
	JiraIssues []JiraIssue `bson:"jiraIssues" json:"jiraIssues"`
}

type JiraIssue struct {
	JiraID      string          `bson:"jiraId" json:"jiraId"`
	Key         string          `bson:"key" json:"key"`
	StoryPoints *float64        `bson:"storyPoints,omitempty" json:"storyPoints,omitempty"`
	Fields      JiraIssueFields `bson:"fields" json:"fields"`
}

type JiraIssueFields struct {
	Summary    string     `bson:"summary" json:"summary"`
	IssueType  *JiraNamed `bson:"issuetype,omitempty" json:"issuetype,omitempty"`
	Status     *JiraNamed `bson:"status,omitempty" json:"status,omitempty"`
	Resolution *JiraNamed `bson:"resolution,omitempty" json:"resolution,omitempty"`
	Assignee   *JiraUser  `bson:"assignee,omitempty" json:"assignee,omitempty"`
}

type JiraNamed struct {
	Name string `bson:"name" json:"name"`
}

type JiraUser struct {
	DisplayName string `bson:"displayName" json:"displayName"`
}
