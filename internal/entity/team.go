package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TeamSet struct {
	ID     primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name   string               `bson:"name" json:"name"`
	Course primitive.ObjectID   `bson:"course" json:"course"`
	Teams  []primitive.ObjectID `bson:"teams" json:"teams"`
}

type Team struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Number   int                  `bson:"number" json:"number"`
	TeamSet  primitive.ObjectID   `bson:"teamSet" json:"teamSet"`
	Members  []primitive.ObjectID `bson:"members" json:"members"`
	TA       *primitive.ObjectID  `bson:"TA,omitempty" json:"TA,omitempty"`
	TeamData *primitive.ObjectID  `bson:"teamData,omitempty" json:"teamData,omitempty"`
	Board    *primitive.ObjectID  `bson:"board,omitempty" json:"board,omitempty"`
}

// TeamData holds repository statistics collected for a team. This service
// only reads it.
type TeamData struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	GitHubOrgName string             `bson:"gitHubOrgName" json:"gitHubOrgName"`
	RepoName      string             `bson:"repoName" json:"repoName"`
	Commits       int                `bson:"commits" json:"commits"`
	Issues        int                `bson:"issues" json:"issues"`
	PullRequests  int                `bson:"pullRequests" json:"pullRequests"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
