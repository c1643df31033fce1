package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	GranularityTeam       = "team"
	GranularityIndividual = "individual"
)

type Assessment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Course         primitive.ObjectID `bson:"course" json:"course"`
	AssessmentType string             `bson:"assessmentType" json:"assessmentType"`
	MarkType       string             `bson:"markType" json:"markType"`
	Frequency      string             `bson:"frequency" json:"frequency"`
	Granularity    string             `bson:"granularity" json:"granularity"`
	TeamSet        primitive.ObjectID `bson:"teamSet" json:"teamSet"`
	FormLink       string             `bson:"formLink,omitempty" json:"formLink,omitempty"`
	Results        []Result           `bson:"results" json:"results"`
}

type Result struct {
	ID     primitive.ObjectID  `bson:"_id" json:"_id"`
	Team   *primitive.ObjectID `bson:"team,omitempty" json:"team,omitempty"`
	Marker *primitive.ObjectID `bson:"marker,omitempty" json:"marker,omitempty"`
	Marks  []Mark              `bson:"marks" json:"marks"`
}

// Mark.User is the student's identifier, not the user document id.
type Mark struct {
	User string  `bson:"user" json:"user"`
	Name string  `bson:"name" json:"name"`
	Mark float64 `bson:"mark" json:"mark"`
}

func (a *Assessment) Result(id primitive.ObjectID) *Result {
	for i := range a.Results {
		if a.Results[i].ID == id {
			return &a.Results[i]
		}
	}
	return nil
}
