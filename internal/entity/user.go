package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

type User struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Identifier      string               `bson:"identifier" json:"identifier"`
	Name            string               `bson:"name" json:"name"`
	GitHandle       string               `bson:"gitHandle,omitempty" json:"gitHandle,omitempty"`
	EnrolledCourses []primitive.ObjectID `bson:"enrolledCourses" json:"enrolledCourses"`
}

// IsEnrolled reports whether courseID is in the user's enrolled list.
func (u *User) IsEnrolled(courseID primitive.ObjectID) bool {
	return ContainsID(u.EnrolledCourses, courseID)
}
