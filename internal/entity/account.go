package entity

import "go.mongodb.org/mongo-driver/bson/primitive"

type Role string

const (
	RoleStudent Role = "Student"
	RoleTA      Role = "Teaching assistant"
	RoleFaculty Role = "Faculty member"
	RoleAdmin   Role = "admin"
)

type Account struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email      string             `bson:"email" json:"email"`
	Role       Role               `bson:"role" json:"role"`
	IsApproved bool               `bson:"isApproved" json:"isApproved"`
	User       primitive.ObjectID `bson:"user" json:"user"`
	KeycloakID string             `bson:"keycloakId,omitempty" json:"-"`
}
