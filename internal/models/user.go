package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role is absent for regular accounts and "admin" for administrators.
type Role string

const (
	RoleNone  Role = ""
	RoleAdmin Role = "admin"
)

type User struct {
	ID    primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name  string             `json:"name,omitempty" bson:"name,omitempty"`
	Email string             `json:"email" bson:"email"`
	Photo string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Role  Role               `json:"role,omitempty" bson:"role,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Registration is the body accepted by user sign-up. Role is deliberately absent:
// it can only be granted through the admin route.
type Registration struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required,email"`
	Photo string `json:"photo"`
}

func (r Registration) User() User {
	return User{Name: r.Name, Email: r.Email, Photo: r.Photo}
}
