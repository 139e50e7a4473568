package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`
	Role         Role               `bson:"role" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserFilter 为空时不做任何限制
type UserFilter struct {
	Email string
}

func (f UserFilter) Unrestricted() bool {
	return f.Email == ""
}

func (f UserFilter) Matches(u *User) bool {
	return f.Unrestricted() || u.Email == f.Email
}
