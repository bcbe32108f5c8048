package models

import "github.com/google/uuid"

const (
	ClientRole = "client"
	TutorRole  = "tutor"
)

type User struct {
	ID              uuid.UUID
	Username        string
	Password        string
	Email           string
	AvatarObjectKey string
	Roles           []string
}

func (u *User) IsTutor() bool {
	for _, r := range u.Roles {
		if r == TutorRole {
			return true
		}
	}
	return false
}
