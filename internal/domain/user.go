package domain

import "time"

// User represents a registered member of the network.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Author is the name/avatar pair captured on posts and comments at write time.
type Author struct {
	ID     string
	Name   string
	Avatar string
}

// AsAuthor snapshots the user's current display identity.
func (u *User) AsAuthor() Author {
	return Author{ID: u.ID, Name: u.Name, Avatar: u.AvatarURL}
}
