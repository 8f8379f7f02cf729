package http

import (
	"time"

	"devconnect/internal/domain"
)

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	CreatedAt string `json:"date"`
}

type OwnerResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type ProfileResponse struct {
	User           *OwnerResponse      `json:"user"`
	Status         string              `json:"status"`
	Company        string              `json:"company,omitempty"`
	Website        string              `json:"website,omitempty"`
	Location       string              `json:"location,omitempty"`
	Bio            string              `json:"bio,omitempty"`
	GithubUsername string              `json:"githubusername,omitempty"`
	Skills         []string            `json:"skills"`
	Social         map[string]string   `json:"social"`
	Experience     []domain.Experience `json:"experience"`
	Education      []domain.Education  `json:"education"`
	CreatedAt      string              `json:"date"`
	UpdatedAt      string              `json:"updated_at"`
}

type PostResponse struct {
	ID        string           `json:"id"`
	Text      string           `json:"text"`
	User      string           `json:"user"`
	Name      string           `json:"name"`
	Avatar    string           `json:"avatar"`
	Likes     []domain.Like    `json:"likes"`
	Comments  []domain.Comment `json:"comments"`
	CreatedAt string           `json:"date"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.AvatarURL,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func profileToResponse(profile domain.Profile) ProfileResponse {
	resp := ProfileResponse{
		Status:         profile.Status,
		Company:        profile.Company,
		Website:        profile.Website,
		Location:       profile.Location,
		Bio:            profile.Bio,
		GithubUsername: profile.GithubUsername,
		Skills:         orEmpty(profile.Skills),
		Social:         profile.Social,
		Experience:     orEmpty(profile.Experience),
		Education:      orEmpty(profile.Education),
		CreatedAt:      profile.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      profile.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Social == nil {
		resp.Social = map[string]string{}
	}
	if profile.Owner != nil {
		resp.User = &OwnerResponse{
			ID:     profile.Owner.ID,
			Name:   profile.Owner.Name,
			Avatar: profile.Owner.Avatar,
		}
	} else {
		resp.User = &OwnerResponse{ID: profile.UserID}
	}
	return resp
}

func postToResponse(post domain.Post) PostResponse {
	return PostResponse{
		ID:        post.ID,
		Text:      post.Text,
		User:      post.AuthorID,
		Name:      post.AuthorName,
		Avatar:    post.AuthorAvatar,
		Likes:     orEmpty(post.Likes),
		Comments:  orEmpty(post.Comments),
		CreatedAt: post.CreatedAt.Format(time.RFC3339),
	}
}

// orEmpty keeps empty lists serialized as [] rather than null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
