package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"devconnect/internal/domain"
	"devconnect/internal/repository"
)

// ProfileInput is the create-or-edit profile form. Empty optional fields
// leave the stored value untouched.
type ProfileInput struct {
	Status         string `json:"status" validate:"required"`
	Skills         string `json:"skills" validate:"required"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"githubusername"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (in ProfileInput) social() map[string]string {
	return map[string]string{
		"youtube":   in.Youtube,
		"twitter":   in.Twitter,
		"facebook":  in.Facebook,
		"linkedin":  in.Linkedin,
		"instagram": in.Instagram,
	}
}

// ExperienceInput is the add-experience form.
type ExperienceInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationInput is the add-education form.
type EducationInput struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// ProfileService manages profiles and their experience/education lists.
type ProfileService interface {
	Mine(ctx context.Context, userID string) (*domain.Profile, error)
	ByUser(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	Upsert(ctx context.Context, userID string, in ProfileInput) (*domain.Profile, error)
	AddExperience(ctx context.Context, userID string, in ExperienceInput) (*domain.Profile, error)
	DeleteExperience(ctx context.Context, userID, entryID string) (*domain.Profile, error)
	AddEducation(ctx context.Context, userID string, in EducationInput) (*domain.Profile, error)
	DeleteEducation(ctx context.Context, userID, entryID string) (*domain.Profile, error)
}

type profileService struct {
	profiles repository.ProfileRepository
}

func NewProfileService(profiles repository.ProfileRepository) ProfileService {
	return &profileService{profiles: profiles}
}

func (s *profileService) Mine(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.profiles.GetByUser(ctx, userID)
}

func (s *profileService) ByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrProfileNotFound
	}
	return s.profiles.GetByUser(ctx, userID)
}

func (s *profileService) List(ctx context.Context) ([]domain.Profile, error) {
	return s.profiles.List(ctx)
}

func (s *profileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*domain.Profile, error) {
	in.Status = strings.TrimSpace(in.Status)
	in.Skills = strings.TrimSpace(in.Skills)
	if err := validateInput(in); err != nil {
		return nil, err
	}
	skills := ParseSkills(in.Skills)
	if len(skills) == 0 {
		return nil, domain.NewValidationError("skills", "skills is required")
	}

	profile, err := s.profiles.GetByUser(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		profile = &domain.Profile{
			UserID:     userID,
			Social:     map[string]string{},
			Experience: []domain.Experience{},
			Education:  []domain.Education{},
		}
	case err != nil:
		return nil, err
	}

	profile.Status = in.Status
	profile.Skills = skills
	setIfProvided(&profile.Company, in.Company)
	setIfProvided(&profile.Website, in.Website)
	setIfProvided(&profile.Location, in.Location)
	setIfProvided(&profile.Bio, in.Bio)
	setIfProvided(&profile.GithubUsername, in.GithubUsername)
	if profile.Social == nil {
		profile.Social = map[string]string{}
	}
	for platform, link := range in.social() {
		if link = strings.TrimSpace(link); link != "" {
			profile.Social[platform] = link
		}
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return s.profiles.GetByUser(ctx, userID)
}

func (s *profileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*domain.Profile, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	from, err := parseDate("from", in.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("to", in.To)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.AddExperience(domain.Experience{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	})
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) DeleteExperience(ctx context.Context, userID, entryID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := profile.RemoveExperience(entryID); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) AddEducation(ctx context.Context, userID string, in EducationInput) (*domain.Profile, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	from, err := parseDate("from", in.From)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate("to", in.To)
	if err != nil {
		return nil, err
	}

	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.AddEducation(domain.Education{
		ID:           uuid.NewString(),
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	})
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *profileService) DeleteEducation(ctx context.Context, userID, entryID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := profile.RemoveEducation(entryID); err != nil {
		return nil, err
	}
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ParseSkills splits a comma separated list, trimming each entry. Order and
// duplicates are preserved; blank fragments are skipped.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func setIfProvided(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
