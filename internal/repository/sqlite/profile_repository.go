package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"devconnect/internal/domain"
	"devconnect/internal/repository"
)

const createProfilesTable = `
CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	company TEXT NOT NULL DEFAULT '',
	website TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	bio TEXT NOT NULL DEFAULT '',
	github_username TEXT NOT NULL DEFAULT '',
	skills TEXT NOT NULL DEFAULT '[]',
	social TEXT NOT NULL DEFAULT '{}',
	experience TEXT NOT NULL DEFAULT '[]',
	education TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

const selectProfile = `
SELECT p.user_id, p.status, p.company, p.website, p.location, p.bio, p.github_username,
	p.skills, p.social, p.experience, p.education, p.created_at, p.updated_at,
	COALESCE(u.name, ''), COALESCE(u.avatar_url, '')
FROM profiles p
LEFT JOIN users u ON u.id = p.user_id`

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createProfilesTable); err != nil {
		return fmt.Errorf("create profiles table: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByUser(ctx context.Context, userID string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, selectProfile+`
WHERE p.user_id = ?`, userID)
	return scanProfile(row)
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, selectProfile+`
ORDER BY p.rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.Profile{}
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO profiles (user_id, status, company, website, location, bio, github_username, skills, social, experience, education, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
	status=excluded.status,
	company=excluded.company,
	website=excluded.website,
	location=excluded.location,
	bio=excluded.bio,
	github_username=excluded.github_username,
	skills=excluded.skills,
	social=excluded.social,
	experience=excluded.experience,
	education=excluded.education,
	updated_at=excluded.updated_at`,
		profile.UserID,
		profile.Status,
		profile.Company,
		profile.Website,
		profile.Location,
		profile.Bio,
		profile.GithubUsername,
		doc(nonNil(profile.Skills)),
		doc(socialOrEmpty(profile.Social)),
		doc(nonNil(profile.Experience)),
		doc(nonNil(profile.Education)),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		// the owning user row is gone
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var (
		profile    domain.Profile
		skills     document[[]string]
		social     document[map[string]string]
		experience document[[]domain.Experience]
		education  document[[]domain.Education]
		owner      domain.Author
	)
	if err := row.Scan(
		&profile.UserID,
		&profile.Status,
		&profile.Company,
		&profile.Website,
		&profile.Location,
		&profile.Bio,
		&profile.GithubUsername,
		&skills,
		&social,
		&experience,
		&education,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&owner.Name,
		&owner.Avatar,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	profile.Skills = nonNil(skills.V)
	profile.Social = social.V
	if profile.Social == nil {
		profile.Social = map[string]string{}
	}
	profile.Experience = nonNil(experience.V)
	profile.Education = nonNil(education.V)
	owner.ID = profile.UserID
	profile.Owner = &owner
	return &profile, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func socialOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
