package repository

import (
	"context"

	"devconnect/internal/domain"
)

// ProfileRepository stores one profile document per user.
type ProfileRepository interface {
	Init(ctx context.Context) error
	GetByUser(ctx context.Context, userID string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	// Save inserts or replaces the whole document keyed by UserID.
	Save(ctx context.Context, profile *domain.Profile) error
}
