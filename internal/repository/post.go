package repository

import (
	"context"

	"devconnect/internal/domain"
)

// PostRepository persists posts with their embedded likes and comments.
type PostRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, post *domain.Post) error
	Get(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	// Save overwrites the mutable parts of an existing post. There is no
	// version check; the last writer wins.
	Save(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}
