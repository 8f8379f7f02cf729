package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"devconnect/internal/domain"
	"devconnect/internal/repository"
)

// TextInput is the body of a new post or comment.
type TextInput struct {
	Text string `json:"text" validate:"required"`
}

// PostService coordinates post, like and comment operations. Every mutation
// is a read-modify-write of the whole post without a version check.
type PostService interface {
	Create(ctx context.Context, userID string, in TextInput) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	Get(ctx context.Context, postID string) (*domain.Post, error)
	Delete(ctx context.Context, userID, postID string) error
	Like(ctx context.Context, userID, postID string) ([]domain.Like, error)
	Unlike(ctx context.Context, userID, postID string) ([]domain.Like, error)
	AddComment(ctx context.Context, userID, postID string, in TextInput) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, userID, postID, commentID string) ([]domain.Comment, error)
}

type postService struct {
	posts repository.PostRepository
	users repository.UserRepository
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository) PostService {
	return &postService{
		posts: posts,
		users: users,
	}
}

func (s *postService) Create(ctx context.Context, userID string, in TextInput) (*domain.Post, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	author := user.AsAuthor()

	post := &domain.Post{
		ID:           uuid.NewString(),
		Text:         in.Text,
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		Likes:        []domain.Like{},
		Comments:     []domain.Comment{},
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) List(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

func (s *postService) Get(ctx context.Context, postID string) (*domain.Post, error) {
	return s.posts.Get(ctx, postID)
}

func (s *postService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return domain.ErrForbidden
	}
	return s.posts.Delete(ctx, postID)
}

func (s *postService) Like(ctx context.Context, userID, postID string) ([]domain.Like, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := post.Like(userID); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (s *postService) Unlike(ctx context.Context, userID, postID string) ([]domain.Like, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := post.Unlike(userID); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post.Likes, nil
}

func (s *postService) AddComment(ctx context.Context, userID, postID string, in TextInput) ([]domain.Comment, error) {
	in.Text = strings.TrimSpace(in.Text)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	author := user.AsAuthor()

	post.AddComment(domain.Comment{
		ID:           uuid.NewString(),
		Text:         in.Text,
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.Avatar,
		CreatedAt:    time.Now().UTC(),
	})
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post.Comments, nil
}

func (s *postService) DeleteComment(ctx context.Context, userID, postID, commentID string) ([]domain.Comment, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := post.RemoveComment(commentID, userID); err != nil {
		return nil, err
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post.Comments, nil
}
