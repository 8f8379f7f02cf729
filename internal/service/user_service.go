package service

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"devconnect/internal/domain"
	"devconnect/internal/repository"
	"devconnect/internal/storage"
)

// TokenIssuer signs bearer tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

// LoginInput carries the sign-in form.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AvatarUpload is an image supplied by the user to replace their gravatar.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (string, error)
	Login(ctx context.Context, in LoginInput) (string, error)
	Current(ctx context.Context, userID string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID string, upload AvatarUpload) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// UserServiceConfig tunes hashing and avatar storage.
type UserServiceConfig struct {
	BcryptCost int
	// AvatarPrefix is the object key prefix for uploaded avatars.
	AvatarPrefix string
	// Storage may be nil, in which case avatar uploads are rejected.
	Storage storage.Service
	Logger  *logrus.Logger
}

type userService struct {
	users    repository.UserRepository
	accounts repository.AccountRepository
	tokens   TokenIssuer
	cfg      UserServiceConfig
}

func NewUserService(users repository.UserRepository, accounts repository.AccountRepository, tokens TokenIssuer, cfg UserServiceConfig) UserService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 10
	}
	if cfg.AvatarPrefix == "" {
		cfg.AvatarPrefix = "avatars"
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &userService{
		users:    users,
		accounts: accounts,
		tokens:   tokens,
		cfg:      cfg,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return "", err
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		AvatarURL:    GravatarURL(in.Email),
	}
	// the unique index still guards against a concurrent registration
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	return s.tokens.Issue(user.ID)
}

func (s *userService) Login(ctx context.Context, in LoginInput) (string, error) {
	in.Email = normalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID)
}

func (s *userService) Current(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

var avatarExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (s *userService) UpdateAvatar(ctx context.Context, userID string, upload AvatarUpload) (*domain.User, error) {
	if s.cfg.Storage == nil {
		return nil, storage.ErrNotConfigured
	}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	ext, ok := avatarExtensions[contentType]
	if !ok {
		return nil, domain.NewValidationError("avatar", "avatar must be a png, jpeg, gif or webp image")
	}
	if upload.Body == nil {
		return nil, domain.NewValidationError("avatar", "avatar is required")
	}

	// make sure the user still exists before paying for the upload
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	key := path.Join(s.cfg.AvatarPrefix, userID, uuid.NewString()+ext)
	url, err := s.cfg.Storage.Upload(ctx, key, contentType, upload.Body)
	if err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}
	if err := s.users.UpdateAvatar(ctx, userID, url); err != nil {
		return nil, err
	}
	return s.Current(ctx, userID)
}

func (s *userService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.accounts.DeleteCascade(ctx, userID); err != nil {
		return err
	}

	if s.cfg.Storage != nil {
		prefix := path.Join(s.cfg.AvatarPrefix, userID) + "/"
		if err := s.cfg.Storage.DeletePrefix(ctx, prefix); err != nil {
			s.cfg.Logger.WithError(err).WithField("user_id", userID).Warn("remove stored avatars")
		}
	}
	return nil
}

// GravatarURL derives the default avatar for an email address.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(normalizeEmail(email)))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?d=mm&r=pg&s=200"
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
