package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devconnect/internal/auth"
	"devconnect/internal/repository"
	"devconnect/internal/repository/sqlite"
)

type fixture struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	tokens   *auth.TokenIssuer
	storage  *fakeStorage

	userSvc    UserService
	profileSvc ProfileService
	postSvc    PostService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "svc.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		users:    sqlite.NewUserRepository(db),
		profiles: sqlite.NewProfileRepository(db),
		posts:    sqlite.NewPostRepository(db),
		storage:  newFakeStorage(),
	}
	require.NoError(t, f.users.Init(ctx))
	require.NoError(t, f.profiles.Init(ctx))
	require.NoError(t, f.posts.Init(ctx))

	f.tokens, err = auth.NewTokenIssuer([]byte("test-secret"), auth.DefaultTokenTTL)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	f.userSvc = NewUserService(f.users, sqlite.NewAccountRepository(db), f.tokens, UserServiceConfig{
		BcryptCost: bcrypt.MinCost,
		Storage:    f.storage,
		Logger:     logger,
	})
	f.profileSvc = NewProfileService(f.profiles)
	f.postSvc = NewPostService(f.posts, f.users)
	return f
}

// register creates a user and returns its id.
func (f *fixture) register(t *testing.T, name, email string) string {
	t.Helper()
	token, err := f.userSvc.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	id, err := f.tokens.Verify(token)
	require.NoError(t, err)
	return id
}

type fakeStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	deleted  []string
	failNext error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key, _ string, body io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	s.objects[key] = buf.Bytes()
	return "https://cdn.test/" + key, nil
}

func (s *fakeStorage) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, prefix)
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
		}
	}
	return nil
}
