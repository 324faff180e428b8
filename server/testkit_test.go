package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quill/auth"
	"quill/config"
	"quill/models"
	"quill/repository"
)

// newTestServer builds a Server wired to in-memory fakes instead of MongoDB.
func newTestServer() *Server {
	users := newFakeUserRepo()
	return &Server{
		config:     &config.Config{Port: "0", JWTSecret: "test-secret-key"},
		logger:     slog.New(slog.NewJSONHandler(io.Discard, nil)),
		tokens:     auth.NewTokenService("test-secret-key"),
		userRepo:   users,
		blogRepo:   newFakeBlogRepo(users),
		healthRepo: &fakeHealthRepo{},
		started:    time.Now(),
	}
}

// newTestApp mounts the real routes and error handler on a bare Fiber app.
func newTestApp(s *Server) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: s.errorHandler})
	s.setupRoutes(app)
	app.Use(s.notFound)
	return app
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func readEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func dataAsMap(t *testing.T, env envelope) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &m))
	return m
}

func dataIsNull(env envelope) bool {
	return len(env.Data) == 0 || string(env.Data) == "null"
}

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
	err   error // when set, every call fails with it
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	user.Date = time.Now()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByEmailOrUsername(_ context.Context, email, username string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Username match wins so the handler's precedence rule is observable.
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, nil
}

// fakeBlogRepo is an in-memory BlogRepository expanding authors from the
// user fake, with the same atomic match-then-mutate contract as the real one.
type fakeBlogRepo struct {
	users *fakeUserRepo
	blogs map[primitive.ObjectID]*models.Blog
	err   error
}

func newFakeBlogRepo(users *fakeUserRepo) *fakeBlogRepo {
	return &fakeBlogRepo{users: users, blogs: make(map[primitive.ObjectID]*models.Blog)}
}

func (f *fakeBlogRepo) Create(_ context.Context, blog *models.Blog) (*models.Blog, error) {
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now()
	blog.ID = primitive.NewObjectID()
	blog.CreatedAt = now
	blog.UpdatedAt = now
	f.blogs[blog.ID] = blog
	return blog, nil
}

func (f *fakeBlogRepo) expand(blog *models.Blog) *models.BlogWithAuthor {
	author, ok := f.users.users[blog.Author]
	if !ok {
		return nil
	}
	return &models.BlogWithAuthor{
		ID:        blog.ID,
		Title:     blog.Title,
		Content:   blog.Content,
		Img:       blog.Img,
		Author:    *author,
		CreatedAt: blog.CreatedAt,
		UpdatedAt: blog.UpdatedAt,
	}
}

func (f *fakeBlogRepo) List(_ context.Context) ([]models.BlogWithAuthor, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.BlogWithAuthor{}
	for _, b := range f.blogs {
		if expanded := f.expand(b); expanded != nil {
			out = append(out, *expanded)
		}
	}
	return out, nil
}

func (f *fakeBlogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.BlogWithAuthor, error) {
	if f.err != nil {
		return nil, f.err
	}
	if b, ok := f.blogs[id]; ok {
		return f.expand(b), nil
	}
	return nil, nil
}

func (f *fakeBlogRepo) UpdateOwned(_ context.Context, id, author primitive.ObjectID, patch models.BlogPatch) (*models.Blog, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.blogs[id]
	if !ok || b.Author != author {
		return nil, nil
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Content != nil {
		b.Content = *patch.Content
	}
	if patch.Img != nil {
		b.Img = *patch.Img
	}
	b.UpdatedAt = time.Now()
	return b, nil
}

func (f *fakeBlogRepo) DeleteOwned(_ context.Context, id, author primitive.ObjectID) (*models.Blog, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.blogs[id]
	if !ok || b.Author != author {
		return nil, nil
	}
	delete(f.blogs, id)
	return b, nil
}

// fakeHealthRepo counts sentinel touches; the sentinel itself stays singular.
type fakeHealthRepo struct {
	touches   int
	sentinels int
	err       error
}

func (f *fakeHealthRepo) Touch(_ context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.touches++
	f.sentinels = 1
	return nil
}
