package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fathima-sithara/clips-service/internal/apperr"
	"github.com/fathima-sithara/clips-service/internal/auth"
	"github.com/fathima-sithara/clips-service/internal/catalog"
	"github.com/fathima-sithara/clips-service/internal/events"
	"github.com/fathima-sithara/clips-service/internal/models"
	"github.com/fathima-sithara/clips-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type memFiles struct {
	mu      sync.Mutex
	files   map[string][]byte
	types   map[string]string
	failOn  string
	deleted []string
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string][]byte{}, types: map[string]string{}}
}

func (f *memFiles) Save(_ context.Context, name, contentType string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && strings.HasSuffix(name, f.failOn) {
		return "", errors.New("disk full")
	}
	url := "/uploads/" + name
	f.files[url] = data
	f.types[url] = contentType
	return url, nil
}

func (f *memFiles) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, url)
	f.deleted = append(f.deleted, url)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type countingRecorder struct {
	mu         sync.Mutex
	engagement map[string]int
	uploads    int
	failures   int
}

func (r *countingRecorder) Engagement(c string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.engagement == nil {
		r.engagement = map[string]int{}
	}
	r.engagement[c]++
}
func (r *countingRecorder) Upload()         { r.uploads++ }
func (r *countingRecorder) PublishFailure() { r.failures++ }

type fixture struct {
	repos   *repository.Repos
	files   *memFiles
	events  *recordingPublisher
	metrics *countingRecorder
	videos  *VideoService
	auth    *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := repository.NewMemoryRepos()
	for _, slug := range []string{"sports", "music"} {
		require.NoError(t, repos.Categories.Upsert(ctx, &models.Category{Name: slug, Slug: slug}))
	}
	engine := catalog.NewEngine(repos.Videos, repos.Categories, repos.Users, catalog.DefaultOptions())
	jwt, err := auth.NewJWTManager("test-secret", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		repos:   repos,
		files:   newMemFiles(),
		events:  &recordingPublisher{},
		metrics: &countingRecorder{},
	}
	f.videos = NewVideoService(VideoDeps{
		Engine:   engine,
		Store:    repos.Videos,
		Registry: repos.Categories,
		Files:    f.files,
		Events:   f.events,
		Metrics:  f.metrics,
		Log:      zap.NewNop(),
	})
	f.auth = NewAuthService(repos.Users, jwt, zap.NewNop())
	f.auth.cost = bcrypt.MinCost
	return f
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestAuthService_RegisterLoginAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.auth.Register(ctx, RegisterInput{Username: " ana ", Email: "Ana@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "ana", res.User.Username)
	assert.Equal(t, "ana@example.com", res.User.Email)
	assert.Equal(t, models.RoleUser, res.User.Role)

	_, err = f.auth.Register(ctx, RegisterInput{Username: "ana", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrUserExists)

	login, err := f.auth.Login(ctx, LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := f.auth.Authenticate(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, u.ID)

	_, err = f.auth.Login(ctx, LoginInput{Email: "ana@example.com", Password: "wrong!!"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), RegisterInput{Username: "an", Email: "x", Password: "123"})
	var errs apperr.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 3)

	for _, in := range []LoginInput{{}, {Email: "ana@example.com"}, {Password: "secret1"}, {Email: "  ", Password: "x"}} {
		_, err = f.auth.Login(context.Background(), in)
		var ve *apperr.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Email and password are required", ve.Message)
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrNoToken)
	_, err = f.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	tok, _, err := f.auth.jwt.Generate("deleted-user")
	require.NoError(t, err)
	_, err = f.auth.Authenticate(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVideoService_Upload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := &models.User{Username: "ana"}

	v, err := f.videos.Upload(ctx, user, UploadInput{
		Title:     "  Dunk  ",
		Category:  "sports",
		Tags:      "nba, dunk,,",
		Video:     &UploadFile{Name: "dunk.mp4", ContentType: "video/mp4", Data: []byte("mp4")},
		Thumbnail: &UploadFile{Name: "thumb.png", ContentType: "image/png", Data: pngBytes(t, 1280, 720)},
	})
	require.NoError(t, err)

	assert.Equal(t, "Dunk", v.Title)
	assert.Equal(t, "ana", v.Uploader)
	assert.Equal(t, []string{"nba", "dunk"}, v.Tags)
	assert.Equal(t, models.DefaultDuration, v.Duration)
	assert.Equal(t, models.DefaultResolution, v.Resolution)
	assert.True(t, v.IsCopyrightFree)
	assert.True(t, strings.HasSuffix(v.VideoURL, ".mp4"))
	assert.True(t, strings.HasSuffix(v.ThumbnailURL, ".jpg"))
	assert.Equal(t, "image/jpeg", f.files.types[v.ThumbnailURL])

	c, err := f.repos.Categories.Get(ctx, "sports")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.VideoCount)
	assert.Equal(t, 1, f.metrics.uploads)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, events.VideoUploaded, f.events.events[0].Type)
}

func TestVideoService_UploadDefaultsThumbnail(t *testing.T) {
	f := newFixture(t)
	v, err := f.videos.Upload(context.Background(), &models.User{Username: "ana"}, UploadInput{
		Title:     "Beat",
		Category:  "music",
		Duration:  "1:05",
		Video:     &UploadFile{Name: "beat.mov", Data: []byte("mov")},
		Thumbnail: &UploadFile{Name: "cover.webp", Data: []byte("not decodable")},
	})
	require.NoError(t, err)
	assert.Equal(t, "1:05", v.Duration)
	assert.True(t, strings.HasSuffix(v.ThumbnailURL, ".webp"))

	v, err = f.videos.Upload(context.Background(), &models.User{Username: "ana"}, UploadInput{
		Title: "Beat 2", Category: "music", Video: &UploadFile{Name: "b.mp4", Data: []byte("x")},
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/default-thumbnail.jpg", v.ThumbnailURL)
}

func TestVideoService_UploadRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := &models.User{Username: "ana"}
	file := &UploadFile{Name: "a.mp4", Data: []byte("x")}

	cases := []struct {
		name  string
		in    UploadInput
		field string
	}{
		{"missing title", UploadInput{Category: "sports", Video: file}, "title"},
		{"missing category", UploadInput{Title: "t", Video: file}, "title"},
		{"missing file", UploadInput{Title: "t", Category: "sports"}, "video"},
		{"unknown category", UploadInput{Title: "t", Category: "cooking", Video: file}, "category"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.videos.Upload(ctx, user, tc.in)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	n, err := f.repos.Videos.Count(ctx, catalog.Filter{})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, f.files.files)
}

func TestVideoService_UploadCleansUpOnFailure(t *testing.T) {
	f := newFixture(t)
	f.files.failOn = ".jpg"
	_, err := f.videos.Upload(context.Background(), &models.User{Username: "ana"}, UploadInput{
		Title:     "t",
		Category:  "sports",
		Video:     &UploadFile{Name: "a.mp4", Data: []byte("x")},
		Thumbnail: &UploadFile{Name: "t.png", Data: pngBytes(t, 10, 10)},
	})
	assert.ErrorIs(t, err, apperr.ErrStorage)
	assert.Empty(t, f.files.files)
	assert.Len(t, f.files.deleted, 1)
}

func TestVideoService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := &models.User{Username: "ana"}
	v, err := f.videos.Upload(ctx, owner, UploadInput{
		Title: "t", Category: "sports", Video: &UploadFile{Name: "a.mp4", Data: []byte("x")},
	})
	require.NoError(t, err)

	_, err = f.videos.Delete(ctx, &models.User{Username: "bo"}, v.ID)
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = f.videos.Delete(ctx, owner, v.ID)
	require.NoError(t, err)

	c, err := f.repos.Categories.Get(ctx, "sports")
	require.NoError(t, err)
	assert.Equal(t, int64(0), c.VideoCount)
	assert.Contains(t, f.files.deleted, v.VideoURL)
	assert.NotContains(t, f.files.deleted, "/uploads/default-thumbnail.jpg")

	_, err = f.videos.Delete(ctx, owner, v.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestVideoService_Engagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := &models.Video{Title: "t", Category: "music", Likes: 1}
	require.NoError(t, f.repos.Videos.Insert(ctx, v))

	res, err := f.videos.Like(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Value)

	res, err = f.videos.Download(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Value)

	got, err := f.videos.View(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	assert.Equal(t, map[string]int{"likes": 1, "downloads": 1, "views": 1}, f.metrics.engagement)
	require.Len(t, f.events.events, 2)
	assert.Equal(t, events.VideoLiked, f.events.events[0].Type)
	assert.Equal(t, int64(2), f.events.events[0].Value)

	_, err = f.videos.Like(ctx, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

func TestVideoService_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.events.err = errors.New("broker down")
	v := &models.Video{Title: "t", Category: "music"}
	require.NoError(t, f.repos.Videos.Insert(context.Background(), v))

	_, err := f.videos.Like(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, f.metrics.failures)
}

func TestCategoryService_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i, views := range []int64{5, 50, 20} {
		require.NoError(t, f.repos.Videos.Insert(ctx, &models.Video{ID: string(rune('a' + i)), Category: "sports", Views: views}))
	}
	require.NoError(t, f.repos.Videos.Insert(ctx, &models.Video{ID: "z", Category: "music", Views: 999}))

	svc := NewCategoryService(f.repos.Categories, f.videos.Engine())
	d, err := svc.Get(ctx, "sports")
	require.NoError(t, err)
	assert.Equal(t, "sports", d.Category.Slug)
	require.Len(t, d.Videos, 3)
	assert.Equal(t, "b", d.Videos[0].ID)

	_, err = svc.Get(ctx, "nope")
	assert.True(t, apperr.IsNotFound(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{"a", "b c"}, SplitTags(" a ,, b c ,"))
}
