package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbmodels "github.com/ad-tracker/video-catalog-go/internal/db/models"
	"github.com/ad-tracker/video-catalog-go/internal/db/repository"
	"github.com/ad-tracker/video-catalog-go/internal/db/repository/repotest"
	"github.com/ad-tracker/video-catalog-go/internal/models"
	"github.com/ad-tracker/video-catalog-go/internal/validation"
	"github.com/ad-tracker/video-catalog-go/pkg/logger"
)

func init() {
	_ = logger.Init("error", "")
}

var testValidator = func() *validation.Validator {
	v := validator.New()
	v.SetTagName("binding")
	return validation.New(v)
}()

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time { return c.t }

func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*CatalogService, *repotest.Store, *fixedClock) {
	t.Helper()
	store := repotest.NewStore()
	clock := &fixedClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	return NewCatalogService(store, testValidator, WithClock(clock.now)), store, clock
}

func int64Ptr(v int64) *int64 { return &v }

func seedVideo(store *repotest.Store, title string, categoryID int64, active bool) *dbmodels.Video {
	v := dbmodels.NewVideo(title, "dQw4w9WgXcQ", categoryID, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	v.IsActive = active
	return store.AddVideo(*v)
}

func TestCatalogService_CreateVideo(t *testing.T) {
	svc, store, clock := newTestService(t)
	music := store.AddCategory("Music")

	video, err := svc.CreateVideo(context.Background(), &models.VideoInput{
		Title:       "Song A",
		YouTubeCode: "dQw4w9WgXcQ",
		CategoryID:  &music.ID,
	})
	require.NoError(t, err)

	assert.NotZero(t, video.ID)
	assert.True(t, video.IsActive)
	assert.Equal(t, clock.t, video.DateCreated)
	assert.Nil(t, video.DateLastChanged)

	stored, ok := store.Video(video.ID)
	require.True(t, ok)
	assert.Equal(t, "Song A", stored.Title)
}

func TestCatalogService_CreateVideo_Errors(t *testing.T) {
	svc, store, _ := newTestService(t)
	music := store.AddCategory("Music")

	tests := []struct {
		name  string
		input models.VideoInput
		check func(t *testing.T, err error)
	}{
		{
			name:  "unknown category",
			input: models.VideoInput{Title: "Song A", YouTubeCode: "dQw4w9WgXcQ", CategoryID: int64Ptr(999)},
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "category", nf.Resource)
				assert.Equal(t, int64(999), nf.ID)
			},
		},
		{
			name:  "code with space",
			input: models.VideoInput{Title: "Song A", YouTubeCode: "dQw4w9 gXcQ", CategoryID: &music.ID},
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, ve.Fields, "youtube_code")
			},
		},
		{
			name:  "empty title",
			input: models.VideoInput{YouTubeCode: "dQw4w9WgXcQ", CategoryID: &music.ID},
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, ve.Fields, "title")
			},
		},
		{
			name:  "missing category",
			input: models.VideoInput{Title: "Song A", YouTubeCode: "dQw4w9WgXcQ"},
			check: func(t *testing.T, err error) {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, ve.Fields, "category_id")
			},
		},
		{
			name:  "zero category",
			input: models.VideoInput{Title: "Song A", YouTubeCode: "dQw4w9WgXcQ", CategoryID: int64Ptr(0)},
			check: func(t *testing.T, err error) {
				var nf *NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "category", nf.Resource)
				assert.Equal(t, int64(0), nf.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateVideo(context.Background(), &tt.input)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestCatalogService_GetVideo(t *testing.T) {
	svc, store, _ := newTestService(t)
	music := store.AddCategory("Music")
	active := seedVideo(store, "Song A", music.ID, true)
	inactive := seedVideo(store, "Song B", music.ID, false)

	got, err := svc.GetVideo(context.Background(), active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)

	for _, id := range []int64{inactive.ID, 12345} {
		_, err := svc.GetVideo(context.Background(), id)
		var nf *NotFoundError
		assert.ErrorAs(t, err, &nf, "id %d", id)
	}
}

func TestCatalogService_ListVideos(t *testing.T) {
	svc, store, _ := newTestService(t)
	music := store.AddCategory("Music")
	seedVideo(store, "Zeta", music.ID, true)
	seedVideo(store, "Alpha", music.ID, true)
	seedVideo(store, "Hidden", music.ID, false)

	videos, err := svc.ListVideos(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "Alpha", videos[0].Title)
	assert.Equal(t, "Zeta", videos[1].Title)
}

func TestCatalogService_UpdateVideo(t *testing.T) {
	svc, store, clock := newTestService(t)
	music := store.AddCategory("Music")
	talks := store.AddCategory("Talks")
	video := seedVideo(store, "Song A", music.ID, true)
	clock.advance(time.Hour)

	updated, err := svc.UpdateVideo(context.Background(), video.ID, dbmodels.NewVideoPatch().SetTitle("Renamed"))
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, video.YouTubeCode, updated.YouTubeCode)
	assert.Equal(t, music.ID, updated.CategoryID)
	require.NotNil(t, updated.DateLastChanged)
	assert.Equal(t, clock.t, *updated.DateLastChanged)
	assert.Equal(t, video.DateCreated, updated.DateCreated)

	updated, err = svc.UpdateVideo(context.Background(), video.ID, dbmodels.NewVideoPatch().SetCategoryID(talks.ID))
	require.NoError(t, err)
	assert.Equal(t, talks.ID, updated.CategoryID)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestCatalogService_UpdateVideo_EmptyPatchStamps(t *testing.T) {
	svc, store, clock := newTestService(t)
	music := store.AddCategory("Music")
	video := seedVideo(store, "Song A", music.ID, true)
	clock.advance(2 * time.Hour)

	updated, err := svc.UpdateVideo(context.Background(), video.ID, dbmodels.NewVideoPatch())
	require.NoError(t, err)
	assert.Equal(t, "Song A", updated.Title)
	require.NotNil(t, updated.DateLastChanged)
	assert.Equal(t, clock.t, *updated.DateLastChanged)
}

func TestCatalogService_UpdateVideo_Errors(t *testing.T) {
	svc, store, _ := newTestService(t)
	music := store.AddCategory("Music")
	active := seedVideo(store, "Song A", music.ID, true)
	inactive := seedVideo(store, "Song B", music.ID, false)

	tests := []struct {
		name         string
		id           int64
		patch        *dbmodels.VideoPatch
		wantResource string
		wantInvalid  bool
	}{
		{name: "missing video", id: 999, patch: dbmodels.NewVideoPatch().SetTitle("x"), wantResource: "video"},
		{name: "inactive video", id: inactive.ID, patch: dbmodels.NewVideoPatch().SetTitle("x"), wantResource: "video"},
		{name: "unknown category", id: active.ID, patch: dbmodels.NewVideoPatch().SetCategoryID(999), wantResource: "category"},
		{name: "negative category", id: active.ID, patch: dbmodels.NewVideoPatch().SetCategoryID(-1), wantResource: "category"},
		{name: "zero video id", id: 0, patch: dbmodels.NewVideoPatch().SetTitle("x"), wantResource: "video"},
		{name: "bad code", id: active.ID, patch: dbmodels.NewVideoPatch().SetYouTubeCode("short"), wantInvalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateVideo(context.Background(), tt.id, tt.patch)
			require.Error(t, err)
			if tt.wantInvalid {
				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			var nf *NotFoundError
			require.ErrorAs(t, err, &nf)
			assert.Equal(t, tt.wantResource, nf.Resource)
		})
	}

	stored, _ := store.Video(active.ID)
	assert.Equal(t, "Song A", stored.Title)
	assert.Nil(t, stored.DateLastChanged)
}

func TestCatalogService_ReplaceVideo(t *testing.T) {
	svc, store, _ := newTestService(t)
	music := store.AddCategory("Music")
	talks := store.AddCategory("Talks")
	video := seedVideo(store, "Song A", music.ID, true)

	updated, err := svc.ReplaceVideo(context.Background(), video.ID, &models.VideoInput{
		Title:       "Keynote",
		YouTubeCode: "abcdefghijk",
		CategoryID:  &talks.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Keynote", updated.Title)
	assert.Equal(t, "abcdefghijk", updated.YouTubeCode)
	assert.Equal(t, talks.ID, updated.CategoryID)
}

func TestCatalogService_DeleteAndRestoreVideo(t *testing.T) {
	svc, store, clock := newTestService(t)
	music := store.AddCategory("Music")
	video := seedVideo(store, "Song A", music.ID, true)
	ctx := context.Background()

	clock.advance(time.Minute)
	require.NoError(t, svc.DeleteVideo(ctx, video.ID))

	stored, ok := store.Video(video.ID)
	require.True(t, ok, "soft delete keeps the row")
	assert.False(t, stored.IsActive)
	require.NotNil(t, stored.DateLastChanged)
	assert.Equal(t, clock.t, *stored.DateLastChanged)

	_, err := svc.GetVideo(ctx, video.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	err = svc.DeleteVideo(ctx, video.ID)
	assert.ErrorAs(t, err, &nf, "second delete reports not found")

	clock.advance(time.Minute)
	require.NoError(t, svc.RestoreVideo(ctx, video.ID))
	got, err := svc.GetVideo(ctx, video.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	assert.Equal(t, clock.t, *got.DateLastChanged)

	clock.advance(time.Minute)
	require.NoError(t, svc.RestoreVideo(ctx, video.ID), "restoring an active video succeeds")
	stored, _ = store.Video(video.ID)
	assert.Equal(t, clock.t, *stored.DateLastChanged)

	err = svc.RestoreVideo(ctx, 999)
	assert.ErrorAs(t, err, &nf)
}

func TestCatalogService_CreateCategory(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, &models.CategoryInput{Name: "Music"})
	require.NoError(t, err)
	assert.NotZero(t, category.ID)

	_, err = svc.CreateCategory(ctx, &models.CategoryInput{Name: "Music"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	_, err = svc.CreateCategory(ctx, &models.CategoryInput{Name: "ab"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
	assert.Equal(t, 1, store.Rollbacks, "conflict rolls back its unit of work")
}

func TestCatalogService_UpdateCategory(t *testing.T) {
	svc, store, _ := newTestService(t)
	music := store.AddCategory("Music")
	store.AddCategory("Talks")
	ctx := context.Background()

	updated, err := svc.UpdateCategory(ctx, music.ID, &models.CategoryInput{Name: "Songs"})
	require.NoError(t, err)
	assert.Equal(t, "Songs", updated.Name)

	// Renaming onto an existing name is not rejected.
	_, err = svc.UpdateCategory(ctx, music.ID, &models.CategoryInput{Name: "Talks"})
	assert.NoError(t, err)

	_, err = svc.UpdateCategory(ctx, 999, &models.CategoryInput{Name: "Songs"})
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	got, err := svc.GetCategory(ctx, music.ID)
	require.NoError(t, err)
	assert.Equal(t, "Talks", got.Name)
}

func TestCatalogService_DeleteCategory(t *testing.T) {
	svc, store, _ := newTestService(t)
	music := store.AddCategory("Music")
	empty := store.AddCategory("Empty")
	archived := store.AddCategory("Archived")
	seedVideo(store, "Song A", music.ID, true)
	seedVideo(store, "Old", archived.ID, false)
	ctx := context.Background()

	err := svc.DeleteCategory(ctx, music.ID)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	_, ok := store.Category(music.ID)
	assert.True(t, ok)

	require.NoError(t, svc.DeleteCategory(ctx, empty.ID))
	require.NoError(t, svc.DeleteCategory(ctx, archived.ID), "only inactive videos reference it")

	err = svc.DeleteCategory(ctx, empty.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)

	_, err = svc.GetCategory(ctx, empty.ID)
	assert.ErrorAs(t, err, &nf)
}

func TestCatalogService_ListCategorizedVideos(t *testing.T) {
	svc, store, _ := newTestService(t)
	talks := store.AddCategory("Talks")
	music := store.AddCategory("Music")
	seedVideo(store, "Keynote", talks.ID, true)
	seedVideo(store, "Zeta", music.ID, true)
	seedVideo(store, "Alpha", music.ID, true)
	seedVideo(store, "Gone", music.ID, false)

	videos, err := svc.ListCategorizedVideos(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 3)

	got := make([]string, 0, len(videos))
	for _, v := range videos {
		got = append(got, v.Category+"/"+v.Title)
	}
	assert.Equal(t, []string{"Music/Alpha", "Music/Zeta", "Talks/Keynote"}, got)
}

func TestCatalogService_FormQueries(t *testing.T) {
	svc, store, _ := newTestService(t)
	music := store.AddCategory("Music")
	store.AddCategory("Talks")
	video := seedVideo(store, "Song A", music.ID, true)
	hidden := seedVideo(store, "Song B", music.ID, false)
	ctx := context.Background()

	items, err := svc.ListVideosForForm(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Music", items[0].Category)

	got, categories, err := svc.GetVideoForEdit(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, video.ID, got.ID)
	assert.Len(t, categories, 2)

	_, _, err = svc.GetVideoForEdit(ctx, hidden.ID)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

type failingUnitOfWork struct {
	err error
}

func (f failingUnitOfWork) Do(context.Context, func(*repository.Repositories) error) error {
	return f.err
}

func TestCatalogService_StoreFailure(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewCatalogService(failingUnitOfWork{err: boom}, testValidator)

	_, err := svc.ListVideos(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	err = svc.DeleteVideo(context.Background(), 1)
	assert.ErrorIs(t, err, boom)

	var nf *NotFoundError
	assert.False(t, errors.As(err, &nf))
}
