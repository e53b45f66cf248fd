package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVideo(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	video := NewVideo("Song A", "dQw4w9WgXcQ", 3, created)

	assert.Equal(t, "Song A", video.Title)
	assert.Equal(t, "dQw4w9WgXcQ", video.YouTubeCode)
	assert.Equal(t, int64(3), video.CategoryID)
	assert.True(t, video.IsActive)
	assert.Equal(t, time.UTC, video.DateCreated.Location())
	assert.True(t, created.Equal(video.DateCreated))
	assert.Nil(t, video.DateLastChanged)
}

func TestVideo_SoftDeleteAndRestore(t *testing.T) {
	video := NewVideo("Song A", "dQw4w9WgXcQ", 1, time.Now())

	deletedAt := time.Now().Add(time.Minute)
	video.SoftDelete(deletedAt)
	assert.False(t, video.IsActive)
	require.NotNil(t, video.DateLastChanged)
	assert.True(t, deletedAt.Equal(*video.DateLastChanged))

	restoredAt := deletedAt.Add(time.Minute)
	video.Restore(restoredAt)
	assert.True(t, video.IsActive)
	assert.True(t, restoredAt.Equal(*video.DateLastChanged))
}

func TestVideo_Apply(t *testing.T) {
	tests := []struct {
		name  string
		patch *VideoPatch
		want  Video
	}{
		{
			name:  "title only",
			patch: NewVideoPatch().SetTitle("New Title"),
			want:  Video{Title: "New Title", YouTubeCode: "dQw4w9WgXcQ", CategoryID: 1},
		},
		{
			name:  "code and category",
			patch: NewVideoPatch().SetYouTubeCode("abcdefghijk").SetCategoryID(2),
			want:  Video{Title: "Song A", YouTubeCode: "abcdefghijk", CategoryID: 2},
		},
		{
			name:  "empty patch still stamps",
			patch: NewVideoPatch(),
			want:  Video{Title: "Song A", YouTubeCode: "dQw4w9WgXcQ", CategoryID: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			video := NewVideo("Song A", "dQw4w9WgXcQ", 1, time.Now())
			at := time.Now().Add(time.Hour)

			video.Apply(tt.patch, at)

			assert.Equal(t, tt.want.Title, video.Title)
			assert.Equal(t, tt.want.YouTubeCode, video.YouTubeCode)
			assert.Equal(t, tt.want.CategoryID, video.CategoryID)
			assert.True(t, video.IsActive)
			require.NotNil(t, video.DateLastChanged)
			assert.True(t, at.Equal(*video.DateLastChanged))
		})
	}
}

func TestVideoPatch_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		present []string
		absent  []string
		wantErr bool
	}{
		{
			name:    "title only",
			body:    `{"title":"Only Title"}`,
			present: []string{FieldTitle},
			absent:  []string{FieldYouTubeCode, FieldCategoryID},
		},
		{
			name:    "all fields",
			body:    `{"title":"T","youtube_code":"abcdefghijk","category_id":4}`,
			present: []string{FieldTitle, FieldYouTubeCode, FieldCategoryID},
		},
		{
			name:    "null counts as absent",
			body:    `{"title":null,"category_id":2}`,
			present: []string{FieldCategoryID},
			absent:  []string{FieldTitle},
		},
		{
			name:   "unknown keys ignored",
			body:   `{"is_active":false}`,
			absent: []string{FieldTitle, FieldYouTubeCode, FieldCategoryID},
		},
		{
			name:    "wrong type",
			body:    `{"category_id":"two"}`,
			wantErr: true,
		},
		{
			name:    "not an object",
			body:    `[1,2]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var patch VideoPatch
			err := json.Unmarshal([]byte(tt.body), &patch)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.present {
				assert.True(t, patch.Has(f), "expected %s present", f)
			}
			for _, f := range tt.absent {
				assert.False(t, patch.Has(f), "expected %s absent", f)
			}
			assert.Equal(t, len(tt.present), patch.Fields())
		})
	}
}

func TestVideoPatch_ZeroValueIsEmpty(t *testing.T) {
	var patch VideoPatch
	assert.False(t, patch.Has(FieldTitle))
	assert.Equal(t, 0, patch.Fields())

	patch.SetTitle("x")
	assert.True(t, patch.Has(FieldTitle))
}
