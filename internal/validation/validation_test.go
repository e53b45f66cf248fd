package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ad-tracker/video-catalog-go/internal/db/models"
)

type videoPayload struct {
	Title       string `json:"title" binding:"required,min=1,max=128"`
	YouTubeCode string `json:"youtube_code" binding:"required,youtube_code"`
	CategoryID  int64  `json:"category_id" binding:"required"`
}

type categoryPayload struct {
	Name string `json:"name" binding:"required,min=3,max=15"`
}

func newTestValidator() *Validator {
	v := validator.New()
	v.SetTagName("binding")
	return New(v)
}

func TestIsValidYouTubeCode(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{name: "typical code", code: "dQw4w9WgXcQ", valid: true},
		{name: "punctuation allowed", code: "a-b_c.d!e?f", valid: true},
		{name: "too short", code: "dQw4w9WgXc", valid: false},
		{name: "too long", code: "dQw4w9WgXcQQ", valid: false},
		{name: "contains space", code: "dQw4w9 gXcQ", valid: false},
		{name: "empty", code: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidYouTubeCode(tt.code))
		})
	}
}

func TestValidator_Struct(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name       string
		payload    any
		wantFields []string
	}{
		{
			name:    "valid video",
			payload: videoPayload{Title: "Song A", YouTubeCode: "dQw4w9WgXcQ", CategoryID: 1},
		},
		{
			name:       "missing title",
			payload:    videoPayload{YouTubeCode: "dQw4w9WgXcQ", CategoryID: 1},
			wantFields: []string{"title"},
		},
		{
			name:       "title too long",
			payload:    videoPayload{Title: strings.Repeat("x", 129), YouTubeCode: "dQw4w9WgXcQ", CategoryID: 1},
			wantFields: []string{"title"},
		},
		{
			name:       "bad code and missing category",
			payload:    videoPayload{Title: "Song A", YouTubeCode: "short"},
			wantFields: []string{"youtube_code", "category_id"},
		},
		{
			name:    "valid category",
			payload: categoryPayload{Name: "Music"},
		},
		{
			name:       "category name too short",
			payload:    categoryPayload{Name: "ab"},
			wantFields: []string{"name"},
		},
		{
			name:       "category name too long",
			payload:    categoryPayload{Name: strings.Repeat("n", 16)},
			wantFields: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.payload)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			fieldErrs, ok := AsFieldErrors(err)
			require.True(t, ok)
			assert.Len(t, fieldErrs, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, fieldErrs, field)
			}
		})
	}
}

func TestValidator_VideoPatch(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name       string
		patch      *models.VideoPatch
		wantFields []string
	}{
		{
			name:  "empty patch",
			patch: models.NewVideoPatch(),
		},
		{
			name:  "valid title",
			patch: models.NewVideoPatch().SetTitle("New Title"),
		},
		{
			name:       "empty title supplied",
			patch:      models.NewVideoPatch().SetTitle(""),
			wantFields: []string{models.FieldTitle},
		},
		{
			name:       "bad code",
			patch:      models.NewVideoPatch().SetYouTubeCode("with space"),
			wantFields: []string{models.FieldYouTubeCode},
		},
		{
			name:  "zero category is left to the existence check",
			patch: models.NewVideoPatch().SetCategoryID(0),
		},
		{
			name: "absent fields are not checked",
			patch: func() *models.VideoPatch {
				p := models.NewVideoPatch().SetCategoryID(2)
				p.Title = ""
				return p
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.VideoPatch(tt.patch)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			fieldErrs, ok := AsFieldErrors(err)
			require.True(t, ok)
			assert.Len(t, fieldErrs, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, fieldErrs, field)
			}
		})
	}
}

func TestAsFieldErrors(t *testing.T) {
	_, ok := AsFieldErrors(errors.New("boom"))
	assert.False(t, ok)

	_, ok = AsFieldErrors(nil)
	assert.False(t, ok)

	wrapped := FieldErrors{"name": "is required"}
	got, ok := AsFieldErrors(wrapped)
	require.True(t, ok)
	assert.Equal(t, "is required", got["name"])
}

func TestFieldErrors_Error(t *testing.T) {
	err := FieldErrors{
		"youtube_code": "must be 11 characters without spaces",
		"title":        "is required",
	}

	assert.Equal(t, "title is required; youtube_code must be 11 characters without spaces", err.Error())
}

func TestDefault(t *testing.T) {
	first := Default()
	second := Default()
	require.NotNil(t, first)
	assert.Same(t, first, second)

	assert.Error(t, first.Struct(categoryPayload{Name: "x"}))
	assert.NoError(t, first.Struct(categoryPayload{Name: "Music"}))
}
