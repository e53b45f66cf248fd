package models

import "time"

// Video references an external YouTube clip. Deleting a video clears
// IsActive; the row itself is kept.
type Video struct {
	ID              int64      `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	YouTubeCode     string     `db:"youtube_code" json:"youtube_code"`
	CategoryID      int64      `db:"category_id" json:"category_id"`
	IsActive        bool       `db:"is_active" json:"is_active"`
	DateCreated     time.Time  `db:"date_created" json:"date_created"`
	DateLastChanged *time.Time `db:"date_last_changed" json:"date_last_changed"`
}

// NewVideo creates an active, never-changed Video stamped with createdAt.
func NewVideo(title, youtubeCode string, categoryID int64, createdAt time.Time) *Video {
	return &Video{
		Title:       title,
		YouTubeCode: youtubeCode,
		CategoryID:  categoryID,
		IsActive:    true,
		DateCreated: createdAt.UTC(),
	}
}

// Touch records a mutation at the given time.
func (v *Video) Touch(at time.Time) {
	t := at.UTC()
	v.DateLastChanged = &t
}

// SoftDelete marks the video inactive.
func (v *Video) SoftDelete(at time.Time) {
	v.IsActive = false
	v.Touch(at)
}

// Restore marks the video active again.
func (v *Video) Restore(at time.Time) {
	v.IsActive = true
	v.Touch(at)
}

// Apply copies the fields present in patch onto the video and stamps
// DateLastChanged, whether or not any field changed.
func (v *Video) Apply(patch *VideoPatch, at time.Time) {
	if patch.Has(FieldTitle) {
		v.Title = patch.Title
	}
	if patch.Has(FieldYouTubeCode) {
		v.YouTubeCode = patch.YouTubeCode
	}
	if patch.Has(FieldCategoryID) {
		v.CategoryID = patch.CategoryID
	}
	v.Touch(at)
}

// CategorizedVideo is an active video joined with its category's name.
type CategorizedVideo struct {
	ID          int64  `db:"id" json:"id"`
	Category    string `db:"category" json:"category"`
	Title       string `db:"title" json:"title"`
	YouTubeCode string `db:"youtube_code" json:"youtube_code"`
}
