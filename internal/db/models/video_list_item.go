package models

// VideoListItem is a row of the HTML video list: an active video with its
// category name and the code needed for the edit link.
type VideoListItem struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	YouTubeCode string `db:"youtube_code"`
	Category    string `db:"category"`
}
