package models

import (
	"encoding/json"
	"fmt"
)

// Patchable video fields, named by their JSON keys.
const (
	FieldTitle       = "title"
	FieldYouTubeCode = "youtube_code"
	FieldCategoryID  = "category_id"
)

// VideoPatch is a partial video update. Only fields marked present are
// applied; a zero value never overwrites stored data by accident.
type VideoPatch struct {
	Title       string `json:"title"`
	YouTubeCode string `json:"youtube_code"`
	CategoryID  int64  `json:"category_id"`

	present map[string]struct{}
}

// NewVideoPatch returns an empty patch.
func NewVideoPatch() *VideoPatch {
	return &VideoPatch{present: make(map[string]struct{})}
}

// SetTitle marks the title as present.
func (p *VideoPatch) SetTitle(title string) *VideoPatch {
	p.Title = title
	p.mark(FieldTitle)
	return p
}

// SetYouTubeCode marks the youtube code as present.
func (p *VideoPatch) SetYouTubeCode(code string) *VideoPatch {
	p.YouTubeCode = code
	p.mark(FieldYouTubeCode)
	return p
}

// SetCategoryID marks the category as present.
func (p *VideoPatch) SetCategoryID(id int64) *VideoPatch {
	p.CategoryID = id
	p.mark(FieldCategoryID)
	return p
}

// Has reports whether field was supplied.
func (p *VideoPatch) Has(field string) bool {
	_, ok := p.present[field]
	return ok
}

// Fields returns the number of supplied fields.
func (p *VideoPatch) Fields() int {
	return len(p.present)
}

func (p *VideoPatch) mark(field string) {
	if p.present == nil {
		p.present = make(map[string]struct{})
	}
	p.present[field] = struct{}{}
}

// UnmarshalJSON records which known keys appear in the payload. Keys set to
// null count as absent; unknown keys are ignored.
func (p *VideoPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = VideoPatch{present: make(map[string]struct{})}
	for key, value := range raw {
		if string(value) == "null" {
			continue
		}
		var err error
		switch key {
		case FieldTitle:
			err = json.Unmarshal(value, &p.Title)
		case FieldYouTubeCode:
			err = json.Unmarshal(value, &p.YouTubeCode)
		case FieldCategoryID:
			err = json.Unmarshal(value, &p.CategoryID)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", key, err)
		}
		p.mark(key)
	}
	return nil
}
