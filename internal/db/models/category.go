package models

// Category groups videos. Names are unique by convention only; the service
// checks before insert.
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// NewCategory creates a Category that has not been stored yet.
func NewCategory(name string) *Category {
	return &Category{Name: name}
}
