package domain

import (
	"errors"
	"time"
)

// Post is a blog post draft. It is built client-side and submitted whole;
// updates resubmit the entire value, there is no partial patch.
type Post struct {
	ID          string    `json:"_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Picture     string    `json:"picture"`
	Username    string    `json:"username"`
	Categories  string    `json:"categories"`
	CreatedDate time.Time `json:"createdDate"`
}

// WithPicture returns a copy of the post with the picture replaced. Picture
// changes go through here so a pending submit never sees a half-mutated post.
func (p Post) WithPicture(url string) Post {
	p.Picture = url
	return p
}

// Validate runs the empty-field checks done before submission. Anything
// beyond that is the backend's business.
func (p Post) Validate() error {
	if p.Title == "" {
		return errors.New("title is required")
	}
	if p.Description == "" {
		return errors.New("description is required")
	}
	if p.Username == "" {
		return errors.New("post has no author")
	}
	return nil
}
