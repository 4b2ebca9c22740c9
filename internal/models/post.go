package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

const (
	maxTitleLength = 200
	maxSlugLength  = 120
)

var (
	categoryPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Post is a blog entry. Author always holds the creator's user id.
type Post struct {
	ID        string    `json:"_id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	Author    string    `json:"author" db:"author_id"`
	Category  string    `json:"category" db:"category"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CanMutate reports whether userID may update or delete post.
func CanMutate(userID string, post *Post) bool {
	return post != nil && userID != "" && userID == post.Author
}

// PostInput is the create payload. There is deliberately no author field.
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Slug     string `json:"slug"`
}

// Normalize trims surrounding whitespace from every field.
func (in *PostInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	in.Category = strings.TrimSpace(in.Category)
	in.Slug = strings.TrimSpace(in.Slug)
}

// Validate expects a normalized input.
func (in *PostInput) Validate() error {
	if in.Title == "" && in.Content == "" {
		return errors.New("Title and content are required")
	}
	if in.Title == "" {
		return errors.New("Title is required")
	}
	if in.Content == "" {
		return errors.New("Content is required")
	}
	if err := validateTitle(in.Title); err != nil {
		return err
	}
	if err := validateCategory(in.Category); err != nil {
		return err
	}
	return validateSlug(in.Slug)
}

// PostPatch is the update payload; nil fields are left untouched.
type PostPatch struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Slug     *string `json:"slug"`
}

func (p *PostPatch) Normalize() {
	for _, field := range []*string{p.Title, p.Content, p.Category, p.Slug} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

func (p *PostPatch) Validate() error {
	if p.Title != nil {
		if *p.Title == "" {
			return errors.New("Title cannot be empty")
		}
		if err := validateTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Content != nil && *p.Content == "" {
		return errors.New("Content cannot be empty")
	}
	if p.Category != nil {
		if err := validateCategory(*p.Category); err != nil {
			return err
		}
	}
	if p.Slug != nil {
		if *p.Slug == "" {
			return errors.New("Slug cannot be empty")
		}
		if err := validateSlug(*p.Slug); err != nil {
			return err
		}
	}
	return nil
}

// Apply copies the supplied fields onto post and reports whether anything changed.
func (p *PostPatch) Apply(post *Post) bool {
	changed := false
	set := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			changed = true
		}
	}
	set(&post.Title, p.Title)
	set(&post.Content, p.Content)
	set(&post.Category, p.Category)
	set(&post.Slug, p.Slug)
	return changed
}

// Slugify transliterates title to ASCII and joins its words with dashes.
// The result leaves room for a "-" plus 8 character id suffix.
func Slugify(title string) string {
	out := slug.Make(title)
	if len(out) > maxSlugLength-9 {
		out = out[:maxSlugLength-9]
	}
	out = strings.Join(strings.FieldsFunc(out, func(r rune) bool {
		return r == '-' || r == '_'
	}), "-")
	if out == "" {
		return "post"
	}
	return out
}

func validateTitle(title string) error {
	if len(title) > maxTitleLength {
		return errors.New("Title is too long")
	}
	return nil
}

func validateCategory(category string) error {
	if category != "" && !categoryPattern.MatchString(category) {
		return errors.New("Category must be an identifier")
	}
	return nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return nil
	}
	if len(slug) > maxSlugLength || !slugPattern.MatchString(slug) {
		return errors.New("Slug may only contain lowercase letters, digits and dashes")
	}
	return nil
}
