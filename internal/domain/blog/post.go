package blog

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Post is a blog entry stored in the "blog_posts" collection. PostID is the
// human slug used as a secondary lookup key next to the opaque document id.
// Timestamps are RFC3339 strings, the shape every document carries after
// normalization.
type Post struct {
	ID          string `json:"id"`
	PostID      string `json:"post_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Status      Status `json:"status"`
	ImageBase64 string `json:"image_base64"`
	ReadTime    int    `json:"read_time"`
	Views       int    `json:"views"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished:
		return true
	}
	return false
}

// IsGhost reports whether the post carries no meaningful content at all,
// the leftovers of an interrupted write. Edit flows treat ghosts as absent.
func (p *Post) IsGhost() bool {
	return p.Title == "" && p.Description == "" && p.Content == "" && p.ImageBase64 == ""
}

// CompletenessScore ranks duplicate records matching the same id or slug so
// the edit flow can pick the most fully written one.
func (p *Post) CompletenessScore() int {
	score := 0
	if p.Title != "" {
		score += 3
	}
	if p.Content != "" {
		score += 3
	}
	if p.Description != "" {
		score += 2
	}
	if p.ImageBase64 != "" {
		score++
	}
	if p.Status == StatusPublished {
		score++
	}
	return score
}
