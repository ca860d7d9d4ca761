package course

import "github.com/kyangwi/portfolio/internal/domain/blog"

// Topic is an independent rich-text unit inside a chapter with its own
// read-time estimate.
type Topic struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	ReadTime    int    `json:"read_time"`
}

// Chapter groups ordered topics. Notes is the pre-topic legacy shape: a flat
// text blob that read-time normalization upgrades to a single "Notes" topic.
type Chapter struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Notes  string  `json:"notes,omitempty"`
	Topics []Topic `json:"topics"`
}

// Course lives in the "courses" collection. CourseID is the slug; Content is
// the overview HTML shown above the chapter tree.
type Course struct {
	ID           string      `json:"id"`
	CourseID     string      `json:"course_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	MoreInfoLink string      `json:"more_info_link"`
	ImageBase64  string      `json:"image_base64"`
	Content      string      `json:"content"`
	Chapters     []Chapter   `json:"chapters"`
	Status       blog.Status `json:"status"`
	ReadTime     int         `json:"read_time"`
	CreatedAt    string      `json:"created_at,omitempty"`
	UpdatedAt    string      `json:"updated_at,omitempty"`
	PublishedAt  string      `json:"published_at,omitempty"`
}

func (c *Course) IsGhost() bool {
	return c.Title == "" && c.Description == "" && c.Content == "" && c.ImageBase64 == ""
}

func (c *Course) CompletenessScore() int {
	score := 0
	if c.Title != "" {
		score += 3
	}
	if c.Content != "" {
		score += 3
	}
	if c.Description != "" {
		score += 2
	}
	if c.ImageBase64 != "" {
		score++
	}
	if c.Status == blog.StatusPublished {
		score++
	}
	return score
}

// TopicCount is used by listing surfaces; legacy chapters count as one topic.
func (c *Course) TopicCount() int {
	n := 0
	for _, ch := range c.Chapters {
		if len(ch.Topics) == 0 && ch.Notes != "" {
			n++
			continue
		}
		n += len(ch.Topics)
	}
	return n
}
