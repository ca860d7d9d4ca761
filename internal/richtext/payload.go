package richtext

import (
	"errors"
	"strings"
	"time"

	"github.com/kyangwi/portfolio/internal/domain/blog"
	"github.com/kyangwi/portfolio/internal/domain/course"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrNoChapters    = errors.New("at least one chapter is required")
	ErrNoTopics      = errors.New("at least one topic is required")
	ErrInvalidStatus = errors.New("status must be draft or published")
	ErrEmptyContent  = errors.New("content is required")
)

// CourseDraft is the editable course tree the editor session accumulates
// before a save.
type CourseDraft struct {
	Title        string
	Description  string
	MoreInfoLink string
	ImageBase64  string
	OverviewHTML string
	Chapters     []course.Chapter
}

// BuildCourse flattens a draft into the persisted course shape: fields
// trimmed, structurally empty chapters and topics dropped, per-topic read
// times recomputed from content and summed, publish timestamp stamped only
// on a publish transition. Publishing additionally requires a title and at
// least one chapter holding at least one topic; a draft saves without them.
func BuildCourse(d CourseDraft, status blog.Status, now time.Time) (course.Course, error) {
	if !status.Valid() {
		return course.Course{}, ErrInvalidStatus
	}

	chapters := make([]course.Chapter, 0, len(d.Chapters))
	totalReadTime := 0
	for _, ch := range d.Chapters {
		kept := course.Chapter{
			ID:     orGeneratedID(ch.ID, "chapter"),
			Title:  strings.TrimSpace(ch.Title),
			Topics: []course.Topic{},
		}
		for _, t := range ch.Topics {
			topic := course.Topic{
				ID:          orGeneratedID(t.ID, "topic"),
				Title:       strings.TrimSpace(t.Title),
				Description: strings.TrimSpace(t.Description),
				Content:     t.Content,
			}
			if topic.Title == "" && topic.Content == "" {
				continue
			}
			topic.ReadTime = ReadTimeHTML(topic.Content)
			totalReadTime += topic.ReadTime
			kept.Topics = append(kept.Topics, topic)
		}
		if kept.Title == "" && len(kept.Topics) == 0 {
			continue
		}
		chapters = append(chapters, kept)
	}

	c := course.Course{
		Title:        strings.TrimSpace(d.Title),
		Description:  strings.TrimSpace(d.Description),
		MoreInfoLink: strings.TrimSpace(d.MoreInfoLink),
		ImageBase64:  d.ImageBase64,
		Content:      SerializeEditorHTML(d.OverviewHTML),
		Chapters:     chapters,
		Status:       status,
	}
	if totalReadTime < 1 {
		totalReadTime = 1
	}
	c.ReadTime = totalReadTime

	if status == blog.StatusPublished {
		if c.Title == "" {
			return course.Course{}, ErrTitleRequired
		}
		if len(c.Chapters) == 0 {
			return course.Course{}, ErrNoChapters
		}
		if !hasAnyTopic(c.Chapters) {
			return course.Course{}, ErrNoTopics
		}
		c.PublishedAt = now.UTC().Format(time.RFC3339)
	}

	return c, nil
}

// PostDraft is the editable blog-post state before a save.
type PostDraft struct {
	Title       string
	Description string
	ContentHTML string
	ImageBase64 string
}

// BuildPost flattens a post draft: content is serialized and sanitized, the
// read time derives from the full plain text, publishing stamps published_at
// and requires both a title and non-empty content.
func BuildPost(d PostDraft, status blog.Status, now time.Time) (blog.Post, error) {
	if !status.Valid() {
		return blog.Post{}, ErrInvalidStatus
	}

	content := Sanitize(SerializeEditorHTML(d.ContentHTML))
	p := blog.Post{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Content:     content,
		ImageBase64: d.ImageBase64,
		Status:      status,
		ReadTime:    ReadTimeHTML(content),
	}

	if status == blog.StatusPublished {
		if p.Title == "" {
			return blog.Post{}, ErrTitleRequired
		}
		if strings.TrimSpace(PlainText(p.Content)) == "" {
			return blog.Post{}, ErrEmptyContent
		}
		p.PublishedAt = now.UTC().Format(time.RFC3339)
	}

	return p, nil
}

func hasAnyTopic(chapters []course.Chapter) bool {
	for _, ch := range chapters {
		if len(ch.Topics) > 0 {
			return true
		}
	}
	return false
}
