// Package editor holds the admin editing sessions. A session owns one
// draft (course or post) from load to save, so concurrent edits of
// different records never share state. Sessions are plain objects with no
// HTTP dependency.
package editor

import (
	"context"
	"errors"
	"io"

	"github.com/kyangwi/portfolio/internal/domain/blog"
	"github.com/kyangwi/portfolio/internal/domain/course"
)

var (
	ErrSessionClosed = errors.New("editor session closed")
	ErrUnknownNode   = errors.New("unknown chapter or topic")
)

// CourseStore is the slice of the content repository a course session
// needs.
type CourseStore interface {
	GetCourseForEdit(ctx context.Context, idOrSlug string) (*course.Course, error)
	AddCourse(ctx context.Context, c course.Course) (string, error)
	UpdateCourse(ctx context.Context, id string, c course.Course) error
}

// PostStore is the slice of the content repository a post session needs.
type PostStore interface {
	GetPostForEdit(ctx context.Context, idOrSlug string) (*blog.Post, error)
	AddPost(ctx context.Context, p blog.Post) (string, error)
	UpdatePost(ctx context.Context, id string, p blog.Post) error
}

// Compressor produces the inline data URI stored on the record. Attachment
// fails when compression fails; the draft keeps its previous image.
type Compressor interface {
	CompressToDataURI(r io.Reader) (string, error)
}

// Uploader archives the uncompressed original to external media storage.
// Archival is best effort and never blocks a save.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}
