package editor

import (
	"bytes"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kyangwi/portfolio/internal/domain/blog"
	"github.com/kyangwi/portfolio/internal/domain/course"
	"github.com/kyangwi/portfolio/internal/richtext"
	"github.com/kyangwi/portfolio/pkg/apperror"
	"github.com/kyangwi/portfolio/pkg/logger"
)

// CourseSession edits one course draft. Zero or one Load, any number of
// mutations, then Save; after Close every call fails.
type CourseSession struct {
	store    CourseStore
	comp     Compressor
	uploader Uploader
	log      logger.Logger
	now      func() time.Time

	id          string
	slug        string
	publishedAt string
	draft       richtext.CourseDraft
	closed      bool
}

type CourseOption func(*CourseSession)

func WithCourseClock(now func() time.Time) CourseOption {
	return func(s *CourseSession) { s.now = now }
}

// NewCourseSession starts a blank session; call Load to edit an existing
// course. uploader may be nil when no media archive is configured.
func NewCourseSession(store CourseStore, comp Compressor, uploader Uploader, log logger.Logger, opts ...CourseOption) *CourseSession {
	s := &CourseSession{
		store:    store,
		comp:     comp,
		uploader: uploader,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load pulls the record through the bypass-cache edit path, so the session
// always starts from the freshest copy, with legacy chapters expanded.
func (s *CourseSession) Load(ctx context.Context, idOrSlug string) error {
	if s.closed {
		return ErrSessionClosed
	}
	c, err := s.store.GetCourseForEdit(ctx, idOrSlug)
	if err != nil {
		return err
	}
	if c == nil {
		return apperror.NewNotFound("course", idOrSlug)
	}

	s.id = c.ID
	s.slug = c.CourseID
	s.publishedAt = c.PublishedAt
	s.draft = richtext.CourseDraft{
		Title:        c.Title,
		Description:  c.Description,
		MoreInfoLink: c.MoreInfoLink,
		ImageBase64:  c.ImageBase64,
		OverviewHTML: c.Content,
		Chapters:     c.Chapters,
	}
	return nil
}

// Draft returns a copy of the current editing state.
func (s *CourseSession) Draft() richtext.CourseDraft {
	d := s.draft
	d.Chapters = append([]course.Chapter(nil), s.draft.Chapters...)
	return d
}

func (s *CourseSession) SetTitle(title string)      { s.draft.Title = title }
func (s *CourseSession) SetDescription(desc string) { s.draft.Description = desc }
func (s *CourseSession) SetMoreInfoLink(url string) { s.draft.MoreInfoLink = url }
func (s *CourseSession) SetOverview(html string)    { s.draft.OverviewHTML = html }
func (s *CourseSession) SetImage(dataURI string)    { s.draft.ImageBase64 = dataURI }

// SetChapters replaces the whole chapter tree, as submitted by the admin
// UI. Ids are preserved; missing ones are generated at save.
func (s *CourseSession) SetChapters(chapters []course.Chapter) {
	s.draft.Chapters = append([]course.Chapter(nil), chapters...)
}

// AddChapter appends an empty chapter and returns its generated id.
func (s *CourseSession) AddChapter(title string) string {
	id := richtext.NewNodeID("chapter")
	s.draft.Chapters = append(s.draft.Chapters, course.Chapter{ID: id, Title: title})
	return id
}

func (s *CourseSession) RenameChapter(chapterID, title string) error {
	ch := s.findChapter(chapterID)
	if ch == nil {
		return ErrUnknownNode
	}
	ch.Title = title
	return nil
}

func (s *CourseSession) RemoveChapter(chapterID string) error {
	for i, ch := range s.draft.Chapters {
		if ch.ID == chapterID {
			s.draft.Chapters = append(s.draft.Chapters[:i], s.draft.Chapters[i+1:]...)
			return nil
		}
	}
	return ErrUnknownNode
}

// AddTopic appends an empty topic to a chapter and returns its generated id.
func (s *CourseSession) AddTopic(chapterID, title string) (string, error) {
	ch := s.findChapter(chapterID)
	if ch == nil {
		return "", ErrUnknownNode
	}
	id := richtext.NewNodeID("topic")
	ch.Topics = append(ch.Topics, course.Topic{ID: id, Title: title})
	return id, nil
}

// UpdateTopic replaces a topic's editable fields. Content is stored as the
// editor emitted it; serialization and read-time happen at save.
func (s *CourseSession) UpdateTopic(chapterID, topicID, title, description, contentHTML string) error {
	ch := s.findChapter(chapterID)
	if ch == nil {
		return ErrUnknownNode
	}
	for i := range ch.Topics {
		if ch.Topics[i].ID == topicID {
			ch.Topics[i].Title = title
			ch.Topics[i].Description = description
			ch.Topics[i].Content = contentHTML
			return nil
		}
	}
	return ErrUnknownNode
}

func (s *CourseSession) RemoveTopic(chapterID, topicID string) error {
	ch := s.findChapter(chapterID)
	if ch == nil {
		return ErrUnknownNode
	}
	for i := range ch.Topics {
		if ch.Topics[i].ID == topicID {
			ch.Topics = append(ch.Topics[:i], ch.Topics[i+1:]...)
			return nil
		}
	}
	return ErrUnknownNode
}

// AttachImage compresses the upload into the inline cover image. The
// original is archived to media storage when an uploader is configured;
// archive failures are logged, not returned. A failed compression leaves
// the draft's previous image in place.
func (s *CourseSession) AttachImage(ctx context.Context, r io.Reader, filename string) error {
	if s.closed {
		return ErrSessionClosed
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return apperror.NewInvalidInput("read image upload", err)
	}
	dataURI, err := s.comp.CompressToDataURI(bytes.NewReader(raw))
	if err != nil {
		return apperror.NewInvalidInput("image could not be processed", err)
	}
	s.draft.ImageBase64 = dataURI

	if s.uploader != nil {
		if _, err := s.uploader.Upload(ctx, filename, bytes.NewReader(raw)); err != nil {
			s.log.Warn("archiving original image failed",
				zap.String("filename", filename), zap.Error(err))
		}
	}
	return nil
}

// Save validates and persists the draft. A publish keeps its original
// published_at across re-publishes. Returns the document id, which is
// generated on the first save of a new course.
func (s *CourseSession) Save(ctx context.Context, status blog.Status) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}

	built, err := richtext.BuildCourse(s.draft, status, s.now())
	if err != nil {
		return "", apperror.NewInvalidInput("course draft invalid", err)
	}
	if s.slug == "" && built.Title != "" {
		s.slug = richtext.Slugify(built.Title)
	}
	built.CourseID = s.slug
	if s.publishedAt != "" && status == blog.StatusPublished {
		built.PublishedAt = s.publishedAt
	}

	if s.id == "" {
		id, err := s.store.AddCourse(ctx, built)
		if err != nil {
			return "", err
		}
		s.id = id
	} else if err := s.store.UpdateCourse(ctx, s.id, built); err != nil {
		return "", err
	}

	s.publishedAt = built.PublishedAt
	return s.id, nil
}

// Close invalidates the session. Further calls fail with ErrSessionClosed.
func (s *CourseSession) Close() {
	s.closed = true
}

func (s *CourseSession) findChapter(chapterID string) *course.Chapter {
	for i := range s.draft.Chapters {
		if s.draft.Chapters[i].ID == chapterID {
			return &s.draft.Chapters[i]
		}
	}
	return nil
}
