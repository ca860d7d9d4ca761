package editor

import (
	"bytes"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kyangwi/portfolio/internal/domain/blog"
	"github.com/kyangwi/portfolio/internal/richtext"
	"github.com/kyangwi/portfolio/pkg/apperror"
	"github.com/kyangwi/portfolio/pkg/logger"
)

// PostSession edits one blog-post draft. Same lifecycle as CourseSession.
type PostSession struct {
	store    PostStore
	comp     Compressor
	uploader Uploader
	log      logger.Logger
	now      func() time.Time

	id          string
	slug        string
	publishedAt string
	draft       richtext.PostDraft
	closed      bool
}

type PostOption func(*PostSession)

func WithPostClock(now func() time.Time) PostOption {
	return func(s *PostSession) { s.now = now }
}

func NewPostSession(store PostStore, comp Compressor, uploader Uploader, log logger.Logger, opts ...PostOption) *PostSession {
	s := &PostSession{
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

func (s *PostSession) Load(ctx context.Context, idOrSlug string) error {
	if s.closed {
		return ErrSessionClosed
	}
	p, err := s.store.GetPostForEdit(ctx, idOrSlug)
	if err != nil {
		return err
	}
	if p == nil {
		return apperror.NewNotFound("post", idOrSlug)
	}

	s.id = p.ID
	s.slug = p.PostID
	s.publishedAt = p.PublishedAt
	s.draft = richtext.PostDraft{
		Title:       p.Title,
		Description: p.Description,
		ContentHTML: p.Content,
		ImageBase64: p.ImageBase64,
	}
	return nil
}

func (s *PostSession) Draft() richtext.PostDraft { return s.draft }

func (s *PostSession) SetTitle(title string)      { s.draft.Title = title }
func (s *PostSession) SetDescription(desc string) { s.draft.Description = desc }
func (s *PostSession) SetContent(html string)     { s.draft.ContentHTML = html }
func (s *PostSession) SetImage(dataURI string)    { s.draft.ImageBase64 = dataURI }

func (s *PostSession) AttachImage(ctx context.Context, r io.Reader, filename string) error {
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

func (s *PostSession) Save(ctx context.Context, status blog.Status) (string, error) {
	if s.closed {
		return "", ErrSessionClosed
	}

	built, err := richtext.BuildPost(s.draft, status, s.now())
	if err != nil {
		return "", apperror.NewInvalidInput("post draft invalid", err)
	}
	if s.slug == "" && built.Title != "" {
		s.slug = richtext.Slugify(built.Title)
	}
	built.PostID = s.slug
	if s.publishedAt != "" && status == blog.StatusPublished {
		built.PublishedAt = s.publishedAt
	}

	if s.id == "" {
		id, err := s.store.AddPost(ctx, built)
		if err != nil {
			return "", err
		}
		s.id = id
	} else if err := s.store.UpdatePost(ctx, s.id, built); err != nil {
		return "", err
	}

	s.publishedAt = built.PublishedAt
	return s.id, nil
}

func (s *PostSession) Close() {
	s.closed = true
}
