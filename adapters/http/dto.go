package http

import (
	"github.com/kyangwi/portfolio/internal/domain/course"
	"github.com/kyangwi/portfolio/internal/richtext"
)

// Editor save payloads. The session validates and normalizes; the request
// shapes only carry what the admin UI edits.

type SavePostRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentHTML string `json:"content_html"`
	ImageBase64 string `json:"image_base64"`
	Status      string `json:"status" binding:"required"`
}

type SaveTopicRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentHTML string `json:"content_html"`
}

type SaveChapterRequest struct {
	ID     string             `json:"id"`
	Title  string             `json:"title"`
	Topics []SaveTopicRequest `json:"topics"`
}

type SaveCourseRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	MoreInfoLink string               `json:"more_info_link"`
	ImageBase64  string               `json:"image_base64"`
	OverviewHTML string               `json:"overview_html"`
	Chapters     []SaveChapterRequest `json:"chapters"`
	Status       string               `json:"status" binding:"required"`
}

func (req *SaveCourseRequest) ToDraft() richtext.CourseDraft {
	chapters := make([]course.Chapter, len(req.Chapters))
	for i, ch := range req.Chapters {
		topics := make([]course.Topic, len(ch.Topics))
		for j, t := range ch.Topics {
			topics[j] = course.Topic{
				ID:          t.ID,
				Title:       t.Title,
				Description: t.Description,
				Content:     t.ContentHTML,
			}
		}
		chapters[i] = course.Chapter{ID: ch.ID, Title: ch.Title, Topics: topics}
	}
	return richtext.CourseDraft{
		Title:        req.Title,
		Description:  req.Description,
		MoreInfoLink: req.MoreInfoLink,
		ImageBase64:  req.ImageBase64,
		OverviewHTML: req.OverviewHTML,
		Chapters:     chapters,
	}
}

func (req *SavePostRequest) ToDraft() richtext.PostDraft {
	return richtext.PostDraft{
		Title:       req.Title,
		Description: req.Description,
		ContentHTML: req.ContentHTML,
		ImageBase64: req.ImageBase64,
	}
}
