package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kyangwi/portfolio/internal/content"
	"github.com/kyangwi/portfolio/internal/domain/blog"
	"github.com/kyangwi/portfolio/internal/editor"
	"github.com/kyangwi/portfolio/pkg/apperror"
	"github.com/kyangwi/portfolio/pkg/logger"
)

// ViewRecorder queues course visits for asynchronous access logging. When
// no broker is configured the handler falls back to a direct repository
// write.
type ViewRecorder interface {
	CourseViewed(ctx context.Context, userID, email string) error
}

type CourseHandler struct {
	repo     *content.Repository
	comp     editor.Compressor
	uploader editor.Uploader
	views    ViewRecorder
	logger   logger.Logger
}

func NewCourseHandler(repo *content.Repository, comp editor.Compressor, uploader editor.Uploader, views ViewRecorder, log logger.Logger) *CourseHandler {
	return &CourseHandler{
		repo:     repo,
		comp:     comp,
		uploader: uploader,
		views:    views,
		logger:   log,
	}
}

// ListPublished serves the course catalog to a signed-in visitor and
// records the visit. Access logging must never fail the page.
func (h *CourseHandler) ListPublished(c *gin.Context) {
	courses, err := h.repo.PublishedCourses(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	h.recordView(c)
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CourseHandler) GetPublished(c *gin.Context) {
	crs, err := h.repo.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if crs == nil || crs.Status != blog.StatusPublished {
		c.Error(apperror.NewNotFound("course", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": crs})
}

func (h *CourseHandler) AdminList(c *gin.Context) {
	courses, err := h.repo.ListCourses(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

func (h *CourseHandler) AdminGet(c *gin.Context) {
	crs, err := h.repo.GetCourseForEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if crs == nil {
		c.Error(apperror.NewNotFound("course", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": crs})
}

func (h *CourseHandler) AdminAccessList(c *gin.Context) {
	users, err := h.repo.CourseAccessUsers(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *CourseHandler) Create(c *gin.Context) {
	h.save(c, "")
}

func (h *CourseHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

func (h *CourseHandler) save(c *gin.Context, id string) {
	var req SaveCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	status := blog.Status(req.Status)
	if !status.Valid() {
		c.Error(apperror.NewInvalidInput("status must be draft or published", nil))
		return
	}

	sess := editor.NewCourseSession(h.repo, h.comp, h.uploader, h.logger)
	defer sess.Close()

	if id != "" {
		if err := sess.Load(c.Request.Context(), id); err != nil {
			c.Error(err)
			return
		}
	}

	draft := req.ToDraft()
	sess.SetTitle(draft.Title)
	sess.SetDescription(draft.Description)
	sess.SetMoreInfoLink(draft.MoreInfoLink)
	sess.SetOverview(draft.OverviewHTML)
	sess.SetChapters(draft.Chapters)
	if draft.ImageBase64 != "" {
		sess.SetImage(draft.ImageBase64)
	}

	savedID, err := sess.Save(c.Request.Context(), status)
	if err != nil {
		c.Error(err)
		return
	}

	code := http.StatusOK
	if id == "" {
		code = http.StatusCreated
	}
	c.JSON(code, gin.H{"course_id": savedID})
}

func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.repo.DeleteCourse(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *CourseHandler) recordView(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		return
	}
	email, _ := GetUserEmailFromGinContext(c)

	var err error
	if h.views != nil {
		err = h.views.CourseViewed(c.Request.Context(), userID, email)
	} else {
		err = h.repo.LogCourseAccess(c.Request.Context(), userID, email)
	}
	if err != nil {
		h.logger.Warn("record course view failed", zap.String("user_id", userID), zap.Error(err))
	}
}
