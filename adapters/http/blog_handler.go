package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kyangwi/portfolio/internal/content"
	"github.com/kyangwi/portfolio/internal/domain/blog"
	"github.com/kyangwi/portfolio/internal/editor"
	"github.com/kyangwi/portfolio/pkg/apperror"
	"github.com/kyangwi/portfolio/pkg/logger"
)

type BlogHandler struct {
	repo     *content.Repository
	comp     editor.Compressor
	uploader editor.Uploader
	logger   logger.Logger
}

func NewBlogHandler(repo *content.Repository, comp editor.Compressor, uploader editor.Uploader, log logger.Logger) *BlogHandler {
	return &BlogHandler{
		repo:     repo,
		comp:     comp,
		uploader: uploader,
		logger:   log,
	}
}

func (h *BlogHandler) ListPublished(c *gin.Context) {
	posts, err := h.repo.RecentPublishedPosts(c.Request.Context(), 0)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *BlogHandler) ListRecent(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "3"))
	if err != nil || limit < 1 {
		c.Error(apperror.NewInvalidInput("limit must be a positive integer", err))
		return
	}

	posts, err := h.repo.RecentPublishedPosts(c.Request.Context(), limit)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPublished serves one post by id or slug. Drafts are invisible here.
func (h *BlogHandler) GetPublished(c *gin.Context) {
	p, err := h.repo.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if p == nil || p.Status != blog.StatusPublished {
		c.Error(apperror.NewNotFound("post", c.Param("id")))
		return
	}

	if err := h.repo.IncrementPostViews(c.Request.Context(), p.ID); err != nil {
		h.logger.Warn("increment post views failed")
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

func (h *BlogHandler) AdminList(c *gin.Context) {
	posts, err := h.repo.ListPosts(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// AdminGet serves the edit-mode copy: no cache, ghosts masked.
func (h *BlogHandler) AdminGet(c *gin.Context) {
	p, err := h.repo.GetPostForEdit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	if p == nil {
		c.Error(apperror.NewNotFound("post", c.Param("id")))
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

func (h *BlogHandler) Create(c *gin.Context) {
	h.save(c, "")
}

func (h *BlogHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

func (h *BlogHandler) save(c *gin.Context, id string) {
	var req SavePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	status := blog.Status(req.Status)
	if !status.Valid() {
		c.Error(apperror.NewInvalidInput("status must be draft or published", nil))
		return
	}

	sess := editor.NewPostSession(h.repo, h.comp, h.uploader, h.logger)
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
	sess.SetContent(draft.ContentHTML)
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
	c.JSON(code, gin.H{"post_id": savedID})
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.repo.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
