package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kyangwi/portfolio/internal/content"
	"github.com/kyangwi/portfolio/internal/domain/project"
	"github.com/kyangwi/portfolio/pkg/apperror"
)

type ProjectHandler struct {
	repo *content.Repository
}

func NewProjectHandler(repo *content.Repository) *ProjectHandler {
	return &ProjectHandler{repo: repo}
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.repo.ListProjects(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) ListFeatured(c *gin.Context) {
	projects, err := h.repo.FeaturedProjects(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var p project.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	id, err := h.repo.AddProject(c.Request.Context(), p)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"project_id": id})
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var p project.Project
	if err := c.ShouldBindJSON(&p); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	if err := h.repo.UpdateProject(c.Request.Context(), c.Param("id"), p); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.repo.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
