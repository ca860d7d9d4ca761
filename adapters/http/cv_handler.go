package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/kyangwi/portfolio/internal/content"
	"github.com/kyangwi/portfolio/internal/domain/cv"
	"github.com/kyangwi/portfolio/pkg/apperror"
)

type CVHandler struct {
	repo *content.Repository
}

func NewCVHandler(repo *content.Repository) *CVHandler {
	return &CVHandler{repo: repo}
}

// Get aggregates the whole CV page. The five collections are independent
// cache keys, so the reads fan out concurrently.
func (h *CVHandler) Get(c *gin.Context) {
	var (
		profile        *cv.Profile
		skills         []cv.SkillGroup
		education      []cv.Education
		experience     []cv.Experience
		certifications []cv.Certification
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		profile, err = h.repo.CVProfile(ctx)
		return err
	})
	g.Go(func() (err error) {
		skills, err = h.repo.CVSkillGroups(ctx)
		return err
	})
	g.Go(func() (err error) {
		education, err = h.repo.CVEducation(ctx)
		return err
	})
	g.Go(func() (err error) {
		experience, err = h.repo.CVExperience(ctx)
		return err
	})
	g.Go(func() (err error) {
		certifications, err = h.repo.CVCertifications(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":        profile,
		"skills":         skills,
		"education":      education,
		"experience":     experience,
		"certifications": certifications,
	})
}

func (h *CVHandler) SaveProfile(c *gin.Context) {
	var p cv.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	if err := h.repo.SaveCVProfile(c.Request.Context(), p); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func (h *CVHandler) CreateSkillGroup(c *gin.Context) {
	var g cv.SkillGroup
	if err := c.ShouldBindJSON(&g); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	id, err := h.repo.AddCVSkillGroup(c.Request.Context(), g)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CVHandler) UpdateSkillGroup(c *gin.Context) {
	var g cv.SkillGroup
	if err := c.ShouldBindJSON(&g); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	if err := h.repo.UpdateCVSkillGroup(c.Request.Context(), c.Param("id"), g); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *CVHandler) DeleteSkillGroup(c *gin.Context) {
	if err := h.repo.DeleteCVSkillGroup(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *CVHandler) CreateEducation(c *gin.Context) {
	var e cv.Education
	if err := c.ShouldBindJSON(&e); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	id, err := h.repo.AddCVEducation(c.Request.Context(), e)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CVHandler) UpdateEducation(c *gin.Context) {
	var e cv.Education
	if err := c.ShouldBindJSON(&e); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	if err := h.repo.UpdateCVEducation(c.Request.Context(), c.Param("id"), e); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *CVHandler) DeleteEducation(c *gin.Context) {
	if err := h.repo.DeleteCVEducation(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *CVHandler) CreateExperience(c *gin.Context) {
	var e cv.Experience
	if err := c.ShouldBindJSON(&e); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	id, err := h.repo.AddCVExperience(c.Request.Context(), e)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CVHandler) UpdateExperience(c *gin.Context) {
	var e cv.Experience
	if err := c.ShouldBindJSON(&e); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	if err := h.repo.UpdateCVExperience(c.Request.Context(), c.Param("id"), e); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *CVHandler) DeleteExperience(c *gin.Context) {
	if err := h.repo.DeleteCVExperience(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *CVHandler) CreateCertification(c *gin.Context) {
	var cert cv.Certification
	if err := c.ShouldBindJSON(&cert); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	id, err := h.repo.AddCVCertification(c.Request.Context(), cert)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *CVHandler) UpdateCertification(c *gin.Context) {
	var cert cv.Certification
	if err := c.ShouldBindJSON(&cert); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	if err := h.repo.UpdateCVCertification(c.Request.Context(), c.Param("id"), cert); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *CVHandler) DeleteCertification(c *gin.Context) {
	if err := h.repo.DeleteCVCertification(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
