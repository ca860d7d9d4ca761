package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kyangwi/portfolio/internal/content"
	"github.com/kyangwi/portfolio/internal/domain/achievement"
	"github.com/kyangwi/portfolio/pkg/apperror"
)

type AchievementHandler struct {
	repo *content.Repository
}

func NewAchievementHandler(repo *content.Repository) *AchievementHandler {
	return &AchievementHandler{repo: repo}
}

func (h *AchievementHandler) List(c *gin.Context) {
	items, err := h.repo.ListAchievements(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": items})
}

func (h *AchievementHandler) Create(c *gin.Context) {
	var a achievement.Achievement
	if err := c.ShouldBindJSON(&a); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	id, err := h.repo.AddAchievement(c.Request.Context(), a)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"achievement_id": id})
}

func (h *AchievementHandler) Update(c *gin.Context) {
	var a achievement.Achievement
	if err := c.ShouldBindJSON(&a); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	if err := h.repo.UpdateAchievement(c.Request.Context(), c.Param("id"), a); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *AchievementHandler) Delete(c *gin.Context) {
	if err := h.repo.DeleteAchievement(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
